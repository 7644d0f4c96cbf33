package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/scoring"
	"github.com/hackcentral/hackcentral-api/internal/service"
	"github.com/hackcentral/hackcentral-api/internal/utils"
)

// EvaluationHandler manages judge scoring endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("/submission/:submissionId", h.getForSubmission)
}

func (h *EvaluationHandler) submit(c *fiber.Ctx) error {
	var payload dto.EvaluationSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	evaluation, err := h.service.Submit(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation recorded", evaluation)
}

func (h *EvaluationHandler) getForSubmission(c *fiber.Ctx) error {
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	evaluation, err := h.service.GetForSubmissionByJudge(c.Context(), submissionID, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	if evaluation == nil {
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "evaluation not found")
	}

	return utils.SendSuccess(c, "evaluation retrieved", evaluation)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "submission not found")
	case errors.Is(err, service.ErrHackathonNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "hackathon not found")
	case errors.Is(err, service.ErrRoundNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "round not found")
	case errors.Is(err, service.ErrNotAssignedJudge):
		return utils.SendErrorCode(c, fiber.StatusForbidden, utils.CodeAuthorization, err.Error())
	case errors.Is(err, service.ErrJudgingClosed),
		errors.Is(err, service.ErrManualJudgingDisabled):
		return utils.SendErrorCode(c, fiber.StatusConflict, utils.CodeState, err.Error())
	case errors.Is(err, scoring.ErrMissingCriterionScore),
		errors.Is(err, scoring.ErrScoreOutOfBounds):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	case isValidationError(err):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}
