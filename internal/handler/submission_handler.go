package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/service"
	"github.com/hackcentral/hackcentral-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router, scorerOnly fiber.Handler) {
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id/ai-score", scorerOnly, h.setAIScore)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	submission, err := h.service.Submit(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission recorded", submission)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	submission, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) setAIScore(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	var payload dto.AIScoreRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	submission, err := h.service.SetAIScore(c.Context(), id, payload.TotalAIScore)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ai score recorded", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrHackathonNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "hackathon not found")
	case errors.Is(err, service.ErrRoundNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "round not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "submission not found")
	case errors.Is(err, service.ErrNoTeam):
		return utils.SendErrorCode(c, fiber.StatusForbidden, utils.CodeAuthorization, err.Error())
	case errors.Is(err, service.ErrSubmissionsClosed),
		errors.Is(err, service.ErrSubmissionLocked):
		return utils.SendErrorCode(c, fiber.StatusConflict, utils.CodeState, err.Error())
	case errors.Is(err, service.ErrSubmissionDataInvalid):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	case isValidationError(err):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}
