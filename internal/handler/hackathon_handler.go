package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/service"
	"github.com/hackcentral/hackcentral-api/internal/utils"
)

// HackathonHandler manages hackathon and round lifecycle endpoints.
type HackathonHandler struct {
	service service.HackathonService
	logger  zerolog.Logger
}

// NewHackathonHandler builds a hackathon handler instance.
func NewHackathonHandler(service service.HackathonService, logger zerolog.Logger) *HackathonHandler {
	return &HackathonHandler{
		service: service,
		logger:  logger.With().Str("component", "hackathon_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *HackathonHandler) Register(router fiber.Router, organizerOnly fiber.Handler) {
	router.Post("", organizerOnly, h.create)
	router.Get("/:id", h.get)
	router.Put("/:id/rounds/:order/status", organizerOnly, h.updateRoundStatus)
	router.Post("/:id/rounds/:order/publish", organizerOnly, h.publishRound)
}

func (h *HackathonHandler) create(c *fiber.Ctx) error {
	var payload dto.HackathonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	hackathon, err := h.service.Create(c.Context(), payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "hackathon created", hackathon)
}

func (h *HackathonHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	hackathon, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "hackathon retrieved", hackathon)
}

func (h *HackathonHandler) updateRoundStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}
	order, err := parseIntParam(c, "order")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	var payload dto.RoundStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	hackathon, err := h.service.UpdateRoundStatus(c.Context(), id, order, payload.Status, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "round status updated", hackathon)
}

func (h *HackathonHandler) publishRound(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}
	order, err := parseIntParam(c, "order")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	hackathon, err := h.service.PublishRound(c.Context(), id, order, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "round published", hackathon)
}

func (h *HackathonHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrHackathonNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "hackathon not found")
	case errors.Is(err, service.ErrRoundNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "round not found")
	case errors.Is(err, service.ErrNotOwner):
		return utils.SendErrorCode(c, fiber.StatusForbidden, utils.CodeAuthorization, err.Error())
	case errors.Is(err, service.ErrWeightageSumInvalid),
		errors.Is(err, service.ErrMaxScoreMismatch),
		errors.Is(err, service.ErrInvalidRoundStatus):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	case isValidationError(err):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}
