package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/hackcentral/hackcentral-api/internal/service"
	"github.com/hackcentral/hackcentral-api/internal/utils"
)

// LeaderboardHandler exposes snapshot retrieval, regeneration and the live stream.
type LeaderboardHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewLeaderboardHandler builds a leaderboard handler instance.
func NewLeaderboardHandler(service service.LeaderboardService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *LeaderboardHandler) Register(router fiber.Router, organizerOnly fiber.Handler) {
	router.Get("/:hackathonId", h.current)
	router.Post("/:hackathonId/refresh", organizerOnly, h.refresh)

	router.Use("/:hackathonId/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/:hackathonId/live", websocket.New(h.live))
}

func (h *LeaderboardHandler) current(c *fiber.Ctx) error {
	hackathonID, err := parseUintParam(c, "hackathonId")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	snapshot, err := h.service.GetCurrent(c.Context(), hackathonID)
	if err != nil {
		return h.handleError(c, err)
	}

	view, err := h.service.ForViewer(c.Context(), snapshot, userRoleFromContext(c), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", view)
}

func (h *LeaderboardHandler) refresh(c *fiber.Ctx) error {
	hackathonID, err := parseUintParam(c, "hackathonId")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	}

	snapshot, err := h.service.Generate(c.Context(), hackathonID)
	if err != nil {
		return h.handleError(c, err)
	}

	view, err := h.service.ForViewer(c.Context(), snapshot, userRoleFromContext(c), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard regenerated", view)
}

// live streams freshly generated snapshots to the connected client until it
// disconnects. Each subscriber gets its own channel from the broker, and every
// frame passes through the same viewer filter as the REST reads, so the stream
// reveals no more than a GET by the same caller would.
func (h *LeaderboardHandler) live(conn *websocket.Conn) {
	hackathonID, err := websocketHackathonID(conn)
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid hackathon id"))
		_ = conn.Close()
		return
	}

	role, _ := conn.Locals("user_role").(string)
	viewerID, _ := conn.Locals("user_id").(uint)

	updates, cancel := h.service.Subscribe(hackathonID)
	defer cancel()
	defer conn.Close()

	h.logger.Info().Uint("hackathon_id", hackathonID).Msg("leaderboard websocket connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			view, err := h.service.ForViewer(context.Background(), snapshot, role, viewerID)
			if err != nil {
				h.logger.Warn().Err(err).Uint("hackathon_id", hackathonID).Msg("dropping leaderboard refresh for viewer")
				continue
			}
			if err := conn.WriteJSON(view); err != nil {
				h.logger.Debug().Err(err).Uint("hackathon_id", hackathonID).Msg("leaderboard websocket write failed")
				return
			}
		case <-done:
			h.logger.Info().Uint("hackathon_id", hackathonID).Msg("leaderboard websocket disconnected")
			return
		}
	}
}

func (h *LeaderboardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrHackathonNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, utils.CodeNotFound, "hackathon not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendErrorCode(c, fiber.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}

func websocketHackathonID(conn *websocket.Conn) (uint, error) {
	parsed, err := strconv.ParseUint(conn.Params("hackathonId"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
