package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/handler"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/internal/service"
)

type viewerCall struct {
	role     string
	viewerID uint
	snapshot models.LeaderboardSnapshot
}

type mockLeaderboardService struct {
	snapshot models.LeaderboardSnapshot
	view     dto.LeaderboardResponse
	updates  chan models.LeaderboardSnapshot
	calls    chan viewerCall
	err      error
	lastRole string
}

func (m *mockLeaderboardService) Generate(_ context.Context, hackathonID uint) (models.LeaderboardSnapshot, error) {
	if m.err != nil {
		return models.LeaderboardSnapshot{}, m.err
	}
	return m.snapshot, nil
}

func (m *mockLeaderboardService) GetCurrent(_ context.Context, hackathonID uint) (models.LeaderboardSnapshot, error) {
	if m.err != nil {
		return models.LeaderboardSnapshot{}, m.err
	}
	return m.snapshot, nil
}

func (m *mockLeaderboardService) ForViewer(_ context.Context, snapshot models.LeaderboardSnapshot, role string, viewerID uint) (dto.LeaderboardResponse, error) {
	m.lastRole = role
	if m.calls != nil {
		m.calls <- viewerCall{role: role, viewerID: viewerID, snapshot: snapshot}
	}
	return m.view, nil
}

func (m *mockLeaderboardService) Subscribe(hackathonID uint) (<-chan models.LeaderboardSnapshot, func()) {
	return m.updates, func() {}
}

func (m *mockLeaderboardService) Start(ctx context.Context) {}

func newLeaderboardApp(svc service.LeaderboardService, role string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/leaderboard", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(10))
		c.Locals("user_role", role)
		return c.Next()
	})
	organizerOnly := func(c *fiber.Ctx) error {
		if role != models.RoleOrganizer {
			return c.SendStatus(fiber.StatusForbidden)
		}
		return c.Next()
	}
	handler.NewLeaderboardHandler(svc, zerolog.New(io.Discard)).Register(group, organizerOnly)
	return app
}

func TestLeaderboardHandler_CurrentAppliesViewerFilter(t *testing.T) {
	svc := &mockLeaderboardService{
		snapshot: models.LeaderboardSnapshot{ID: 1, HackathonID: 2},
		view:     dto.LeaderboardResponse{SnapshotID: 1, HackathonID: 2},
	}
	app := newLeaderboardApp(svc, models.RoleParticipant)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, models.RoleParticipant, svc.lastRole)
}

func TestLeaderboardHandler_CurrentUnknownHackathon(t *testing.T) {
	app := newLeaderboardApp(&mockLeaderboardService{err: service.ErrHackathonNotFound}, models.RoleParticipant)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLeaderboardHandler_RefreshRequiresOrganizer(t *testing.T) {
	app := newLeaderboardApp(&mockLeaderboardService{}, models.RoleParticipant)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leaderboard/2/refresh", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLeaderboardHandler_LiveFiltersEachRefreshForViewer(t *testing.T) {
	raw := models.LeaderboardSnapshot{
		ID:          7,
		HackathonID: 2,
		Rows: datatypes.NewJSONSlice([]models.SnapshotRow{{
			Team: models.SnapshotTeam{ID: 3, Name: "Night Owls"},
			RoundScores: []models.SnapshotRoundScore{{
				RoundOrder:      1,
				FinalRoundScore: 19.4,
				Breakdown:       models.RoundBreakdown{AverageJudgeScore: 20, AIScore: 18},
			}},
			TotalScore: 13.58,
			Rank:       1,
		}}),
	}
	svc := &mockLeaderboardService{
		updates: make(chan models.LeaderboardSnapshot, 1),
		calls:   make(chan viewerCall, 1),
		view: dto.LeaderboardResponse{
			SnapshotID:  7,
			HackathonID: 2,
			Rows: []dto.LeaderboardRow{{
				Team:        dto.LeaderboardTeam{ID: 3, Name: "Night Owls"},
				RoundScores: []dto.LeaderboardRoundScore{{RoundOrder: 1}},
				TotalScore:  13.58,
				Rank:        1,
			}},
		},
	}
	app := newLeaderboardApp(svc, models.RoleParticipant)

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/leaderboard/2/live"
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}
	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	svc.updates <- raw

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var view dto.LeaderboardResponse
	require.NoError(t, json.Unmarshal(payload, &view))
	require.Equal(t, uint(7), view.SnapshotID)
	require.Equal(t, 1, view.Rows[0].Rank)
	require.Nil(t, view.Rows[0].RoundScores[0].FinalRoundScore)
	require.Nil(t, view.Rows[0].RoundScores[0].Breakdown)

	select {
	case call := <-svc.calls:
		require.Equal(t, models.RoleParticipant, call.role)
		require.Equal(t, uint(10), call.viewerID)
		require.Equal(t, uint(7), call.snapshot.ID)
	default:
		t.Fatal("expected the viewer filter to run on the streamed refresh")
	}
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
	}

	return "http://" + listener.Addr().String(), shutdown
}
