package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hackcentral/hackcentral-api/internal/config"
	"github.com/hackcentral/hackcentral-api/internal/handler"
	"github.com/hackcentral/hackcentral-api/internal/middleware"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HackathonHandler   *handler.HackathonHandler
	SubmissionHandler  *handler.SubmissionHandler
	EvaluationHandler  *handler.EvaluationHandler
	LeaderboardHandler *handler.LeaderboardHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	organizerOnly := middleware.RequireRole(models.RoleOrganizer)
	scorerOnly := middleware.RequireRole(models.RoleScorer, models.RoleOrganizer)

	if deps.HackathonHandler != nil {
		hackathons := api.Group("/hackathons", jwtMiddleware)
		deps.HackathonHandler.Register(hackathons, organizerOnly)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware, middleware.RateLimit("submissions", 30, time.Minute))
		deps.SubmissionHandler.Register(submissions, scorerOnly)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations", jwtMiddleware, middleware.RequireRole(models.RoleJudge), middleware.RateLimit("evaluations", 60, time.Minute))
		deps.EvaluationHandler.Register(evaluations)
	}

	if deps.LeaderboardHandler != nil {
		leaderboard := api.Group("/leaderboard", jwtMiddleware)
		deps.LeaderboardHandler.Register(leaderboard, organizerOnly)
	}
}
