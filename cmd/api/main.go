package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hackcentral/hackcentral-api/internal/config"
	"github.com/hackcentral/hackcentral-api/internal/database"
	"github.com/hackcentral/hackcentral-api/internal/handler"
	"github.com/hackcentral/hackcentral-api/internal/middleware"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/internal/repository"
	"github.com/hackcentral/hackcentral-api/internal/router"
	"github.com/hackcentral/hackcentral-api/internal/service"
	"github.com/hackcentral/hackcentral-api/pkg/ai"
	"github.com/nats-io/nats.go"
)

const leaderboardSubject = "hackcentral.leaderboard.generated"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Hackathon{},
		&models.Round{},
		&models.Team{},
		&models.Submission{},
		&models.Evaluation{},
		&models.LeaderboardSnapshot{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	} else {
		logger.Warn().Msg("nats url not configured, leaderboard fan-out is node-local only")
	}

	var scorer ai.Scorer
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		openAIScorer, err := ai.NewOpenAIScorer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create ai scorer: %v", err)
		}
		scorer = openAIScorer
	} else {
		logger.Warn().Msg("ai scorer not configured, submissions will carry judge scores only")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	hackathonRepo := repository.NewHackathonRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	hackathonService := service.NewHackathonService(hackathonRepo, submissionRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, teamRepo, hackathonRepo, validate, scorer, cfg.AIScoreTimeout, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, submissionRepo, hackathonRepo, validate, logger)
	leaderboardService := service.NewLeaderboardService(service.LeaderboardDeps{
		Hackathons:  hackathonRepo,
		Teams:       teamRepo,
		Submissions: submissionRepo,
		Evaluations: evaluationRepo,
		Snapshots:   snapshotRepo,
		Cache:       redisClient,
		CacheTTL:    cfg.LeaderboardCacheTTL,
		NATS:        natsConn,
		NATSSubject: leaderboardSubject,
		Weights:     service.AggregationWeights{Judge: cfg.JudgeWeight, AI: cfg.AIWeight},
	}, logger)

	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()
	leaderboardService.Start(runCtx)

	hackathonHandler := handler.NewHackathonHandler(hackathonService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		HackathonHandler:   hackathonHandler,
		SubmissionHandler:  submissionHandler,
		EvaluationHandler:  evaluationHandler,
		LeaderboardHandler: leaderboardHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
