package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/internal/observability"
	"github.com/hackcentral/hackcentral-api/internal/repository"
)

// AggregationWeights are the fixed judge/AI shares used by the leaderboard
// aggregation path. They intentionally do not read the per-round scoring
// config; see DESIGN.md for the dual-path decision.
type AggregationWeights struct {
	Judge float64
	AI    float64
}

// DefaultAggregationWeights mirrors the historical 70/30 split.
var DefaultAggregationWeights = AggregationWeights{Judge: 0.7, AI: 0.3}

// LeaderboardService produces and serves immutable leaderboard snapshots.
type LeaderboardService interface {
	Generate(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, error)
	GetCurrent(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, error)
	ForViewer(ctx context.Context, snapshot models.LeaderboardSnapshot, role string, viewerID uint) (dto.LeaderboardResponse, error)
	Subscribe(hackathonID uint) (<-chan models.LeaderboardSnapshot, func())
	Start(ctx context.Context)
}

type leaderboardService struct {
	hackathons  repository.HackathonRepository
	teams       repository.TeamRepository
	submissions repository.SubmissionRepository
	evaluations repository.EvaluationRepository
	snapshots   repository.SnapshotRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	nats        *nats.Conn
	natsSubject string
	weights     AggregationWeights
	logger      zerolog.Logger
	tracer      trace.Tracer
	broker      *leaderboardBroker
	nodeID      string
	now         func() time.Time
}

// LeaderboardDeps groups the collaborators of the leaderboard service.
type LeaderboardDeps struct {
	Hackathons  repository.HackathonRepository
	Teams       repository.TeamRepository
	Submissions repository.SubmissionRepository
	Evaluations repository.EvaluationRepository
	Snapshots   repository.SnapshotRepository
	Cache       *redis.Client
	CacheTTL    time.Duration
	NATS        *nats.Conn
	NATSSubject string
	Weights     AggregationWeights
}

// NewLeaderboardService constructs the leaderboard service.
func NewLeaderboardService(deps LeaderboardDeps, logger zerolog.Logger) LeaderboardService {
	weights := deps.Weights
	if weights.Judge == 0 && weights.AI == 0 {
		weights = DefaultAggregationWeights
	}

	return &leaderboardService{
		hackathons:  deps.Hackathons,
		teams:       deps.Teams,
		submissions: deps.Submissions,
		evaluations: deps.Evaluations,
		snapshots:   deps.Snapshots,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		nats:        deps.NATS,
		natsSubject: deps.NATSSubject,
		weights:     weights,
		logger:      logger.With().Str("component", "leaderboard_service").Logger(),
		tracer:      otel.Tracer("github.com/hackcentral/hackcentral-api/internal/service/leaderboard"),
		broker:      newLeaderboardBroker(),
		nodeID:      uuid.NewString(),
		now:         time.Now,
	}
}

// Generate computes one new immutable snapshot reflecting the current
// evaluation and AI-score state, appends it to the snapshot log and fans the
// result out to live subscribers. Repeated runs with unchanged inputs produce
// numerically identical rows.
func (s *leaderboardService) Generate(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "leaderboard.generate", trace.WithAttributes(
		attribute.Int64("leaderboard.hackathon_id", int64(hackathonID)),
	))
	defer span.End()
	start := s.now()

	hackathon, err := s.hackathons.GetByID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "hackathon_not_found")
			return models.LeaderboardSnapshot{}, ErrHackathonNotFound
		}
		return models.LeaderboardSnapshot{}, err
	}

	teams, err := s.teams.ListByHackathon(ctx, hackathonID)
	if err != nil {
		return models.LeaderboardSnapshot{}, err
	}

	rows := make([]models.SnapshotRow, 0, len(teams))
	for _, team := range teams {
		row, err := s.buildRow(ctx, hackathon, team)
		if err != nil {
			return models.LeaderboardSnapshot{}, err
		}
		rows = append(rows, row)
	}

	// Teams arrive ordered by creation time then id, so equal totals keep a
	// deterministic earliest-registered-first order under the stable sort.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalScore > rows[j].TotalScore
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	snapshot := models.LeaderboardSnapshot{
		HackathonID: hackathonID,
		GeneratedAt: s.now(),
		Rows:        datatypes.NewJSONSlice(rows),
	}
	if err := s.snapshots.Create(ctx, &snapshot); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot_persist_failed")
		return models.LeaderboardSnapshot{}, err
	}

	s.storeCache(ctx, snapshot)
	s.publish(snapshot)

	duration := s.now().Sub(start)
	observability.LeaderboardGenerations().Observe(duration.Seconds())
	span.SetAttributes(attribute.Int("leaderboard.rows", len(rows)))
	s.logger.Info().
		Uint("hackathon_id", hackathonID).
		Int("teams", len(rows)).
		Dur("duration", duration).
		Msg("leaderboard snapshot generated")

	return snapshot, nil
}

func (s *leaderboardService) buildRow(ctx context.Context, hackathon models.Hackathon, team models.Team) (models.SnapshotRow, error) {
	var totalWeightedScore float64
	roundScores := make([]models.SnapshotRoundScore, 0, len(hackathon.Rounds))

	for _, round := range hackathon.Rounds {
		var judgeAverage, aiScore, totalJudgeScore float64

		submission, err := s.submissions.GetByTeamAndRound(ctx, hackathon.ID, team.ID, round.Order)
		switch {
		case err == nil:
			evaluations, err := s.evaluations.ListBySubmission(ctx, submission.ID)
			if err != nil {
				return models.SnapshotRow{}, err
			}
			for _, evaluation := range evaluations {
				totalJudgeScore += evaluation.FinalTotal
			}
			if len(evaluations) > 0 {
				judgeAverage = totalJudgeScore / float64(len(evaluations))
			}
			if submission.AITotal != nil {
				aiScore = *submission.AITotal
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No submission contributes zero, it is not an error.
		default:
			return models.SnapshotRow{}, err
		}

		judgeContribution := judgeAverage * s.weights.Judge
		aiContribution := aiScore * s.weights.AI
		finalRoundScore := judgeContribution + aiContribution
		weightedRoundScore := finalRoundScore * round.WeightagePercent / 100
		totalWeightedScore += weightedRoundScore

		roundScores = append(roundScores, models.SnapshotRoundScore{
			RoundOrder:       round.Order,
			RoundName:        round.Name,
			MaxRoundScore:    round.MaxScore,
			WeightagePercent: round.WeightagePercent,
			FinalRoundScore:  finalRoundScore,
			Breakdown: models.RoundBreakdown{
				TotalJudgeScore:    totalJudgeScore,
				AverageJudgeScore:  judgeAverage,
				AIScore:            aiScore,
				JudgeContribution:  judgeContribution,
				AIContribution:     aiContribution,
				WeightedRoundScore: weightedRoundScore,
			},
		})
	}

	return models.SnapshotRow{
		Team: models.SnapshotTeam{
			ID:        team.ID,
			Name:      team.Name,
			TeamCode:  team.TeamCode,
			MemberIDs: team.MemberIDs,
			LeaderID:  team.LeaderID,
		},
		RoundScores: roundScores,
		TotalScore:  math.Round(totalWeightedScore*100) / 100,
	}, nil
}

// GetCurrent returns the most recently generated snapshot, lazily generating
// the first one. A stale snapshot is served as-is; only an explicit Generate
// refreshes the numbers.
func (s *leaderboardService) GetCurrent(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, error) {
	if cached, ok := s.readCache(ctx, hackathonID); ok {
		return cached, nil
	}

	snapshot, err := s.snapshots.GetLatest(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Generate(ctx, hackathonID)
		}
		return models.LeaderboardSnapshot{}, err
	}

	s.storeCache(ctx, snapshot)
	return snapshot, nil
}

func (s *leaderboardService) cacheKey(hackathonID uint) string {
	return fmt.Sprintf("leaderboard:current:%d", hackathonID)
}

func (s *leaderboardService) readCache(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, bool) {
	if s.cache == nil {
		return models.LeaderboardSnapshot{}, false
	}

	cached, err := s.cache.Get(ctx, s.cacheKey(hackathonID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
		return models.LeaderboardSnapshot{}, false
	}

	var snapshot models.LeaderboardSnapshot
	if err := json.Unmarshal([]byte(cached), &snapshot); err != nil {
		return models.LeaderboardSnapshot{}, false
	}

	s.logger.Debug().Uint("hackathon_id", hackathonID).Msg("leaderboard cache hit")
	return snapshot, true
}

func (s *leaderboardService) storeCache(ctx context.Context, snapshot models.LeaderboardSnapshot) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(snapshot.HackathonID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
	}
}
