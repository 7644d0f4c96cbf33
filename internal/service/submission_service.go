package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/internal/repository"
	"github.com/hackcentral/hackcentral-api/internal/scoring"
	"github.com/hackcentral/hackcentral-api/pkg/ai"
)

// ErrSubmissionsClosed indicates the round's effective status is not open.
var ErrSubmissionsClosed = errors.New("round is not accepting submissions")

// ErrSubmissionLocked indicates the submission was frozen by a round transition.
var ErrSubmissionLocked = errors.New("submission is locked")

// ErrNoTeam indicates the user has no team in the hackathon.
var ErrNoTeam = errors.New("user has no team in this hackathon")

// ErrSubmissionDataInvalid indicates the payload violates the round's form schema.
var ErrSubmissionDataInvalid = errors.New("submission data invalid")

// SubmissionService manages team submissions and AI score ingestion.
type SubmissionService interface {
	Submit(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	SetAIScore(ctx context.Context, submissionID uint, total float64) (dto.SubmissionResponse, error)
}

const defaultAIScoreTimeout = 2 * time.Minute

type submissionService struct {
	submissions    repository.SubmissionRepository
	teams          repository.TeamRepository
	hackathons     repository.HackathonRepository
	validator      *validator.Validate
	sanitizer      *bluemonday.Policy
	scorer         ai.Scorer
	aiScoreTimeout time.Duration
	logger         zerolog.Logger
	tracer         trace.Tracer
	now            func() time.Time
}

// NewSubmissionService constructs the submission service. The scorer may be
// nil; AI scores then arrive only through the ingestion endpoint. A
// non-positive aiScoreTimeout falls back to the default.
func NewSubmissionService(submissions repository.SubmissionRepository, teams repository.TeamRepository, hackathons repository.HackathonRepository, validate *validator.Validate, scorer ai.Scorer, aiScoreTimeout time.Duration, logger zerolog.Logger) SubmissionService {
	if aiScoreTimeout <= 0 {
		aiScoreTimeout = defaultAIScoreTimeout
	}
	return &submissionService{
		submissions:    submissions,
		teams:          teams,
		hackathons:     hackathons,
		validator:      validate,
		sanitizer:      bluemonday.StrictPolicy(),
		scorer:         scorer,
		aiScoreTimeout: aiScoreTimeout,
		logger:         logger.With().Str("component", "submission_service").Logger(),
		tracer:         otel.Tracer("github.com/hackcentral/hackcentral-api/internal/service/submission"),
		now:            time.Now,
	}
}

// Submit creates or resubmits a team's entry for a round. Lock state and the
// round's effective status are checked strictly before any write so a late
// submission can never sneak past a closing transition.
func (s *submissionService) Submit(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit", trace.WithAttributes(
		attribute.Int64("submission.hackathon_id", int64(payload.HackathonID)),
		attribute.Int("submission.round_order", payload.RoundOrder),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	hackathon, err := s.hackathons.GetByID(ctx, payload.HackathonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrHackathonNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	round, ok := hackathon.RoundByOrder(payload.RoundOrder)
	if !ok {
		return dto.SubmissionResponse{}, ErrRoundNotFound
	}

	now := s.now()
	if effective := scoring.EffectiveStatus(round, now); effective != models.RoundStatusOpen {
		span.SetAttributes(attribute.String("round.effective_status", effective))
		return dto.SubmissionResponse{}, ErrSubmissionsClosed
	}

	team, err := s.teams.FindForMember(ctx, hackathon.ID, userID)
	if err != nil {
		return dto.SubmissionResponse{}, ErrNoTeam
	}

	if err := validateSubmissionData(round.SubmissionFields, payload.Data); err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	notes := strings.TrimSpace(s.sanitizer.Sanitize(payload.NotesText))
	isLate := round.EndTime != nil && now.After(*round.EndTime)

	submission, err := s.submissions.GetByTeamAndRound(ctx, hackathon.ID, team.ID, round.Order)
	switch {
	case err == nil:
		if submission.IsLocked {
			return dto.SubmissionResponse{}, ErrSubmissionLocked
		}
		submission.NotesText = notes
		submission.Data = payload.Data
		submission.Version++
		submission.Status = models.SubmissionStatusResubmitted
		submission.SubmittedAt = now
		submission.SubmittedBy = userID
		submission.IsLate = isLate
		if err := s.submissions.Update(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission = models.Submission{
			HackathonID: hackathon.ID,
			RoundOrder:  round.Order,
			TeamID:      team.ID,
			SubmittedBy: userID,
			NotesText:   notes,
			Data:        payload.Data,
			Version:     1,
			Status:      models.SubmissionStatusSubmitted,
			SubmittedAt: now,
			IsLate:      isLate,
		}
		if err := s.submissions.Create(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}
	default:
		return dto.SubmissionResponse{}, err
	}

	s.scheduleAIScore(hackathon, round, submission)
	span.SetAttributes(attribute.Int("submission.version", submission.Version))

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// SetAIScore ingests the external scorer's total for a submission.
func (s *submissionService) SetAIScore(ctx context.Context, submissionID uint, total float64) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submission.AITotal = &total
	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submissionID).Float64("total", total).Msg("ai score recorded")
	return dto.NewSubmissionResponse(submission), nil
}

// scheduleAIScore asks the configured scorer for a total in the background.
// Failures only leave the AI score absent; they never surface to the caller.
func (s *submissionService) scheduleAIScore(hackathon models.Hackathon, round models.Round, submission models.Submission) {
	if s.scorer == nil {
		return
	}

	criteria := make([]ai.CriterionSpec, 0, len(round.Criteria))
	for _, criterion := range round.Criteria {
		criteria = append(criteria, ai.CriterionSpec{Title: criterion.Title, MaxMarks: criterion.MaxMarks})
	}

	input := ai.ScoreInput{
		HackathonTitle: hackathon.Title,
		RoundName:      round.Name,
		MaxScore:       round.MaxScore,
		Criteria:       criteria,
		NotesText:      submission.NotesText,
		Fields:         submission.Data,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.aiScoreTimeout)
		defer cancel()

		result, err := s.scorer.Score(ctx, input)
		if err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("ai scoring failed, leaving score absent")
			return
		}
		if _, err := s.SetAIScore(ctx, submission.ID, result.Total); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to store ai score")
		}
	}()
}
