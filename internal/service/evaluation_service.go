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
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/internal/observability"
	"github.com/hackcentral/hackcentral-api/internal/repository"
	"github.com/hackcentral/hackcentral-api/internal/scoring"
)

// ErrSubmissionNotFound indicates the submission was not located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrJudgingClosed indicates the round's effective status does not permit judging.
var ErrJudgingClosed = errors.New("round is not open for judging")

// ErrManualJudgingDisabled indicates the round is evaluated by AI only.
var ErrManualJudgingDisabled = errors.New("manual judging is disabled for AI-only rounds")

// ErrNotAssignedJudge indicates the actor is not an invited judge for the
// hackathon, or not in the round's judge subset.
var ErrNotAssignedJudge = errors.New("not an assigned judge")

// EvaluationService handles judge scoring of submissions.
type EvaluationService interface {
	Submit(ctx context.Context, judgeID uint, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error)
	GetForSubmissionByJudge(ctx context.Context, submissionID, judgeID uint) (*dto.EvaluationResponse, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	submissions repository.SubmissionRepository
	hackathons  repository.HackathonRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(evaluations repository.EvaluationRepository, submissions repository.SubmissionRepository, hackathons repository.HackathonRepository, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		submissions: submissions,
		hackathons:  hackathons,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		tracer:      otel.Tracer("github.com/hackcentral/hackcentral-api/internal/service/evaluation"),
		now:         time.Now,
	}
}

// Submit validates a judge's marks against the round configuration and
// upserts the evaluation keyed by (submission, judge). All validation happens
// before any persistence.
func (s *evaluationService) Submit(ctx context.Context, judgeID uint, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.submit", trace.WithAttributes(
		attribute.Int64("evaluation.submission_id", int64(payload.SubmissionID)),
		attribute.Int64("evaluation.judge_id", int64(judgeID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, payload.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrSubmissionNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	hackathon, err := s.hackathons.GetByID(ctx, submission.HackathonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrHackathonNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	round, ok := hackathon.RoundByOrder(submission.RoundOrder)
	if !ok {
		return dto.EvaluationResponse{}, ErrRoundNotFound
	}

	if effective := scoring.EffectiveStatus(round, s.now()); effective != models.RoundStatusJudging {
		span.SetAttributes(attribute.String("round.effective_status", effective))
		return dto.EvaluationResponse{}, ErrJudgingClosed
	}

	if round.ScoringMode == models.ScoringModeAIOnly {
		return dto.EvaluationResponse{}, ErrManualJudgingDisabled
	}

	if !hackathon.HasJudge(judgeID) {
		return dto.EvaluationResponse{}, ErrNotAssignedJudge
	}
	if assigned := hackathon.JudgesForRound(round.Order); len(assigned) > 0 {
		found := false
		for _, id := range assigned {
			if id == judgeID {
				found = true
				break
			}
		}
		if !found {
			return dto.EvaluationResponse{}, ErrNotAssignedJudge
		}
	}

	marks := make([]scoring.MarkInput, 0, len(payload.Scores))
	for _, mark := range payload.Scores {
		marks = append(marks, scoring.MarkInput{
			CriterionID: mark.CriterionID,
			GivenMarks:  mark.GivenMarks,
			Comment:     strings.TrimSpace(s.sanitizer.Sanitize(mark.Comment)),
		})
	}

	sanitized, judgeTotal, err := scoring.ValidateScores(round.Criteria, marks)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_validation_failed")
		return dto.EvaluationResponse{}, err
	}

	finalTotal := scoring.Blend(judgeTotal, submission.AITotal, scoring.BlendConfigForRound(round))
	weightedScore := scoring.WeightRound(finalTotal, round.MaxScore, round.WeightagePercent)

	aiTotal := 0.0
	if submission.AITotal != nil {
		aiTotal = *submission.AITotal
	}

	evaluation := models.Evaluation{
		SubmissionID:  submission.ID,
		JudgeID:       judgeID,
		HackathonID:   hackathon.ID,
		RoundOrder:    round.Order,
		Scores:        datatypes.NewJSONSlice(sanitized),
		JudgeTotal:    judgeTotal,
		AITotal:       aiTotal,
		FinalTotal:    finalTotal,
		WeightedScore: weightedScore,
		Comments:      strings.TrimSpace(s.sanitizer.Sanitize(payload.Comments)),
	}

	if err := s.evaluations.Upsert(ctx, &evaluation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_upsert_failed")
		return dto.EvaluationResponse{}, err
	}
	observability.EvaluationUpserts().WithLabelValues(round.ScoringMode).Inc()

	if err := s.refreshSubmissionAggregate(ctx, &submission); err != nil {
		// The evaluation itself is stored; the aggregate is derivable and
		// recomputed on the next write or leaderboard run.
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to refresh submission judge aggregate")
		span.RecordError(err)
	}

	stored, err := s.evaluations.GetBySubmissionAndJudge(ctx, submission.ID, judgeID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	span.SetAttributes(
		attribute.Float64("evaluation.judge_total", judgeTotal),
		attribute.Float64("evaluation.final_total", finalTotal),
	)

	return dto.NewEvaluationResponse(stored), nil
}

// GetForSubmissionByJudge returns the judge's own evaluation, or nil when the
// judge has not scored the submission yet.
func (s *evaluationService) GetForSubmissionByJudge(ctx context.Context, submissionID, judgeID uint) (*dto.EvaluationResponse, error) {
	evaluation, err := s.evaluations.GetBySubmissionAndJudge(ctx, submissionID, judgeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	response := dto.NewEvaluationResponse(evaluation)
	return &response, nil
}

func (s *evaluationService) refreshSubmissionAggregate(ctx context.Context, submission *models.Submission) error {
	evaluations, err := s.evaluations.ListBySubmission(ctx, submission.ID)
	if err != nil {
		return err
	}

	var total float64
	for _, evaluation := range evaluations {
		total += evaluation.FinalTotal
	}

	submission.JudgeCount = len(evaluations)
	submission.JudgeAverage = 0
	if len(evaluations) > 0 {
		submission.JudgeAverage = total / float64(len(evaluations))
	}

	return s.submissions.Update(ctx, submission)
}
