package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/internal/repository"
	"github.com/hackcentral/hackcentral-api/internal/scoring"
)

// ErrHackathonNotFound indicates the hackathon does not exist.
var ErrHackathonNotFound = errors.New("hackathon not found")

// ErrNotOwner indicates the actor does not own the hackathon.
var ErrNotOwner = errors.New("only the creating organizer can manage this hackathon")

// ErrRoundNotFound indicates no round exists with the requested order.
var ErrRoundNotFound = errors.New("round not found")

// ErrWeightageSumInvalid indicates the round weightages do not total 100%.
var ErrWeightageSumInvalid = errors.New("total round weightage must be 100%")

// ErrMaxScoreMismatch indicates a round maxScore differs from its criteria sum.
var ErrMaxScoreMismatch = errors.New("round max score does not match sum of criteria marks")

// ErrInvalidRoundStatus indicates an unknown round status value.
var ErrInvalidRoundStatus = errors.New("invalid round status")

// lockingStatuses are the transitions that freeze a round's submissions.
var lockingStatuses = map[string]struct{}{
	models.RoundStatusSubmissionClosed: {},
	models.RoundStatusJudging:          {},
	models.RoundStatusPublished:        {},
}

// HackathonService manages hackathon configuration and round lifecycle.
type HackathonService interface {
	Create(ctx context.Context, payload dto.HackathonCreateRequest, creatorID uint) (dto.HackathonResponse, error)
	Get(ctx context.Context, id uint) (dto.HackathonResponse, error)
	UpdateRoundStatus(ctx context.Context, hackathonID uint, order int, status string, actorID uint) (dto.HackathonResponse, error)
	PublishRound(ctx context.Context, hackathonID uint, order int, actorID uint) (dto.HackathonResponse, error)
}

type hackathonService struct {
	hackathons  repository.HackathonRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewHackathonService constructs the hackathon service.
func NewHackathonService(hackathons repository.HackathonRepository, submissions repository.SubmissionRepository, validate *validator.Validate, logger zerolog.Logger) HackathonService {
	return &hackathonService{
		hackathons:  hackathons,
		submissions: submissions,
		validator:   validate,
		logger:      logger.With().Str("component", "hackathon_service").Logger(),
		tracer:      otel.Tracer("github.com/hackcentral/hackcentral-api/internal/service/hackathon"),
		now:         time.Now,
	}
}

func (s *hackathonService) Create(ctx context.Context, payload dto.HackathonCreateRequest, creatorID uint) (dto.HackathonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.HackathonResponse{}, err
	}

	var totalWeightage float64
	for _, round := range payload.Rounds {
		totalWeightage += round.WeightagePercent
	}
	if math.Abs(totalWeightage-100) > 1e-9 {
		return dto.HackathonResponse{}, ErrWeightageSumInvalid
	}

	rounds := make([]models.Round, 0, len(payload.Rounds))
	for _, roundReq := range payload.Rounds {
		criteria := make([]models.Criterion, 0, len(roundReq.Criteria))
		var criteriaSum float64
		for _, criterionReq := range roundReq.Criteria {
			criteria = append(criteria, models.Criterion{
				ID:          uuid.NewString(),
				Title:       criterionReq.Title,
				MaxMarks:    criterionReq.MaxMarks,
				Description: criterionReq.Description,
			})
			criteriaSum += criterionReq.MaxMarks
		}
		if math.Abs(criteriaSum-roundReq.MaxScore) > 1e-9 {
			return dto.HackathonResponse{}, ErrMaxScoreMismatch
		}

		fields := make([]models.SubmissionField, 0, len(roundReq.SubmissionFields))
		for _, fieldReq := range roundReq.SubmissionFields {
			fields = append(fields, models.SubmissionField{
				FieldKey: fieldReq.FieldKey,
				Label:    fieldReq.Label,
				Type:     fieldReq.Type,
				Required: fieldReq.Required,
			})
		}

		scoringMode := roundReq.ScoringMode
		if scoringMode == "" {
			scoringMode = models.ScoringModeHybrid
		}
		autoControl := true
		if roundReq.AutoTimeControlEnabled != nil {
			autoControl = *roundReq.AutoTimeControlEnabled
		}

		rounds = append(rounds, models.Round{
			Name:                   roundReq.Name,
			Description:            roundReq.Description,
			Order:                  roundReq.Order,
			MaxScore:               roundReq.MaxScore,
			WeightagePercent:       roundReq.WeightagePercent,
			Status:                 models.RoundStatusDraft,
			ScoringMode:            scoringMode,
			AIWeight:               roundReq.AIWeight,
			JudgeWeight:            roundReq.JudgeWeight,
			StartTime:              roundReq.StartTime,
			EndTime:                roundReq.EndTime,
			AutoTimeControlEnabled: autoControl,
			Criteria:               datatypes.NewJSONSlice(criteria),
			SubmissionFields:       datatypes.NewJSONSlice(fields),
		})
	}

	roundJudges := payload.RoundJudges
	if roundJudges == nil {
		roundJudges = map[string][]uint{}
	}

	hackathon := models.Hackathon{
		Title:       payload.Title,
		Description: payload.Description,
		Theme:       payload.Theme,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		CreatedBy:   creatorID,
		JudgeIDs:    datatypes.NewJSONSlice(payload.JudgeIDs),
		RoundJudges: datatypes.NewJSONType(roundJudges),
	}
	hackathon.Rounds = rounds

	if err := s.hackathons.Create(ctx, &hackathon); err != nil {
		return dto.HackathonResponse{}, err
	}

	s.logger.Info().Uint("hackathon_id", hackathon.ID).Int("rounds", len(rounds)).Msg("hackathon created")

	return dto.NewHackathonResponse(hackathon, s.effectiveStatuses(hackathon)), nil
}

func (s *hackathonService) Get(ctx context.Context, id uint) (dto.HackathonResponse, error) {
	hackathon, err := s.hackathons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HackathonResponse{}, ErrHackathonNotFound
		}
		return dto.HackathonResponse{}, err
	}

	return dto.NewHackathonResponse(hackathon, s.effectiveStatuses(hackathon)), nil
}

func (s *hackathonService) UpdateRoundStatus(ctx context.Context, hackathonID uint, order int, status string, actorID uint) (dto.HackathonResponse, error) {
	ctx, span := s.tracer.Start(ctx, "hackathon.round_status_update", trace.WithAttributes(
		attribute.Int64("hackathon.id", int64(hackathonID)),
		attribute.Int("round.order", order),
		attribute.String("round.status", status),
	))
	defer span.End()

	if !models.ValidRoundStatus(status) {
		return dto.HackathonResponse{}, ErrInvalidRoundStatus
	}

	hackathon, err := s.hackathons.GetByID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HackathonResponse{}, ErrHackathonNotFound
		}
		return dto.HackathonResponse{}, err
	}
	if !hackathon.IsOwnedBy(actorID) {
		return dto.HackathonResponse{}, ErrNotOwner
	}
	if _, ok := hackathon.RoundByOrder(order); !ok {
		return dto.HackathonResponse{}, ErrRoundNotFound
	}

	if err := s.hackathons.UpdateRoundStatus(ctx, hackathonID, order, status); err != nil {
		return dto.HackathonResponse{}, err
	}

	// Entering a closing status freezes the round's submissions so no late
	// write can sneak past the transition.
	if _, locking := lockingStatuses[status]; locking {
		locked, err := s.submissions.LockAllForRound(ctx, hackathonID, order, s.now())
		if err != nil {
			return dto.HackathonResponse{}, err
		}
		span.SetAttributes(attribute.Int64("round.locked_submissions", locked))
		s.logger.Info().
			Uint("hackathon_id", hackathonID).
			Int("round_order", order).
			Str("status", status).
			Int64("locked_submissions", locked).
			Msg("auto-locked submissions for round")
	}

	updated, err := s.hackathons.GetByID(ctx, hackathonID)
	if err != nil {
		return dto.HackathonResponse{}, err
	}

	return dto.NewHackathonResponse(updated, s.effectiveStatuses(updated)), nil
}

func (s *hackathonService) PublishRound(ctx context.Context, hackathonID uint, order int, actorID uint) (dto.HackathonResponse, error) {
	return s.UpdateRoundStatus(ctx, hackathonID, order, models.RoundStatusPublished, actorID)
}

func (s *hackathonService) effectiveStatuses(hackathon models.Hackathon) map[int]string {
	now := s.now()
	statuses := make(map[int]string, len(hackathon.Rounds))
	for _, round := range hackathon.Rounds {
		statuses[round.Order] = scoring.EffectiveStatus(round, now)
	}
	return statuses
}
