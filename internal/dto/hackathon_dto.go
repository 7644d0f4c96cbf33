package dto

import (
	"time"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// CriterionRequest is one scoring criterion inside a round definition.
type CriterionRequest struct {
	Title       string  `json:"title" validate:"required"`
	MaxMarks    float64 `json:"max_marks" validate:"gte=0"`
	Description string  `json:"description"`
}

// SubmissionFieldRequest defines one entry of a round's submission form.
type SubmissionFieldRequest struct {
	FieldKey string `json:"field_key" validate:"required"`
	Label    string `json:"label" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=text textarea url github ppt video file"`
	Required bool   `json:"required"`
}

// RoundCreateRequest configures one judged round at hackathon creation.
type RoundCreateRequest struct {
	Name                   string                   `json:"name" validate:"required"`
	Description            string                   `json:"description"`
	Order                  int                      `json:"order" validate:"gte=1"`
	MaxScore               float64                  `json:"max_score" validate:"gte=0"`
	WeightagePercent       float64                  `json:"weightage_percent" validate:"gte=0,lte=100"`
	ScoringMode            string                   `json:"scoring_mode" validate:"omitempty,oneof=hybrid ai_only judge_only"`
	AIWeight               float64                  `json:"ai_weight" validate:"gte=0,lte=1"`
	JudgeWeight            float64                  `json:"judge_weight" validate:"gte=0,lte=1"`
	StartTime              *time.Time               `json:"start_time"`
	EndTime                *time.Time               `json:"end_time"`
	AutoTimeControlEnabled *bool                    `json:"auto_time_control_enabled"`
	Criteria               []CriterionRequest       `json:"criteria" validate:"required,min=1,dive"`
	SubmissionFields       []SubmissionFieldRequest `json:"submission_fields" validate:"dive"`
}

// HackathonCreateRequest creates a hackathon with its full round configuration.
type HackathonCreateRequest struct {
	Title       string               `json:"title" validate:"required"`
	Description string               `json:"description" validate:"required"`
	Theme       string               `json:"theme" validate:"required"`
	StartDate   time.Time            `json:"start_date" validate:"required"`
	EndDate     time.Time            `json:"end_date" validate:"required"`
	JudgeIDs    []uint               `json:"judge_ids"`
	RoundJudges map[string][]uint    `json:"round_judges"`
	Rounds      []RoundCreateRequest `json:"rounds" validate:"required,min=1,dive"`
}

// RoundStatusUpdateRequest transitions a round's stored status.
type RoundStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=draft open submission_closed judging published"`
}

// RoundResponse is the API view of a round config.
type RoundResponse struct {
	ID                     uint                     `json:"id"`
	Name                   string                   `json:"name"`
	Order                  int                      `json:"order"`
	MaxScore               float64                  `json:"max_score"`
	WeightagePercent       float64                  `json:"weightage_percent"`
	Status                 string                   `json:"status"`
	EffectiveStatus        string                   `json:"effective_status"`
	ScoringMode            string                   `json:"scoring_mode"`
	AIWeight               float64                  `json:"ai_weight"`
	JudgeWeight            float64                  `json:"judge_weight"`
	StartTime              *time.Time               `json:"start_time"`
	EndTime                *time.Time               `json:"end_time"`
	AutoTimeControlEnabled bool                     `json:"auto_time_control_enabled"`
	Criteria               []models.Criterion       `json:"criteria"`
	SubmissionFields       []models.SubmissionField `json:"submission_fields"`
}

// HackathonResponse is the API view of a hackathon.
type HackathonResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Theme       string          `json:"theme"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	CreatedBy   uint            `json:"created_by"`
	Status      string          `json:"status"`
	JudgeIDs    []uint          `json:"judge_ids"`
	Rounds      []RoundResponse `json:"rounds"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewHackathonResponse maps a hackathon model into its API view. Effective
// statuses are resolved by the caller, keyed by round order.
func NewHackathonResponse(hackathon models.Hackathon, effectiveStatuses map[int]string) HackathonResponse {
	rounds := make([]RoundResponse, 0, len(hackathon.Rounds))
	for _, round := range hackathon.Rounds {
		rounds = append(rounds, RoundResponse{
			ID:                     round.ID,
			Name:                   round.Name,
			Order:                  round.Order,
			MaxScore:               round.MaxScore,
			WeightagePercent:       round.WeightagePercent,
			Status:                 round.Status,
			EffectiveStatus:        effectiveStatuses[round.Order],
			ScoringMode:            round.ScoringMode,
			AIWeight:               round.AIWeight,
			JudgeWeight:            round.JudgeWeight,
			StartTime:              round.StartTime,
			EndTime:                round.EndTime,
			AutoTimeControlEnabled: round.AutoTimeControlEnabled,
			Criteria:               round.Criteria,
			SubmissionFields:       round.SubmissionFields,
		})
	}

	return HackathonResponse{
		ID:          hackathon.ID,
		Title:       hackathon.Title,
		Description: hackathon.Description,
		Theme:       hackathon.Theme,
		StartDate:   hackathon.StartDate,
		EndDate:     hackathon.EndDate,
		CreatedBy:   hackathon.CreatedBy,
		Status:      hackathon.Status,
		JudgeIDs:    hackathon.JudgeIDs,
		Rounds:      rounds,
		CreatedAt:   hackathon.CreatedAt,
	}
}
