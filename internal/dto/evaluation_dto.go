package dto

import (
	"time"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// CriterionMarkRequest is one judge mark keyed by criterion id.
type CriterionMarkRequest struct {
	CriterionID string  `json:"criterion_id" validate:"required"`
	GivenMarks  float64 `json:"given_marks" validate:"gte=0"`
	Comment     string  `json:"comment"`
}

// EvaluationSubmitRequest is a judge's complete scoring of one submission.
type EvaluationSubmitRequest struct {
	SubmissionID uint                   `json:"submission_id" validate:"required"`
	Scores       []CriterionMarkRequest `json:"scores" validate:"required,min=1,dive"`
	Comments     string                 `json:"comments"`
}

// EvaluationResponse is the API view of an evaluation.
type EvaluationResponse struct {
	ID            uint                    `json:"id"`
	SubmissionID  uint                    `json:"submission_id"`
	JudgeID       uint                    `json:"judge_id"`
	RoundOrder    int                     `json:"round_order"`
	Scores        []models.CriterionScore `json:"scores"`
	JudgeTotal    float64                 `json:"judge_total"`
	AITotal       float64                 `json:"ai_total"`
	FinalTotal    float64                 `json:"final_total"`
	WeightedScore float64                 `json:"weighted_score"`
	Comments      string                  `json:"comments"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// NewEvaluationResponse maps an evaluation model into its API view.
func NewEvaluationResponse(evaluation models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:            evaluation.ID,
		SubmissionID:  evaluation.SubmissionID,
		JudgeID:       evaluation.JudgeID,
		RoundOrder:    evaluation.RoundOrder,
		Scores:        evaluation.Scores,
		JudgeTotal:    evaluation.JudgeTotal,
		AITotal:       evaluation.AITotal,
		FinalTotal:    evaluation.FinalTotal,
		WeightedScore: evaluation.WeightedScore,
		Comments:      evaluation.Comments,
		UpdatedAt:     evaluation.UpdatedAt,
	}
}
