package dto

import (
	"time"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// SubmissionCreateRequest creates or resubmits a team's entry for a round.
type SubmissionCreateRequest struct {
	HackathonID uint                   `json:"hackathon_id" validate:"required"`
	RoundOrder  int                    `json:"round_order" validate:"gte=1"`
	NotesText   string                 `json:"notes_text"`
	Data        map[string]interface{} `json:"data"`
}

// AIScoreRequest reports the external scorer's total for a submission.
type AIScoreRequest struct {
	TotalAIScore float64 `json:"total_ai_score" validate:"gte=0"`
}

// SubmissionResponse is the API view of a submission.
type SubmissionResponse struct {
	ID           uint                   `json:"id"`
	HackathonID  uint                   `json:"hackathon_id"`
	RoundOrder   int                    `json:"round_order"`
	TeamID       uint                   `json:"team_id"`
	SubmittedBy  uint                   `json:"submitted_by"`
	NotesText    string                 `json:"notes_text"`
	Data         map[string]interface{} `json:"data"`
	Version      int                    `json:"version"`
	IsLocked     bool                   `json:"is_locked"`
	IsLate       bool                   `json:"is_late"`
	Status       string                 `json:"status"`
	AITotal      *float64               `json:"ai_total"`
	JudgeAverage float64                `json:"judge_average"`
	JudgeCount   int                    `json:"judge_count"`
	SubmittedAt  time.Time              `json:"submitted_at"`
}

// NewSubmissionResponse maps a submission model into its API view.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           submission.ID,
		HackathonID:  submission.HackathonID,
		RoundOrder:   submission.RoundOrder,
		TeamID:       submission.TeamID,
		SubmittedBy:  submission.SubmittedBy,
		NotesText:    submission.NotesText,
		Data:         submission.Data,
		Version:      submission.Version,
		IsLocked:     submission.IsLocked,
		IsLate:       submission.IsLate,
		Status:       submission.Status,
		AITotal:      submission.AITotal,
		JudgeAverage: submission.JudgeAverage,
		JudgeCount:   submission.JudgeCount,
		SubmittedAt:  submission.SubmittedAt,
	}
}
