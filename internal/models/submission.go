package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission statuses.
const (
	SubmissionStatusSubmitted   = "submitted"
	SubmissionStatusResubmitted = "resubmitted"
	SubmissionStatusLocked      = "locked"
)

// Submission is one team's entry for one round. AITotal is nil until the
// external scorer reports; absence is never treated as zero at this layer.
type Submission struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	HackathonID  uint               `gorm:"not null;index:idx_submission_round" json:"hackathon_id"`
	RoundOrder   int                `gorm:"not null;index:idx_submission_round" json:"round_order"`
	TeamID       uint               `gorm:"not null;index" json:"team_id"`
	SubmittedBy  uint               `gorm:"not null" json:"submitted_by"`
	NotesText    string             `gorm:"type:text" json:"notes_text"`
	Data         datatypes.JSONMap  `json:"data"`
	Version      int                `gorm:"default:1" json:"version"`
	IsLocked     bool               `gorm:"default:false" json:"is_locked"`
	LockedAt     *time.Time         `json:"locked_at"`
	SubmittedAt  time.Time          `json:"submitted_at"`
	IsLate       bool               `gorm:"default:false" json:"is_late"`
	Status       string             `gorm:"size:32;default:submitted" json:"status"`
	AITotal      *float64           `json:"ai_total"`
	JudgeAverage float64            `gorm:"default:0" json:"judge_average"`
	JudgeCount   int                `gorm:"default:0" json:"judge_count"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
