package models

import (
	"time"

	"gorm.io/datatypes"
)

// CriterionScore is one judge mark against a single round criterion.
type CriterionScore struct {
	CriterionID    string  `json:"criterion_id"`
	CriterionTitle string  `json:"criterion_title"`
	MaxMarks       float64 `json:"max_marks"`
	GivenMarks     float64 `json:"given_marks"`
	Comment        string  `json:"comment,omitempty"`
}

// Evaluation is one judge's complete scoring of one submission. The composite
// unique index on (submission_id, judge_id) is what serializes concurrent
// writes by the same judge into last-write-wins.
type Evaluation struct {
	ID            uint                                `gorm:"primaryKey" json:"id"`
	SubmissionID  uint                                `gorm:"not null;uniqueIndex:idx_evaluation_submission_judge" json:"submission_id"`
	JudgeID       uint                                `gorm:"not null;uniqueIndex:idx_evaluation_submission_judge" json:"judge_id"`
	HackathonID   uint                                `gorm:"not null;index" json:"hackathon_id"`
	RoundOrder    int                                 `gorm:"not null" json:"round_order"`
	Scores        datatypes.JSONSlice[CriterionScore] `json:"scores"`
	JudgeTotal    float64                             `gorm:"not null;default:0" json:"judge_total"`
	AITotal       float64                             `gorm:"default:0" json:"ai_total"`
	FinalTotal    float64                             `gorm:"not null;default:0" json:"final_total"`
	WeightedScore float64                             `gorm:"not null;default:0" json:"weighted_score"`
	Comments      string                              `gorm:"type:text" json:"comments"`
	CreatedAt     time.Time                           `json:"created_at"`
	UpdatedAt     time.Time                           `json:"updated_at"`
}
