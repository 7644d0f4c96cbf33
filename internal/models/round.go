package models

import (
	"time"

	"gorm.io/datatypes"
)

// Round statuses. These are the stored values; the effective status additionally
// resolves the time window when auto control is enabled.
const (
	RoundStatusDraft            = "draft"
	RoundStatusOpen             = "open"
	RoundStatusSubmissionClosed = "submission_closed"
	RoundStatusJudging          = "judging"
	RoundStatusPublished        = "published"
)

// Scoring modes.
const (
	ScoringModeHybrid    = "hybrid"
	ScoringModeAIOnly    = "ai_only"
	ScoringModeJudgeOnly = "judge_only"
)

// ValidRoundStatus reports whether the value is a known round status.
func ValidRoundStatus(status string) bool {
	switch status {
	case RoundStatusDraft, RoundStatusOpen, RoundStatusSubmissionClosed, RoundStatusJudging, RoundStatusPublished:
		return true
	}
	return false
}

// Criterion is one named sub-score with an upper bound, judged individually.
type Criterion struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	MaxMarks    float64 `json:"max_marks"`
	Description string  `json:"description,omitempty"`
}

// SubmissionField describes one entry of a round's dynamic submission form.
type SubmissionField struct {
	FieldKey string `json:"field_key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Round is one judged phase of a hackathon.
type Round struct {
	ID                     uint                                  `gorm:"primaryKey" json:"id"`
	HackathonID            uint                                  `gorm:"not null;uniqueIndex:idx_round_hackathon_order" json:"hackathon_id"`
	Name                   string                                `gorm:"size:255;not null" json:"name"`
	Description            string                                `gorm:"type:text" json:"description"`
	Order                  int                                   `gorm:"column:round_order;not null;uniqueIndex:idx_round_hackathon_order" json:"order"`
	MaxScore               float64                               `gorm:"not null" json:"max_score"`
	WeightagePercent       float64                               `gorm:"not null" json:"weightage_percent"`
	Status                 string                                `gorm:"size:32;default:draft" json:"status"`
	ScoringMode            string                                `gorm:"size:32;default:hybrid" json:"scoring_mode"`
	AIWeight               float64                               `gorm:"default:0.3" json:"ai_weight"`
	JudgeWeight            float64                               `gorm:"default:0.7" json:"judge_weight"`
	StartTime              *time.Time                            `json:"start_time"`
	EndTime                *time.Time                            `json:"end_time"`
	AutoTimeControlEnabled bool                                  `gorm:"default:true" json:"auto_time_control_enabled"`
	Criteria               datatypes.JSONSlice[Criterion]        `json:"criteria"`
	SubmissionFields       datatypes.JSONSlice[SubmissionField]  `json:"submission_fields"`
	CreatedAt              time.Time                             `json:"created_at"`
	UpdatedAt              time.Time                             `json:"updated_at"`
}

// CriteriaSum returns the total of the round's criterion maximums.
func (r Round) CriteriaSum() float64 {
	var sum float64
	for _, criterion := range r.Criteria {
		sum += criterion.MaxMarks
	}
	return sum
}
