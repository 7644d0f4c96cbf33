package models

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

// Role names carried in JWT claims.
const (
	RoleOrganizer   = "organizer"
	RoleJudge       = "judge"
	RoleParticipant = "participant"
	RoleScorer      = "scorer"
)

// Hackathon is the top-level competition aggregate. Its rounds are owned
// exclusively by the creating organizer.
type Hackathon struct {
	ID          uint                                     `gorm:"primaryKey" json:"id"`
	Title       string                                   `gorm:"size:255;not null" json:"title"`
	Description string                                   `gorm:"type:text" json:"description"`
	Theme       string                                   `gorm:"size:255" json:"theme"`
	StartDate   time.Time                                `json:"start_date"`
	EndDate     time.Time                                `json:"end_date"`
	CreatedBy   uint                                     `gorm:"not null;index" json:"created_by"`
	Status      string                                   `gorm:"size:32;default:upcoming" json:"status"`
	JudgeIDs    datatypes.JSONSlice[uint]                `json:"judge_ids"`
	RoundJudges datatypes.JSONType[map[string][]uint]    `json:"round_judges"`
	Rounds      []Round                                  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rounds"`
	CreatedAt   time.Time                                `json:"created_at"`
	UpdatedAt   time.Time                                `json:"updated_at"`
}

// IsOwnedBy reports whether the given user created this hackathon.
func (h Hackathon) IsOwnedBy(userID uint) bool {
	return h.CreatedBy == userID
}

// HasJudge reports whether the user is on the hackathon judge roster.
func (h Hackathon) HasJudge(userID uint) bool {
	for _, id := range h.JudgeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// JudgesForRound returns the judge subset assigned to a round order, if any.
// An empty result means every roster judge may score the round.
func (h Hackathon) JudgesForRound(order int) []uint {
	assignments := h.RoundJudges.Data()
	if len(assignments) == 0 {
		return nil
	}
	return assignments[strconv.Itoa(order)]
}

// RoundByOrder looks up a round config by its order value.
func (h Hackathon) RoundByOrder(order int) (Round, bool) {
	for _, round := range h.Rounds {
		if round.Order == order {
			return round, true
		}
	}
	return Round{}, false
}
