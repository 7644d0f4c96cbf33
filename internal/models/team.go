package models

import (
	"time"

	"gorm.io/datatypes"
)

// Team belongs to exactly one hackathon. Membership uniqueness per hackathon
// is enforced by the team management workflow, not here.
type Team struct {
	ID          uint                      `gorm:"primaryKey" json:"id"`
	Name        string                    `gorm:"size:255;not null" json:"name"`
	TeamCode    string                    `gorm:"size:6;uniqueIndex;not null" json:"team_code"`
	HackathonID uint                      `gorm:"not null;index" json:"hackathon_id"`
	LeaderID    uint                      `gorm:"not null" json:"leader_id"`
	MemberIDs   datatypes.JSONSlice[uint] `json:"member_ids"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// HasMember reports whether the user belongs to this team.
func (t Team) HasMember(userID uint) bool {
	if t.LeaderID == userID {
		return true
	}
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
