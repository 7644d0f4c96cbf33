package models

import (
	"time"

	"gorm.io/datatypes"
)

// SnapshotTeam is the denormalized team identity captured inside a snapshot row.
type SnapshotTeam struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	TeamCode  string `json:"team_code"`
	MemberIDs []uint `json:"member_ids"`
	LeaderID  uint   `json:"leader_id"`
}

// RoundBreakdown holds the per-round calculation components recorded for audit.
type RoundBreakdown struct {
	TotalJudgeScore    float64 `json:"total_judge_score"`
	AverageJudgeScore  float64 `json:"average_judge_score"`
	AIScore            float64 `json:"ai_score"`
	JudgeContribution  float64 `json:"judge_contribution"`
	AIContribution     float64 `json:"ai_contribution"`
	WeightedRoundScore float64 `json:"weighted_round_score"`
}

// SnapshotRoundScore is one round's scoring record within a snapshot row.
type SnapshotRoundScore struct {
	RoundOrder       int             `json:"round_order"`
	RoundName        string          `json:"round_name"`
	MaxRoundScore    float64         `json:"max_round_score"`
	WeightagePercent float64         `json:"weightage_percent"`
	FinalRoundScore  float64         `json:"final_round_score"`
	Breakdown        RoundBreakdown  `json:"breakdown"`
}

// SnapshotRow is one ranked team entry inside a leaderboard snapshot.
type SnapshotRow struct {
	Team        SnapshotTeam         `json:"team"`
	RoundScores []SnapshotRoundScore `json:"round_scores"`
	TotalScore  float64              `json:"total_score"`
	Rank        int                  `json:"rank"`
}

// LeaderboardSnapshot is one immutable, timestamped ranking computation.
// Snapshots form an append-only log per hackathon; the current leaderboard is
// simply the row with the greatest GeneratedAt.
type LeaderboardSnapshot struct {
	ID          uint                             `gorm:"primaryKey" json:"id"`
	HackathonID uint                             `gorm:"not null;index:idx_snapshot_hackathon_generated" json:"hackathon_id"`
	GeneratedAt time.Time                        `gorm:"not null;index:idx_snapshot_hackathon_generated" json:"generated_at"`
	Rows        datatypes.JSONSlice[SnapshotRow] `json:"rows"`
}
