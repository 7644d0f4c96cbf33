package dto

import (
	"time"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// LeaderboardTeam identifies one ranked team.
type LeaderboardTeam struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	TeamCode string `json:"team_code"`
}

// LeaderboardRoundScore is one round's entry in a leaderboard row. Pointer
// fields are nil when the visibility filter withholds them from the viewer.
type LeaderboardRoundScore struct {
	RoundOrder      int                    `json:"round_order"`
	RoundName       string                 `json:"round_name"`
	FinalRoundScore *float64               `json:"final_round_score"`
	Breakdown       *models.RoundBreakdown `json:"breakdown"`
}

// LeaderboardRow is one ranked team entry. TotalScore and Rank are always
// populated regardless of viewer.
type LeaderboardRow struct {
	Team        LeaderboardTeam         `json:"team"`
	RoundScores []LeaderboardRoundScore `json:"round_scores"`
	TotalScore  float64                 `json:"total_score"`
	Rank        int                     `json:"rank"`
}

// LeaderboardResponse is the API view of one snapshot.
type LeaderboardResponse struct {
	SnapshotID  uint             `json:"snapshot_id"`
	HackathonID uint             `json:"hackathon_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Rows        []LeaderboardRow `json:"rows"`
}

// NewLeaderboardResponse maps a snapshot into the unredacted API view.
func NewLeaderboardResponse(snapshot models.LeaderboardSnapshot) LeaderboardResponse {
	rows := make([]LeaderboardRow, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		roundScores := make([]LeaderboardRoundScore, 0, len(row.RoundScores))
		for _, rs := range row.RoundScores {
			final := rs.FinalRoundScore
			breakdown := rs.Breakdown
			roundScores = append(roundScores, LeaderboardRoundScore{
				RoundOrder:      rs.RoundOrder,
				RoundName:       rs.RoundName,
				FinalRoundScore: &final,
				Breakdown:       &breakdown,
			})
		}
		rows = append(rows, LeaderboardRow{
			Team: LeaderboardTeam{
				ID:       row.Team.ID,
				Name:     row.Team.Name,
				TeamCode: row.Team.TeamCode,
			},
			RoundScores: roundScores,
			TotalScore:  row.TotalScore,
			Rank:        row.Rank,
		})
	}

	return LeaderboardResponse{
		SnapshotID:  snapshot.ID,
		HackathonID: snapshot.HackathonID,
		GeneratedAt: snapshot.GeneratedAt,
		Rows:        rows,
	}
}
