package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/models"
)

// ForViewer transforms a snapshot into the view the given viewer is allowed to
// see. Redaction keys off each round's configured (stored) status, not the
// time-derived effective one.
func (s *leaderboardService) ForViewer(ctx context.Context, snapshot models.LeaderboardSnapshot, role string, viewerID uint) (dto.LeaderboardResponse, error) {
	if role == models.RoleOrganizer || role == models.RoleJudge {
		return dto.NewLeaderboardResponse(snapshot), nil
	}

	hackathon, err := s.hackathons.GetByID(ctx, snapshot.HackathonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaderboardResponse{}, ErrHackathonNotFound
		}
		return dto.LeaderboardResponse{}, err
	}

	published := make(map[int]bool, len(hackathon.Rounds))
	for _, round := range hackathon.Rounds {
		if round.Status == models.RoundStatusPublished {
			published[round.Order] = true
		}
	}

	return RedactSnapshot(snapshot, viewerID, published), nil
}

// RedactSnapshot builds the participant view of a snapshot: per round,
// finalRoundScore is shown only once the round is published, and the
// breakdown only for the viewer's own team. TotalScore and Rank always pass
// through unmodified, so an unpublished round's contribution is visible in
// the aggregate before it is visible in detail ("live ranking, hidden
// rationale").
func RedactSnapshot(snapshot models.LeaderboardSnapshot, viewerID uint, publishedOrders map[int]bool) dto.LeaderboardResponse {
	rows := make([]dto.LeaderboardRow, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		isOwnTeam := snapshotTeamHasMember(row.Team, viewerID)

		roundScores := make([]dto.LeaderboardRoundScore, 0, len(row.RoundScores))
		for _, rs := range row.RoundScores {
			view := dto.LeaderboardRoundScore{
				RoundOrder: rs.RoundOrder,
				RoundName:  rs.RoundName,
			}
			if publishedOrders[rs.RoundOrder] {
				final := rs.FinalRoundScore
				view.FinalRoundScore = &final
				if isOwnTeam {
					breakdown := rs.Breakdown
					view.Breakdown = &breakdown
				}
			}
			roundScores = append(roundScores, view)
		}

		rows = append(rows, dto.LeaderboardRow{
			Team: dto.LeaderboardTeam{
				ID:       row.Team.ID,
				Name:     row.Team.Name,
				TeamCode: row.Team.TeamCode,
			},
			RoundScores: roundScores,
			TotalScore:  row.TotalScore,
			Rank:        row.Rank,
		})
	}

	return dto.LeaderboardResponse{
		SnapshotID:  snapshot.ID,
		HackathonID: snapshot.HackathonID,
		GeneratedAt: snapshot.GeneratedAt,
		Rows:        rows,
	}
}

func snapshotTeamHasMember(team models.SnapshotTeam, userID uint) bool {
	if team.LeaderID == userID {
		return true
	}
	for _, id := range team.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
