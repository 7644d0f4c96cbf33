package service

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

func leaderboardFixture() (*hackathonRepoStub, *teamRepoStub, *submissionRepoStub, *evaluationRepoStub) {
	hackathons := &hackathonRepoStub{hackathon: models.Hackathon{
		ID:        1,
		CreatedBy: 42,
		Rounds: []models.Round{{
			Order:            1,
			Name:             "Final Demo",
			MaxScore:         50,
			WeightagePercent: 70,
			Status:           models.RoundStatusJudging,
		}},
	}}

	teams := &teamRepoStub{teams: []models.Team{
		{ID: 3, Name: "Night Owls", TeamCode: "NOWLS1", HackathonID: 1, LeaderID: 10, MemberIDs: datatypes.NewJSONSlice([]uint{10, 11})},
		{ID: 4, Name: "Daybreak", TeamCode: "DAYBR1", HackathonID: 1, LeaderID: 20, MemberIDs: datatypes.NewJSONSlice([]uint{20})},
	}}

	submissions := newSubmissionRepoStub()
	aiTotal := 18.0
	submission := submissions.add(models.Submission{
		HackathonID: 1,
		RoundOrder:  1,
		TeamID:      3,
		AITotal:     &aiTotal,
	})

	evaluations := newEvaluationRepoStub()
	evaluations.evaluations = []models.Evaluation{
		{ID: 1, SubmissionID: submission.ID, JudgeID: 5, FinalTotal: 15},
		{ID: 2, SubmissionID: submission.ID, JudgeID: 6, FinalTotal: 25},
	}
	evaluations.nextID = 3

	return hackathons, teams, submissions, evaluations
}

func newTestLeaderboardService(hackathons *hackathonRepoStub, teams *teamRepoStub, submissions *submissionRepoStub, evaluations *evaluationRepoStub, snapshots *snapshotRepoStub, cache *redis.Client) LeaderboardService {
	return NewLeaderboardService(LeaderboardDeps{
		Hackathons:  hackathons,
		Teams:       teams,
		Submissions: submissions,
		Evaluations: evaluations,
		Snapshots:   snapshots,
		Cache:       cache,
	}, testLogger())
}

func TestLeaderboardServiceGenerateComputesWeightedScores(t *testing.T) {
	hackathons, teams, submissions, evaluations := leaderboardFixture()
	snapshots := &snapshotRepoStub{}
	svc := newTestLeaderboardService(hackathons, teams, submissions, evaluations, snapshots, nil)

	snapshot, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, snapshots.snapshots, 1)
	require.Len(t, snapshot.Rows, 2)

	top := snapshot.Rows[0]
	require.Equal(t, uint(3), top.Team.ID)
	require.Equal(t, 1, top.Rank)

	// avg(15, 25) = 20 judge, 18 AI: 20*0.7 + 18*0.3 = 19.4, weighted by 70%.
	breakdown := top.RoundScores[0].Breakdown
	require.InDelta(t, 40.0, breakdown.TotalJudgeScore, 1e-9)
	require.InDelta(t, 20.0, breakdown.AverageJudgeScore, 1e-9)
	require.InDelta(t, 18.0, breakdown.AIScore, 1e-9)
	require.InDelta(t, 14.0, breakdown.JudgeContribution, 1e-9)
	require.InDelta(t, 5.4, breakdown.AIContribution, 1e-9)
	require.InDelta(t, 19.4, top.RoundScores[0].FinalRoundScore, 1e-9)
	require.InDelta(t, 13.58, breakdown.WeightedRoundScore, 1e-9)
	require.InDelta(t, 13.58, top.TotalScore, 1e-9)

	// A team with no submission still holds a ranked zero row.
	bottom := snapshot.Rows[1]
	require.Equal(t, uint(4), bottom.Team.ID)
	require.Equal(t, 2, bottom.Rank)
	require.Zero(t, bottom.TotalScore)
	require.Len(t, bottom.RoundScores, 1)
	require.Zero(t, bottom.RoundScores[0].FinalRoundScore)
}

func TestLeaderboardServiceGenerateIsIdempotent(t *testing.T) {
	hackathons, teams, submissions, evaluations := leaderboardFixture()
	snapshots := &snapshotRepoStub{}
	svc := newTestLeaderboardService(hackathons, teams, submissions, evaluations, snapshots, nil)

	first, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, snapshots.snapshots, 2)
	require.Equal(t, first.Rows, second.Rows)
}

func TestLeaderboardServiceTiebreakKeepsRegistrationOrder(t *testing.T) {
	hackathons, teams, submissions, evaluations := leaderboardFixture()
	// Drop the scored submission so both teams total zero.
	submissions = newSubmissionRepoStub()
	svc := newTestLeaderboardService(hackathons, teams, submissions, evaluations, &snapshotRepoStub{}, nil)

	snapshot, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, uint(3), snapshot.Rows[0].Team.ID)
	require.Equal(t, 1, snapshot.Rows[0].Rank)
	require.Equal(t, uint(4), snapshot.Rows[1].Team.ID)
	require.Equal(t, 2, snapshot.Rows[1].Rank)
}

func TestLeaderboardServiceGetCurrentServesCache(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	hackathons, teams, submissions, evaluations := leaderboardFixture()
	snapshots := &snapshotRepoStub{}
	svc := newTestLeaderboardService(hackathons, teams, submissions, evaluations, snapshots, redisClient)

	generated, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)

	current, err := svc.GetCurrent(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, generated.Rows, current.Rows)
	require.Zero(t, snapshots.getLatestCalls)
}

func TestLeaderboardServiceGetCurrentLazilyGenerates(t *testing.T) {
	hackathons, teams, submissions, evaluations := leaderboardFixture()
	snapshots := &snapshotRepoStub{}
	svc := newTestLeaderboardService(hackathons, teams, submissions, evaluations, snapshots, nil)

	snapshot, err := svc.GetCurrent(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, snapshots.getLatestCalls)
	require.Len(t, snapshots.snapshots, 1)
	require.Len(t, snapshot.Rows, 2)
}

func TestLeaderboardServiceGetCurrentUnknownHackathon(t *testing.T) {
	hackathons := &hackathonRepoStub{getErr: gorm.ErrRecordNotFound}
	svc := newTestLeaderboardService(hackathons, &teamRepoStub{}, newSubmissionRepoStub(), newEvaluationRepoStub(), &snapshotRepoStub{}, nil)

	_, err := svc.GetCurrent(context.Background(), 99)
	require.ErrorIs(t, err, ErrHackathonNotFound)
}

func TestLeaderboardServiceSubscribeReceivesRefresh(t *testing.T) {
	hackathons, teams, submissions, evaluations := leaderboardFixture()
	svc := newTestLeaderboardService(hackathons, teams, submissions, evaluations, &snapshotRepoStub{}, nil)

	updates, cancel := svc.Subscribe(1)
	defer cancel()

	_, err := svc.Generate(context.Background(), 1)
	require.NoError(t, err)

	select {
	case snapshot := <-updates:
		require.Equal(t, uint(1), snapshot.HackathonID)
		require.Len(t, snapshot.Rows, 2)
		require.InDelta(t, 19.4, snapshot.Rows[0].RoundScores[0].FinalRoundScore, 0.001)
	default:
		t.Fatal("expected a buffered leaderboard refresh")
	}
}
