package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hackcentral/hackcentral-api/internal/dto"
	"github.com/hackcentral/hackcentral-api/internal/models"
	"github.com/hackcentral/hackcentral-api/pkg/ai"
)

func openRoundFixture() (*hackathonRepoStub, *teamRepoStub) {
	hackathons := &hackathonRepoStub{hackathon: models.Hackathon{
		ID:        1,
		CreatedBy: 42,
		Rounds: []models.Round{{
			Order:            1,
			Name:             "Ideation",
			MaxScore:         20,
			WeightagePercent: 30,
			Status:           models.RoundStatusOpen,
			SubmissionFields: datatypes.NewJSONSlice([]models.SubmissionField{
				{FieldKey: "repo_url", Label: "Repository", Type: "github", Required: true},
				{FieldKey: "demo_url", Label: "Demo", Type: "url"},
			}),
		}},
	}}

	teams := &teamRepoStub{teams: []models.Team{{
		ID:          3,
		Name:        "Night Owls",
		TeamCode:    "NOWLS1",
		HackathonID: 1,
		LeaderID:    10,
		MemberIDs:   datatypes.NewJSONSlice([]uint{10, 11}),
	}}}

	return hackathons, teams
}

func submissionRequest() dto.SubmissionCreateRequest {
	return dto.SubmissionCreateRequest{
		HackathonID: 1,
		RoundOrder:  1,
		NotesText:   "We built a transit planner.",
		Data:        map[string]interface{}{"repo_url": "https://github.com/nightowls/transit"},
	}
}

func TestSubmissionServiceRejectsWhenRoundNotOpen(t *testing.T) {
	hackathons, teams := openRoundFixture()
	hackathons.hackathon.Rounds[0].Status = models.RoundStatusDraft
	svc := NewSubmissionService(newSubmissionRepoStub(), teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	_, err := svc.Submit(context.Background(), 10, submissionRequest())
	require.ErrorIs(t, err, ErrSubmissionsClosed)
}

func TestSubmissionServiceRequiresTeamMembership(t *testing.T) {
	hackathons, teams := openRoundFixture()
	svc := NewSubmissionService(newSubmissionRepoStub(), teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	_, err := svc.Submit(context.Background(), 99, submissionRequest())
	require.ErrorIs(t, err, ErrNoTeam)
}

func TestSubmissionServiceRejectsMissingRequiredField(t *testing.T) {
	hackathons, teams := openRoundFixture()
	svc := NewSubmissionService(newSubmissionRepoStub(), teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	payload := submissionRequest()
	payload.Data = map[string]interface{}{"demo_url": "https://demo.example.com"}

	_, err := svc.Submit(context.Background(), 10, payload)
	require.ErrorIs(t, err, ErrSubmissionDataInvalid)
}

func TestSubmissionServiceRejectsUndeclaredField(t *testing.T) {
	hackathons, teams := openRoundFixture()
	svc := NewSubmissionService(newSubmissionRepoStub(), teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	payload := submissionRequest()
	payload.Data["video_url"] = "https://example.com/video"

	_, err := svc.Submit(context.Background(), 10, payload)
	require.ErrorIs(t, err, ErrSubmissionDataInvalid)
}

func TestSubmissionServiceCreatesFirstVersion(t *testing.T) {
	hackathons, teams := openRoundFixture()
	submissions := newSubmissionRepoStub()
	svc := NewSubmissionService(submissions, teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	result, err := svc.Submit(context.Background(), 10, submissionRequest())
	require.NoError(t, err)
	require.Equal(t, 1, result.Version)
	require.Equal(t, models.SubmissionStatusSubmitted, result.Status)
	require.Equal(t, uint(3), result.TeamID)
	require.False(t, result.IsLate)
	require.Nil(t, result.AITotal)
}

func TestSubmissionServiceResubmitBumpsVersion(t *testing.T) {
	hackathons, teams := openRoundFixture()
	submissions := newSubmissionRepoStub()
	svc := NewSubmissionService(submissions, teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	_, err := svc.Submit(context.Background(), 10, submissionRequest())
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), 11, submissionRequest())
	require.NoError(t, err)
	require.Equal(t, 2, result.Version)
	require.Equal(t, models.SubmissionStatusResubmitted, result.Status)
	require.Equal(t, uint(11), result.SubmittedBy)
}

func TestSubmissionServiceRejectsLockedSubmission(t *testing.T) {
	hackathons, teams := openRoundFixture()
	submissions := newSubmissionRepoStub()
	submissions.add(models.Submission{
		HackathonID: 1,
		RoundOrder:  1,
		TeamID:      3,
		Version:     1,
		IsLocked:    true,
		Status:      models.SubmissionStatusLocked,
	})
	svc := NewSubmissionService(submissions, teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	_, err := svc.Submit(context.Background(), 10, submissionRequest())
	require.ErrorIs(t, err, ErrSubmissionLocked)
}

func TestSubmissionServiceSanitizesNotes(t *testing.T) {
	hackathons, teams := openRoundFixture()
	svc := NewSubmissionService(newSubmissionRepoStub(), teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	payload := submissionRequest()
	payload.NotesText = `<img src=x onerror=alert(1)>transit planner`

	result, err := svc.Submit(context.Background(), 10, payload)
	require.NoError(t, err)
	require.Equal(t, "transit planner", result.NotesText)
}

func TestSubmissionServiceSetAIScore(t *testing.T) {
	hackathons, teams := openRoundFixture()
	submissions := newSubmissionRepoStub()
	stored := submissions.add(models.Submission{HackathonID: 1, RoundOrder: 1, TeamID: 3, Version: 1})
	svc := NewSubmissionService(submissions, teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), nil, 0, testLogger())

	result, err := svc.SetAIScore(context.Background(), stored.ID, 17.5)
	require.NoError(t, err)
	require.NotNil(t, result.AITotal)
	require.InDelta(t, 17.5, *result.AITotal, 1e-9)

	_, err = svc.SetAIScore(context.Background(), 999, 10)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

type deadlineScorerStub struct {
	deadlines chan time.Time
}

func (s *deadlineScorerStub) Score(ctx context.Context, input ai.ScoreInput) (ai.ScoreResult, error) {
	deadline, _ := ctx.Deadline()
	s.deadlines <- deadline
	return ai.ScoreResult{Total: 17}, nil
}

func TestSubmissionServiceAIScoringUsesConfiguredTimeout(t *testing.T) {
	hackathons, teams := openRoundFixture()
	scorer := &deadlineScorerStub{deadlines: make(chan time.Time, 1)}
	svc := NewSubmissionService(newSubmissionRepoStub(), teams, hackathons, validator.New(validator.WithRequiredStructEnabled()), scorer, 45*time.Second, testLogger())

	_, err := svc.Submit(context.Background(), 10, submissionRequest())
	require.NoError(t, err)

	select {
	case deadline := <-scorer.deadlines:
		require.WithinDuration(t, time.Now().Add(45*time.Second), deadline, 5*time.Second)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the scorer to be invoked")
	}
}
