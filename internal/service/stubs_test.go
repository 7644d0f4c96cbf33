package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type hackathonRepoStub struct {
	hackathon     models.Hackathon
	getErr        error
	statusUpdates []string
}

func (s *hackathonRepoStub) Create(ctx context.Context, hackathon *models.Hackathon) error {
	hackathon.ID = 1
	for i := range hackathon.Rounds {
		hackathon.Rounds[i].ID = uint(i + 1)
	}
	s.hackathon = *hackathon
	return nil
}

func (s *hackathonRepoStub) GetByID(ctx context.Context, id uint) (models.Hackathon, error) {
	if s.getErr != nil {
		return models.Hackathon{}, s.getErr
	}
	return s.hackathon, nil
}

func (s *hackathonRepoStub) UpdateRoundStatus(ctx context.Context, hackathonID uint, order int, status string) error {
	s.statusUpdates = append(s.statusUpdates, fmt.Sprintf("%d:%d:%s", hackathonID, order, status))
	for i := range s.hackathon.Rounds {
		if s.hackathon.Rounds[i].Order == order {
			s.hackathon.Rounds[i].Status = status
		}
	}
	return nil
}

type submissionRepoStub struct {
	byID        map[uint]models.Submission
	byTeamRound map[string]uint
	nextID      uint
	lockCalls   int
	lockedCount int64
	updateErr   error
}

func newSubmissionRepoStub() *submissionRepoStub {
	return &submissionRepoStub{
		byID:        map[uint]models.Submission{},
		byTeamRound: map[string]uint{},
		nextID:      1,
	}
}

func teamRoundKey(teamID uint, roundOrder int) string {
	return fmt.Sprintf("%d:%d", teamID, roundOrder)
}

func (s *submissionRepoStub) add(submission models.Submission) models.Submission {
	if submission.ID == 0 {
		submission.ID = s.nextID
		s.nextID++
	} else if submission.ID >= s.nextID {
		s.nextID = submission.ID + 1
	}
	s.byID[submission.ID] = submission
	s.byTeamRound[teamRoundKey(submission.TeamID, submission.RoundOrder)] = submission.ID
	return submission
}

func (s *submissionRepoStub) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := s.byID[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (s *submissionRepoStub) GetByTeamAndRound(ctx context.Context, hackathonID, teamID uint, roundOrder int) (models.Submission, error) {
	id, ok := s.byTeamRound[teamRoundKey(teamID, roundOrder)]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return s.byID[id], nil
}

func (s *submissionRepoStub) Create(ctx context.Context, submission *models.Submission) error {
	*submission = s.add(*submission)
	return nil
}

func (s *submissionRepoStub) Update(ctx context.Context, submission *models.Submission) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.byID[submission.ID] = *submission
	return nil
}

func (s *submissionRepoStub) LockAllForRound(ctx context.Context, hackathonID uint, roundOrder int, lockedAt time.Time) (int64, error) {
	s.lockCalls++
	var locked int64
	for id, submission := range s.byID {
		if submission.HackathonID == hackathonID && submission.RoundOrder == roundOrder && !submission.IsLocked {
			submission.IsLocked = true
			submission.LockedAt = &lockedAt
			submission.Status = models.SubmissionStatusLocked
			s.byID[id] = submission
			locked++
		}
	}
	s.lockedCount = locked
	return locked, nil
}

type evaluationRepoStub struct {
	evaluations []models.Evaluation
	nextID      uint
	upsertErr   error
}

func newEvaluationRepoStub() *evaluationRepoStub {
	return &evaluationRepoStub{nextID: 1}
}

func (s *evaluationRepoStub) Upsert(ctx context.Context, evaluation *models.Evaluation) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	for i, existing := range s.evaluations {
		if existing.SubmissionID == evaluation.SubmissionID && existing.JudgeID == evaluation.JudgeID {
			evaluation.ID = existing.ID
			s.evaluations[i] = *evaluation
			return nil
		}
	}
	evaluation.ID = s.nextID
	s.nextID++
	s.evaluations = append(s.evaluations, *evaluation)
	return nil
}

func (s *evaluationRepoStub) GetBySubmissionAndJudge(ctx context.Context, submissionID, judgeID uint) (models.Evaluation, error) {
	for _, evaluation := range s.evaluations {
		if evaluation.SubmissionID == submissionID && evaluation.JudgeID == judgeID {
			return evaluation, nil
		}
	}
	return models.Evaluation{}, gorm.ErrRecordNotFound
}

func (s *evaluationRepoStub) ListBySubmission(ctx context.Context, submissionID uint) ([]models.Evaluation, error) {
	var matched []models.Evaluation
	for _, evaluation := range s.evaluations {
		if evaluation.SubmissionID == submissionID {
			matched = append(matched, evaluation)
		}
	}
	return matched, nil
}

type teamRepoStub struct {
	teams []models.Team
}

func (s *teamRepoStub) ListByHackathon(ctx context.Context, hackathonID uint) ([]models.Team, error) {
	var matched []models.Team
	for _, team := range s.teams {
		if team.HackathonID == hackathonID {
			matched = append(matched, team)
		}
	}
	return matched, nil
}

func (s *teamRepoStub) GetByID(ctx context.Context, id uint) (models.Team, error) {
	for _, team := range s.teams {
		if team.ID == id {
			return team, nil
		}
	}
	return models.Team{}, gorm.ErrRecordNotFound
}

func (s *teamRepoStub) FindForMember(ctx context.Context, hackathonID, userID uint) (models.Team, error) {
	for _, team := range s.teams {
		if team.HackathonID == hackathonID && team.HasMember(userID) {
			return team, nil
		}
	}
	return models.Team{}, gorm.ErrRecordNotFound
}

type snapshotRepoStub struct {
	snapshots      []models.LeaderboardSnapshot
	getLatestCalls int
}

func (s *snapshotRepoStub) Create(ctx context.Context, snapshot *models.LeaderboardSnapshot) error {
	snapshot.ID = uint(len(s.snapshots) + 1)
	s.snapshots = append(s.snapshots, *snapshot)
	return nil
}

func (s *snapshotRepoStub) GetLatest(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, error) {
	s.getLatestCalls++
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].HackathonID == hackathonID {
			return s.snapshots[i], nil
		}
	}
	return models.LeaderboardSnapshot{}, gorm.ErrRecordNotFound
}
