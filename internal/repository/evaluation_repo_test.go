package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

func TestEvaluationRepositoryUpsertKeepsSingleRowPerJudge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	first := models.Evaluation{
		SubmissionID: 7,
		JudgeID:      3,
		HackathonID:  1,
		RoundOrder:   1,
		Scores: datatypes.NewJSONSlice([]models.CriterionScore{
			{CriterionID: "c1", CriterionTitle: "Innovation", MaxMarks: 10, GivenMarks: 6},
		}),
		JudgeTotal: 6,
		FinalTotal: 6,
	}
	require.NoError(t, repo.Upsert(ctx, &first))

	second := models.Evaluation{
		SubmissionID: 7,
		JudgeID:      3,
		HackathonID:  1,
		RoundOrder:   1,
		Scores: datatypes.NewJSONSlice([]models.CriterionScore{
			{CriterionID: "c1", CriterionTitle: "Innovation", MaxMarks: 10, GivenMarks: 9},
		}),
		JudgeTotal: 9,
		FinalTotal: 9,
	}
	require.NoError(t, repo.Upsert(ctx, &second))

	var count int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "resubmission must update in place, not duplicate")

	stored, err := repo.GetBySubmissionAndJudge(ctx, 7, 3)
	require.NoError(t, err)
	require.Equal(t, 9.0, stored.JudgeTotal)
	require.Equal(t, 9.0, stored.Scores[0].GivenMarks)
}

func TestEvaluationRepositoryListBySubmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	for _, judgeID := range []uint{5, 2} {
		eval := models.Evaluation{SubmissionID: 11, JudgeID: judgeID, HackathonID: 1, RoundOrder: 2, FinalTotal: float64(judgeID)}
		require.NoError(t, repo.Upsert(ctx, &eval))
	}
	other := models.Evaluation{SubmissionID: 12, JudgeID: 5, HackathonID: 1, RoundOrder: 2}
	require.NoError(t, repo.Upsert(ctx, &other))

	evaluations, err := repo.ListBySubmission(ctx, 11)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
	require.Equal(t, uint(2), evaluations[0].JudgeID)
}
