package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

func sampleCriteria() []models.Criterion {
	return []models.Criterion{
		{ID: "c-innovation", Title: "Innovation", MaxMarks: 10},
		{ID: "c-impact", Title: "Impact", MaxMarks: 10},
	}
}

func TestValidateScoresHappyPath(t *testing.T) {
	scores, total, err := ValidateScores(sampleCriteria(), []MarkInput{
		{CriterionID: "c-innovation", GivenMarks: 8},
		{CriterionID: "c-impact", GivenMarks: 7, Comment: "solid"},
	})
	require.NoError(t, err)
	require.Equal(t, 15.0, total)
	require.Len(t, scores, 2)
	require.Equal(t, "Innovation", scores[0].CriterionTitle)
	require.Equal(t, 7.0, scores[1].GivenMarks)
	require.Equal(t, "solid", scores[1].Comment)
}

func TestValidateScoresMissingCriterion(t *testing.T) {
	_, _, err := ValidateScores(sampleCriteria(), []MarkInput{
		{CriterionID: "c-innovation", GivenMarks: 8},
	})
	require.ErrorIs(t, err, ErrMissingCriterionScore)
}

func TestValidateScoresOutOfBounds(t *testing.T) {
	_, _, err := ValidateScores(sampleCriteria(), []MarkInput{
		{CriterionID: "c-innovation", GivenMarks: 11},
		{CriterionID: "c-impact", GivenMarks: 7},
	})
	require.ErrorIs(t, err, ErrScoreOutOfBounds)

	_, _, err = ValidateScores(sampleCriteria(), []MarkInput{
		{CriterionID: "c-innovation", GivenMarks: -1},
		{CriterionID: "c-impact", GivenMarks: 7},
	})
	require.ErrorIs(t, err, ErrScoreOutOfBounds)
}

func TestValidateScoresIgnoresUnknownCriteria(t *testing.T) {
	scores, total, err := ValidateScores(sampleCriteria(), []MarkInput{
		{CriterionID: "c-innovation", GivenMarks: 8},
		{CriterionID: "c-impact", GivenMarks: 7},
		{CriterionID: "c-stale", GivenMarks: 100},
	})
	require.NoError(t, err)
	require.Equal(t, 15.0, total)
	require.Len(t, scores, 2)
}
