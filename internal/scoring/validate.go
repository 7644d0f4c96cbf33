package scoring

import (
	"errors"
	"fmt"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// ErrMissingCriterionScore indicates a round criterion received no mark.
var ErrMissingCriterionScore = errors.New("missing criterion score")

// ErrScoreOutOfBounds indicates a mark outside [0, maxMarks] for its criterion.
var ErrScoreOutOfBounds = errors.New("score out of bounds")

// MarkInput is one judge-submitted mark keyed by criterion id.
type MarkInput struct {
	CriterionID string
	GivenMarks  float64
	Comment     string
}

// ValidateScores checks judge marks against the round's criteria bounds and
// returns the sanitized score list plus the judge total. Every criterion of
// the round must be covered; extra marks for unknown criteria are ignored.
func ValidateScores(criteria []models.Criterion, marks []MarkInput) ([]models.CriterionScore, float64, error) {
	byID := make(map[string]MarkInput, len(marks))
	for _, mark := range marks {
		byID[mark.CriterionID] = mark
	}

	sanitized := make([]models.CriterionScore, 0, len(criteria))
	var judgeTotal float64

	for _, criterion := range criteria {
		mark, ok := byID[criterion.ID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrMissingCriterionScore, criterion.Title)
		}
		if mark.GivenMarks < 0 || mark.GivenMarks > criterion.MaxMarks {
			return nil, 0, fmt.Errorf("%w: %s must be within [0, %g]", ErrScoreOutOfBounds, criterion.Title, criterion.MaxMarks)
		}

		sanitized = append(sanitized, models.CriterionScore{
			CriterionID:    criterion.ID,
			CriterionTitle: criterion.Title,
			MaxMarks:       criterion.MaxMarks,
			GivenMarks:     mark.GivenMarks,
			Comment:        mark.Comment,
		})
		judgeTotal += mark.GivenMarks
	}

	return sanitized, judgeTotal, nil
}
