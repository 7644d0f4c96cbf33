package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// SubmissionRepository defines data operations for round submissions.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByTeamAndRound(ctx context.Context, hackathonID, teamID uint, roundOrder int) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	LockAllForRound(ctx context.Context, hackathonID uint, roundOrder int, lockedAt time.Time) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByTeamAndRound(ctx context.Context, hackathonID, teamID uint, roundOrder int) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("hackathon_id = ?", hackathonID).
		Where("team_id = ?", teamID).
		Where("round_order = ?", roundOrder).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

// LockAllForRound marks every still-unlocked submission of a round as locked
// in a single UPDATE, so a closing status transition and a late submission
// attempt cannot interleave per row.
func (r *submissionRepository) LockAllForRound(ctx context.Context, hackathonID uint, roundOrder int, lockedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("hackathon_id = ?", hackathonID).
		Where("round_order = ?", roundOrder).
		Where("is_locked = ?", false).
		Updates(map[string]interface{}{
			"is_locked": true,
			"locked_at": lockedAt,
			"status":    models.SubmissionStatusLocked,
		})

	return result.RowsAffected, result.Error
}
