package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// SnapshotRepository persists leaderboard snapshots as an append-only log.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.LeaderboardSnapshot) error
	GetLatest(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository instantiates the repository.
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Create(ctx context.Context, snapshot *models.LeaderboardSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *snapshotRepository) GetLatest(ctx context.Context, hackathonID uint) (models.LeaderboardSnapshot, error) {
	var snapshot models.LeaderboardSnapshot
	if err := r.db.WithContext(ctx).
		Where("hackathon_id = ?", hackathonID).
		Order("generated_at DESC, id DESC").
		First(&snapshot).Error; err != nil {
		return models.LeaderboardSnapshot{}, err
	}

	return snapshot, nil
}
