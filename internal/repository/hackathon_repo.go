package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// HackathonRepository defines data operations for hackathons and their rounds.
type HackathonRepository interface {
	Create(ctx context.Context, hackathon *models.Hackathon) error
	GetByID(ctx context.Context, id uint) (models.Hackathon, error)
	UpdateRoundStatus(ctx context.Context, hackathonID uint, order int, status string) error
}

type hackathonRepository struct {
	db *gorm.DB
}

// NewHackathonRepository instantiates the repository.
func NewHackathonRepository(db *gorm.DB) HackathonRepository {
	return &hackathonRepository{db: db}
}

func (r *hackathonRepository) Create(ctx context.Context, hackathon *models.Hackathon) error {
	return r.db.WithContext(ctx).Create(hackathon).Error
}

func (r *hackathonRepository) GetByID(ctx context.Context, id uint) (models.Hackathon, error) {
	var hackathon models.Hackathon
	if err := r.db.WithContext(ctx).
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_order ASC")
		}).
		First(&hackathon, id).Error; err != nil {
		return models.Hackathon{}, err
	}

	return hackathon, nil
}

func (r *hackathonRepository) UpdateRoundStatus(ctx context.Context, hackathonID uint, order int, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Round{}).
		Where("hackathon_id = ?", hackathonID).
		Where("round_order = ?", order).
		Update("status", status).Error
}
