package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// TeamRepository defines read operations on teams used by the scoring engine.
// Team formation itself lives in a separate collaborator.
type TeamRepository interface {
	ListByHackathon(ctx context.Context, hackathonID uint) ([]models.Team, error)
	GetByID(ctx context.Context, id uint) (models.Team, error)
	FindForMember(ctx context.Context, hackathonID, userID uint) (models.Team, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository instantiates the repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) ListByHackathon(ctx context.Context, hackathonID uint) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).
		Where("hackathon_id = ?", hackathonID).
		Order("created_at ASC, id ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

// FindForMember resolves the team a user belongs to within one hackathon.
// Membership is stored as a JSON array, so candidates are scanned in memory.
func (r *teamRepository) FindForMember(ctx context.Context, hackathonID, userID uint) (models.Team, error) {
	teams, err := r.ListByHackathon(ctx, hackathonID)
	if err != nil {
		return models.Team{}, err
	}

	for _, team := range teams {
		if team.HasMember(userID) {
			return team, nil
		}
	}

	return models.Team{}, errors.New("user has no team in hackathon")
}
