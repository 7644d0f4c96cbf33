package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hackcentral/hackcentral-api/internal/models"
)

// EvaluationRepository defines data operations for judge evaluations.
type EvaluationRepository interface {
	Upsert(ctx context.Context, evaluation *models.Evaluation) error
	GetBySubmissionAndJudge(ctx context.Context, submissionID, judgeID uint) (models.Evaluation, error)
	ListBySubmission(ctx context.Context, submissionID uint) ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Upsert writes an evaluation keyed by (submission_id, judge_id). The unique
// index plus ON CONFLICT is the whole concurrency story: concurrent writes by
// the same judge serialize to last-write-wins without duplicate rows.
func (r *evaluationRepository) Upsert(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "submission_id"}, {Name: "judge_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"scores", "judge_total", "ai_total", "final_total", "weighted_score", "comments", "updated_at",
			}),
		}).
		Create(evaluation).Error
}

func (r *evaluationRepository) GetBySubmissionAndJudge(ctx context.Context, submissionID, judgeID uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Where("judge_id = ?", judgeID).
		First(&evaluation).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("judge_id ASC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}
