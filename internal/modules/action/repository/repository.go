package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
)

// ScoreUpdate carries the scoring pipeline's output onto the action row.
type ScoreUpdate struct {
	SentimentScore float64
	RelevanceScore float64
	QualityScore   float64
	Feedback       string
	TokensEarned   int
	Status         string
}

type ActionRepository interface {
	Create(ctx context.Context, action *entity.Action) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Action, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Action, int64, error)
	Feed(ctx context.Context, statuses []string, limit, offset int) ([]entity.Action, int64, error)
	// FindVerifiedWithCoordinates returns the AR candidate set: verified
	// actions that carry both coordinates.
	FindVerifiedWithCoordinates(ctx context.Context) ([]entity.Action, error)
	UpdateScoresTx(tx *gorm.DB, id uuid.UUID, update ScoreUpdate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	CountByUser(ctx context.Context, userID uuid.UUID) (total int64, verified int64, err error)
	FindRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Action, error)
}

type actionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) ActionRepository {
	return &actionRepository{db: db}
}

func (r *actionRepository) Create(ctx context.Context, action *entity.Action) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *actionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Action, error) {
	var action entity.Action
	err := r.db.WithContext(ctx).
		Preload("User.Profile").
		First(&action, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *actionRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Action, int64, error) {
	var actions []entity.Action
	var total int64

	q := r.db.WithContext(ctx).Model(&entity.Action{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&actions).Error
	return actions, total, err
}

func (r *actionRepository) Feed(ctx context.Context, statuses []string, limit, offset int) ([]entity.Action, int64, error) {
	var actions []entity.Action
	var total int64

	q := r.db.WithContext(ctx).Model(&entity.Action{}).Where("status IN ?", statuses)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("User.Profile").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&actions).Error
	return actions, total, err
}

func (r *actionRepository) FindVerifiedWithCoordinates(ctx context.Context) ([]entity.Action, error) {
	var actions []entity.Action
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.ActionStatusVerified).
		Where("location_lat IS NOT NULL").
		Where("location_lng IS NOT NULL").
		Find(&actions).Error
	return actions, err
}

func (r *actionRepository) UpdateScoresTx(tx *gorm.DB, id uuid.UUID, update ScoreUpdate) error {
	res := tx.Model(&entity.Action{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sentiment_score": update.SentimentScore,
			"relevance_score": update.RelevanceScore,
			"quality_score":   update.QualityScore,
			"ai_feedback":     update.Feedback,
			"tokens_earned":   update.TokensEarned,
			"status":          update.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *actionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Action{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *actionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var total, verified int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Action{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Action{}).
		Where("user_id = ? AND status = ?", userID, entity.ActionStatusVerified).
		Count(&verified).Error; err != nil {
		return 0, 0, err
	}
	return total, verified, nil
}

func (r *actionRepository) FindRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Action, error) {
	var actions []entity.Action
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	return actions, err
}
