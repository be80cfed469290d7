package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
)

// RankedProfile is one leaderboard row straight from the database.
type RankedProfile struct {
	UserID       uuid.UUID
	FullName     string
	TrustScore   int
	ImpactTokens int
	PeriodTokens int
}

type LeaderboardRepository interface {
	// TopByTokens ranks profiles by lifetime token balance.
	TopByTokens(ctx context.Context, limit int) ([]RankedProfile, error)
	// TopByPeriod ranks users by tokens earned on verified actions since
	// the given cutoff.
	TopByPeriod(ctx context.Context, since time.Time, limit int) ([]RankedProfile, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) TopByTokens(ctx context.Context, limit int) ([]RankedProfile, error) {
	var rows []RankedProfile
	err := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Select("user_id, full_name, trust_score, impact_tokens, impact_tokens as period_tokens").
		Order("impact_tokens DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *leaderboardRepository) TopByPeriod(ctx context.Context, since time.Time, limit int) ([]RankedProfile, error) {
	var rows []RankedProfile
	err := r.db.WithContext(ctx).
		Model(&entity.Action{}).
		Select("actions.user_id, profiles.full_name, profiles.trust_score, profiles.impact_tokens, SUM(actions.tokens_earned) as period_tokens").
		Joins("JOIN profiles ON profiles.user_id = actions.user_id").
		Where("actions.status = ? AND actions.tokens_earned IS NOT NULL AND actions.created_at >= ?", entity.ActionStatusVerified, since).
		Group("actions.user_id, profiles.full_name, profiles.trust_score, profiles.impact_tokens").
		Order("period_tokens DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
