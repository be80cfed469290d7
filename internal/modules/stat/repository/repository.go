package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
)

// DayActivity is one heatmap bucket.
type DayActivity struct {
	Day    time.Time `json:"day"`
	Count  int64     `json:"count"`
	Tokens int64     `json:"tokens"`
}

// SentimentAverages aggregates the scored corpus.
type SentimentAverages struct {
	AvgSentiment float64 `json:"avg_sentiment"`
	AvgRelevance float64 `json:"avg_relevance"`
	AvgQuality   float64 `json:"avg_quality"`
	ScoredCount  int64   `json:"scored_count"`
}

type StatRepository interface {
	// DailyActivity buckets actions per calendar day since the cutoff,
	// scoped to one user when userID is non-nil.
	DailyActivity(ctx context.Context, userID *uuid.UUID, since time.Time) ([]DayActivity, error)
	Sentiment(ctx context.Context, since time.Time) (*SentimentAverages, error)
	CountUsers(ctx context.Context) (int64, error)
	CountActions(ctx context.Context) (int64, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func (r *statRepository) DailyActivity(ctx context.Context, userID *uuid.UUID, since time.Time) ([]DayActivity, error) {
	q := r.db.WithContext(ctx).
		Model(&entity.Action{}).
		Select("date_trunc('day', created_at) as day, count(*) as count, COALESCE(SUM(tokens_earned), 0) as tokens").
		Where("created_at >= ?", since)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var rows []DayActivity
	err := q.Group("day").Order("day").Scan(&rows).Error
	return rows, err
}

func (r *statRepository) Sentiment(ctx context.Context, since time.Time) (*SentimentAverages, error) {
	var result SentimentAverages
	err := r.db.WithContext(ctx).
		Model(&entity.Action{}).
		Select("COALESCE(AVG(sentiment_score), 0) as avg_sentiment, COALESCE(AVG(relevance_score), 0) as avg_relevance, COALESCE(AVG(quality_score), 0) as avg_quality, count(*) as scored_count").
		Where("quality_score IS NOT NULL AND created_at >= ?", since).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *statRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error
	return count, err
}

func (r *statRepository) CountActions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Action{}).Count(&count).Error
	return count, err
}
