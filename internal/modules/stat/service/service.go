package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	statRepo "github.com/quantummesh/impactview/internal/modules/stat/repository"
	"github.com/quantummesh/impactview/pkg/apperror"
)

const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

type HeatmapResponse struct {
	Range        string                 `json:"range"`
	Days         []statRepo.DayActivity `json:"days"`
	TotalActions int64                  `json:"total_actions"`
	TotalTokens  int64                  `json:"total_tokens"`
	ActiveDays   int                    `json:"active_days"`
}

type OverviewResponse struct {
	Users     int64                       `json:"users"`
	Actions   int64                       `json:"actions"`
	Sentiment *statRepo.SentimentAverages `json:"sentiment"`
}

type StatService interface {
	Heatmap(ctx context.Context, userID *uuid.UUID, rangeName string) (*HeatmapResponse, error)
	Sentiment(ctx context.Context) (*statRepo.SentimentAverages, error)
	CountUsers(ctx context.Context) (int64, error)
	Overview(ctx context.Context) (*OverviewResponse, error)
}

type statService struct {
	repo statRepo.StatRepository
}

func NewStatService(repo statRepo.StatRepository) StatService {
	return &statService{repo: repo}
}

func (s *statService) Heatmap(ctx context.Context, userID *uuid.UUID, rangeName string) (*HeatmapResponse, error) {
	if rangeName == "" {
		rangeName = RangeMonth
	}

	var since time.Time
	now := time.Now()
	switch rangeName {
	case RangeWeek:
		since = now.AddDate(0, 0, -7)
	case RangeMonth:
		since = now.AddDate(0, 0, -30)
	case RangeYear:
		since = now.AddDate(-1, 0, 0)
	default:
		return nil, apperror.New(400, "unknown heatmap range", apperror.ErrBadRequest)
	}

	days, err := s.repo.DailyActivity(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	resp := &HeatmapResponse{Range: rangeName, Days: days}
	for _, day := range days {
		resp.TotalActions += day.Count
		resp.TotalTokens += day.Tokens
		if day.Count > 0 {
			resp.ActiveDays++
		}
	}
	return resp, nil
}

func (s *statService) Sentiment(ctx context.Context) (*statRepo.SentimentAverages, error) {
	return s.repo.Sentiment(ctx, time.Now().AddDate(0, 0, -30))
}

func (s *statService) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.CountUsers(ctx)
}

func (s *statService) Overview(ctx context.Context) (*OverviewResponse, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	actions, err := s.repo.CountActions(ctx)
	if err != nil {
		return nil, err
	}
	sentiment, err := s.repo.Sentiment(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		Users:     users,
		Actions:   actions,
		Sentiment: sentiment,
	}, nil
}
