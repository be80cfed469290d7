package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	leaderboardDto "github.com/quantummesh/impactview/internal/modules/leaderboard/dto"
	leaderboardRepo "github.com/quantummesh/impactview/internal/modules/leaderboard/repository"
	"github.com/quantummesh/impactview/pkg/apperror"
)

const (
	TimeframeAllTime = "all"
	TimeframeMonthly = "monthly"
	TimeframeWeekly  = "weekly"

	cacheTTL = time.Minute
)

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, timeframe string, limit int) (*leaderboardDto.LeaderboardResponse, error)
}

type leaderboardService struct {
	repo        leaderboardRepo.LeaderboardRepository
	redisClient *redis.Client
}

func NewLeaderboardService(repo leaderboardRepo.LeaderboardRepository, redisClient *redis.Client) LeaderboardService {
	return &leaderboardService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, timeframe string, limit int) (*leaderboardDto.LeaderboardResponse, error) {
	if timeframe == "" {
		timeframe = TimeframeAllTime
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", timeframe, limit)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var rows []leaderboardRepo.RankedProfile
	var err error

	switch timeframe {
	case TimeframeAllTime:
		rows, err = s.repo.TopByTokens(ctx, limit)
	case TimeframeMonthly:
		rows, err = s.repo.TopByPeriod(ctx, time.Now().AddDate(0, 0, -30), limit)
	case TimeframeWeekly:
		rows, err = s.repo.TopByPeriod(ctx, time.Now().AddDate(0, 0, -7), limit)
	default:
		return nil, apperror.New(400, "unknown timeframe", apperror.ErrBadRequest)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboardDto.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, leaderboardDto.LeaderboardEntry{
			Position:     i + 1,
			UserID:       row.UserID,
			FullName:     row.FullName,
			TrustScore:   row.TrustScore,
			ImpactTokens: row.ImpactTokens,
			PeriodTokens: row.PeriodTokens,
		})
	}

	resp := &leaderboardDto.LeaderboardResponse{
		Timeframe: timeframe,
		Entries:   entries,
	}
	s.toCache(ctx, cacheKey, resp)
	return resp, nil
}

func (s *leaderboardService) fromCache(ctx context.Context, key string) *leaderboardDto.LeaderboardResponse {
	if s.redisClient == nil {
		return nil
	}

	raw, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var resp leaderboardDto.LeaderboardResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *leaderboardService) toCache(ctx context.Context, key string, resp *leaderboardDto.LeaderboardResponse) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		log.Printf("Failed to cache leaderboard: %v", err)
	}
}
