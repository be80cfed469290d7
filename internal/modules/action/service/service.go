package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
	"github.com/quantummesh/impactview/internal/modules/action/dto"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	"github.com/quantummesh/impactview/internal/modules/analysis"
	attachmentService "github.com/quantummesh/impactview/internal/modules/attachment/service"
	searchService "github.com/quantummesh/impactview/internal/modules/search/service"
	"github.com/quantummesh/impactview/pkg/apperror"
	commonDto "github.com/quantummesh/impactview/pkg/dto"
	"github.com/quantummesh/impactview/pkg/ratelimit"
)

// Status transitions an admin may apply. Peer verifications never touch
// the status column, only moderation does.
var allowedTransitions = map[string][]string{
	entity.ActionStatusPending:  {entity.ActionStatusApproved, entity.ActionStatusRejected},
	entity.ActionStatusApproved: {entity.ActionStatusVerified, entity.ActionStatusRejected},
	entity.ActionStatusRejected: {entity.ActionStatusPending},
	entity.ActionStatusVerified: {},
}

type ActionService interface {
	Submit(ctx context.Context, userID uuid.UUID, input dto.SubmitActionInput) (*dto.ActionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ActionResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter commonDto.PageFilter) (*dto.ActionListResponse, error)
	Feed(ctx context.Context, filter dto.FeedFilter) (*dto.ActionListResponse, error)
	Analyze(ctx context.Context, userID uuid.UUID, actionID uuid.UUID) (*analysis.Result, error)
	Search(ctx context.Context, filter dto.SearchFilter) ([]searchService.ActionDocument, error)
	ModerateStatus(ctx context.Context, actionID uuid.UUID, status string) error
}

type actionService struct {
	repo        actionRepo.ActionRepository
	analyzer    analysis.Service
	search      searchService.SearchService
	attachments attachmentService.AttachmentService
	redisClient *redis.Client
	sanitizer   *bluemonday.Policy
	rateLimit   time.Duration
}

func NewActionService(
	repo actionRepo.ActionRepository,
	analyzer analysis.Service,
	search searchService.SearchService,
	attachments attachmentService.AttachmentService,
	redisClient *redis.Client,
	rateLimit time.Duration,
) ActionService {
	return &actionService{
		repo:        repo,
		analyzer:    analyzer,
		search:      search,
		attachments: attachments,
		redisClient: redisClient,
		sanitizer:   bluemonday.StrictPolicy(),
		rateLimit:   rateLimit,
	}
}

func (s *actionService) Submit(ctx context.Context, userID uuid.UUID, input dto.SubmitActionInput) (*dto.ActionResponse, error) {
	allowed, err := ratelimit.CheckAndSet(ctx, s.redisClient, userID, "submit_action", s.rateLimit)
	if err != nil {
		log.Printf("Rate limit check failed, allowing submit: %v", err)
	} else if !allowed {
		message := "please wait before submitting another action"
		if remaining, ttlErr := ratelimit.TTL(ctx, s.redisClient, userID, "submit_action"); ttlErr == nil && remaining > 0 {
			message = fmt.Sprintf("please wait %d seconds before submitting another action", int(remaining.Seconds()))
		}
		return nil, apperror.New(429, message, apperror.ErrRateLimitExceeded)
	}

	// Coordinates come in pairs: one without the other is a client bug.
	if (input.LocationLat == nil) != (input.LocationLng == nil) {
		return nil, apperror.New(422, "location_lat and location_lng must be provided together", apperror.ErrInvalidInput)
	}

	action := &entity.Action{
		UserID:       userID,
		Description:  s.sanitizer.Sanitize(input.Description),
		ImageURL:     input.ImageURL,
		LocationName: input.LocationName,
		LocationLat:  input.LocationLat,
		LocationLng:  input.LocationLng,
		Status:       entity.ActionStatusPending,
	}

	if err := s.repo.Create(ctx, action); err != nil {
		if clearErr := ratelimit.Clear(ctx, s.redisClient, userID, "submit_action"); clearErr != nil {
			log.Printf("Failed to clear rate limit: %v", clearErr)
		}
		return nil, err
	}

	// Claim uploaded proof images so the orphan sweeper leaves them alone.
	if len(input.AttachmentIDs) > 0 && s.attachments != nil {
		if err := s.attachments.BindToAction(ctx, userID, action.ID, input.AttachmentIDs); err != nil {
			return nil, err
		}
	}

	// Scoring runs out of band so the submit response stays fast even
	// when the oracle is slow. A failed run leaves the action pending and
	// the analyze endpoint can retry it.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.analyzer.AnalyzeAction(bgCtx, action.ID); err != nil {
			log.Printf("Background analysis failed for action %s: %v", action.ID, err)
		}
	}()

	resp := dto.ToActionResponse(action)
	return &resp, nil
}

func (s *actionService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ActionResponse, error) {
	action, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "action not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	resp := dto.ToActionResponse(action)
	return &resp, nil
}

func (s *actionService) ListByUser(ctx context.Context, userID uuid.UUID, filter commonDto.PageFilter) (*dto.ActionListResponse, error) {
	offset := (filter.Page - 1) * filter.Limit
	actions, total, err := s.repo.FindByUser(ctx, userID, filter.Limit, offset)
	if err != nil {
		return nil, err
	}
	return buildListResponse(actions, total, filter.Page, filter.Limit), nil
}

func (s *actionService) Feed(ctx context.Context, filter dto.FeedFilter) (*dto.ActionListResponse, error) {
	statuses := []string{entity.ActionStatusApproved, entity.ActionStatusVerified}
	if filter.Status != "" {
		statuses = []string{filter.Status}
	}

	offset := (filter.Page - 1) * filter.Limit
	actions, total, err := s.repo.Feed(ctx, statuses, filter.Limit, offset)
	if err != nil {
		return nil, err
	}
	return buildListResponse(actions, total, filter.Page, filter.Limit), nil
}

func (s *actionService) Analyze(ctx context.Context, userID uuid.UUID, actionID uuid.UUID) (*analysis.Result, error) {
	action, err := s.repo.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "action not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	if action.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	return s.analyzer.AnalyzeAction(ctx, actionID)
}

func (s *actionService) Search(ctx context.Context, filter dto.SearchFilter) ([]searchService.ActionDocument, error) {
	if s.search == nil {
		return nil, apperror.New(503, "search is not configured", apperror.ErrInternal)
	}
	return s.search.SearchActions(filter.Query, filter.Limit)
}

func (s *actionService) ModerateStatus(ctx context.Context, actionID uuid.UUID, status string) error {
	action, err := s.repo.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(404, "action not found", apperror.ErrNotFound)
		}
		return err
	}

	if !transitionAllowed(action.Status, status) {
		return apperror.New(422, "invalid status transition", apperror.ErrInvalidInput)
	}

	if err := s.repo.UpdateStatus(ctx, actionID, status); err != nil {
		return err
	}

	if s.search != nil {
		action.Status = status
		if err := s.search.IndexAction(action); err != nil {
			log.Printf("Failed to re-index action %s: %v", actionID, err)
		}
	}
	return nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func buildListResponse(actions []entity.Action, total int64, page, limit int) *dto.ActionListResponse {
	items := make([]dto.ActionResponse, 0, len(actions))
	for i := range actions {
		items = append(items, dto.ToActionResponse(&actions[i]))
	}
	return &dto.ActionListResponse{
		Actions: items,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}
}
