package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
	searchService "github.com/quantummesh/impactview/internal/modules/search/service"
	topicDto "github.com/quantummesh/impactview/internal/modules/topic/dto"
	topicRepo "github.com/quantummesh/impactview/internal/modules/topic/repository"
	"github.com/quantummesh/impactview/pkg/apperror"
	commonDto "github.com/quantummesh/impactview/pkg/dto"
)

type TopicFilter struct {
	commonDto.PageFilter
	Status string `form:"status" binding:"omitempty,oneof=active closed archived"`
}

type TopicService interface {
	Create(ctx context.Context, userID uuid.UUID, input topicDto.CreateTopicInput) (*topicDto.TopicResponse, error)
	GetByID(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (*topicDto.TopicResponse, error)
	List(ctx context.Context, userID *uuid.UUID, filter TopicFilter) (*topicDto.TopicListResponse, error)
	Vote(ctx context.Context, userID uuid.UUID, topicID uuid.UUID, voteType string) (*topicDto.TopicResponse, error)
	Search(ctx context.Context, filter topicDto.SearchFilter) ([]searchService.TopicDocument, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type topicService struct {
	repo      topicRepo.TopicRepository
	search    searchService.SearchService
	sanitizer *bluemonday.Policy
}

func NewTopicService(repo topicRepo.TopicRepository, search searchService.SearchService) TopicService {
	return &topicService{
		repo:      repo,
		search:    search,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *topicService) Create(ctx context.Context, userID uuid.UUID, input topicDto.CreateTopicInput) (*topicDto.TopicResponse, error) {
	topic := &entity.CommunityTopic{
		Title:       s.sanitizer.Sanitize(input.Title),
		Description: s.sanitizer.Sanitize(input.Description),
		CreatedBy:   userID,
		Status:      entity.TopicStatusActive,
	}

	if err := s.repo.Create(ctx, topic); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexTopic(topic); err != nil {
			log.Printf("Failed to index topic %s: %v", topic.ID, err)
		}
	}

	resp := topicDto.ToTopicResponse(topic, "")
	return &resp, nil
}

func (s *topicService) GetByID(ctx context.Context, userID *uuid.UUID, id uuid.UUID) (*topicDto.TopicResponse, error) {
	topic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "topic not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	userVote := ""
	if userID != nil {
		votes, err := s.repo.GetUserVotes(ctx, *userID, []uuid.UUID{id})
		if err != nil {
			return nil, err
		}
		userVote = votes[id]
	}

	resp := topicDto.ToTopicResponse(topic, userVote)
	return &resp, nil
}

func (s *topicService) List(ctx context.Context, userID *uuid.UUID, filter TopicFilter) (*topicDto.TopicListResponse, error) {
	offset := (filter.Page - 1) * filter.Limit
	topics, total, err := s.repo.List(ctx, filter.Status, filter.Limit, offset)
	if err != nil {
		return nil, err
	}

	userVotes := map[uuid.UUID]string{}
	if userID != nil && len(topics) > 0 {
		ids := make([]uuid.UUID, 0, len(topics))
		for i := range topics {
			ids = append(ids, topics[i].ID)
		}
		userVotes, err = s.repo.GetUserVotes(ctx, *userID, ids)
		if err != nil {
			return nil, err
		}
	}

	items := make([]topicDto.TopicResponse, 0, len(topics))
	for i := range topics {
		items = append(items, topicDto.ToTopicResponse(&topics[i], userVotes[topics[i].ID]))
	}

	return &topicDto.TopicListResponse{
		Topics: items,
		Meta: commonDto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

func (s *topicService) Vote(ctx context.Context, userID uuid.UUID, topicID uuid.UUID, voteType string) (*topicDto.TopicResponse, error) {
	topic, err := s.repo.FindByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "topic not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	if topic.Status != entity.TopicStatusActive {
		return nil, apperror.New(422, "topic is not open for voting", apperror.ErrInvalidInput)
	}

	vote := &entity.TopicVote{
		TopicID:  topicID,
		UserID:   userID,
		VoteType: voteType,
	}
	_, newVote, err := s.repo.ToggleVote(ctx, vote)
	if err != nil {
		return nil, err
	}

	// Re-read for fresh counters.
	return s.getWithVote(ctx, topicID, newVote)
}

func (s *topicService) getWithVote(ctx context.Context, topicID uuid.UUID, userVote string) (*topicDto.TopicResponse, error) {
	topic, err := s.repo.FindByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	resp := topicDto.ToTopicResponse(topic, userVote)
	return &resp, nil
}

func (s *topicService) Search(ctx context.Context, filter topicDto.SearchFilter) ([]searchService.TopicDocument, error) {
	if s.search == nil {
		return nil, apperror.New(503, "search is not configured", apperror.ErrInternal)
	}
	return s.search.SearchTopics(filter.Query, filter.Limit)
}

func (s *topicService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(404, "topic not found", apperror.ErrNotFound)
	}
	return err
}
