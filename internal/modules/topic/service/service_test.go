package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quantummesh/impactview/internal/entity"
	searchService "github.com/quantummesh/impactview/internal/modules/search/service"
	topicDto "github.com/quantummesh/impactview/internal/modules/topic/dto"
	"github.com/quantummesh/impactview/pkg/apperror"
)

type stubSearch struct {
	searchTopics func(query string, limit int) ([]searchService.TopicDocument, error)
}

func (s *stubSearch) IndexAction(action *entity.Action) error       { return nil }
func (s *stubSearch) DeleteAction(id string) error                  { return nil }
func (s *stubSearch) IndexTopic(topic *entity.CommunityTopic) error { return nil }

func (s *stubSearch) SearchActions(query string, limit int) ([]searchService.ActionDocument, error) {
	return nil, nil
}

func (s *stubSearch) SearchTopics(query string, limit int) ([]searchService.TopicDocument, error) {
	return s.searchTopics(query, limit)
}

func TestSearchWithoutBackendReturnsUnavailable(t *testing.T) {
	svc := NewTopicService(nil, nil)

	_, err := svc.Search(context.Background(), topicDto.SearchFilter{Query: "cleanup", Limit: 20})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 503 {
		t.Fatalf("expected 503 AppError, got %v", err)
	}
}

func TestSearchDelegatesQuery(t *testing.T) {
	var gotQuery string
	var gotLimit int
	search := &stubSearch{searchTopics: func(query string, limit int) ([]searchService.TopicDocument, error) {
		gotQuery = query
		gotLimit = limit
		return []searchService.TopicDocument{{Title: "Park cleanup day"}}, nil
	}}

	svc := NewTopicService(nil, search)
	docs, err := svc.Search(context.Background(), topicDto.SearchFilter{Query: "park", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "park" || gotLimit != 10 {
		t.Errorf("delegated query = %q limit = %d", gotQuery, gotLimit)
	}
	if len(docs) != 1 || docs[0].Title != "Park cleanup day" {
		t.Errorf("docs = %+v", docs)
	}
}
