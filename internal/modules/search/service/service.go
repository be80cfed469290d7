package service

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"

	"github.com/quantummesh/impactview/internal/entity"
)

const (
	actionsIndex = "actions"
	topicsIndex  = "topics"
)

type SearchService interface {
	IndexAction(action *entity.Action) error
	DeleteAction(id string) error
	IndexTopic(topic *entity.CommunityTopic) error
	SearchActions(query string, limit int) ([]ActionDocument, error)
	SearchTopics(query string, limit int) ([]TopicDocument, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	filterable := []any{"status", "user_id"}
	if _, err := s.client.Index(actionsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		log.Errorf("Failed to update actions filterable attributes: %v", err)
	}

	sortable := []string{"created_at", "tokens_earned"}
	if _, err := s.client.Index(actionsIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Errorf("Failed to update actions sortable attributes: %v", err)
	}

	topicFilterable := []any{"status"}
	if _, err := s.client.Index(topicsIndex).UpdateFilterableAttributes(&topicFilterable); err != nil {
		log.Errorf("Failed to update topics filterable attributes: %v", err)
	}

	log.Info("Meilisearch indexes initialized")
}

// ActionDocument is the searchable projection of an action.
type ActionDocument struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Description  string `json:"description"`
	LocationName string `json:"location_name"`
	Status       string `json:"status"`
	TokensEarned int    `json:"tokens_earned"`
	CreatedAt    int64  `json:"created_at"`
}

type TopicDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *searchService) cleanForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexAction(action *entity.Action) error {
	doc := ActionDocument{
		ID:          action.ID.String(),
		UserID:      action.UserID.String(),
		Description: s.cleanForIndex(action.Description),
		Status:      action.Status,
		CreatedAt:   action.CreatedAt.Unix(),
	}
	if action.LocationName != nil {
		doc.LocationName = *action.LocationName
	}
	if action.TokensEarned != nil {
		doc.TokensEarned = *action.TokensEarned
	}

	task, err := s.client.Index(actionsIndex).AddDocuments([]ActionDocument{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Debugf("Indexed action %s, task id: %d", doc.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteAction(id string) error {
	_, err := s.client.Index(actionsIndex).DeleteDocument(id)
	return err
}

func (s *searchService) IndexTopic(topic *entity.CommunityTopic) error {
	doc := TopicDocument{
		ID:          topic.ID.String(),
		Title:       s.cleanForIndex(topic.Title),
		Description: s.cleanForIndex(topic.Description),
		Status:      topic.Status,
		CreatedAt:   topic.CreatedAt.Unix(),
	}

	_, err := s.client.Index(topicsIndex).AddDocuments([]TopicDocument{doc}, strPtr("id"))
	return err
}

func (s *searchService) SearchActions(query string, limit int) ([]ActionDocument, error) {
	resp, err := s.client.Index(actionsIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return decodeHits[ActionDocument](resp.Hits)
}

func (s *searchService) SearchTopics(query string, limit int) ([]TopicDocument, error) {
	resp, err := s.client.Index(topicsIndex).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return decodeHits[TopicDocument](resp.Hits)
}

func decodeHits[T any](hits meilisearch.Hits) ([]T, error) {
	docs := make([]T, 0, len(hits))
	for _, hit := range hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func strPtr(s string) *string {
	return &s
}
