package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/quantummesh/impactview/internal/entity"
	commonDto "github.com/quantummesh/impactview/pkg/dto"
)

type CreateTopicInput struct {
	Title       string `json:"title" binding:"required,min=5,max=200"`
	Description string `json:"description" binding:"required,min=10,max=2000"`
}

type VoteInput struct {
	VoteType string `json:"vote_type" binding:"required,oneof=up down"`
}

type SearchFilter struct {
	Query string `form:"q" binding:"required,min=1,max=200"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=50"`
}

type TopicResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Title         string                    `json:"title"`
	Description   string                    `json:"description"`
	Status        string                    `json:"status"`
	Creator       *commonDto.AuthorResponse `json:"creator,omitempty"`
	VoteCountUp   int                       `json:"vote_count_up"`
	VoteCountDown int                       `json:"vote_count_down"`
	UserVote      string                    `json:"user_vote,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
}

type TopicListResponse struct {
	Topics []TopicResponse          `json:"topics"`
	Meta   commonDto.PaginationMeta `json:"meta"`
}

func ToTopicResponse(topic *entity.CommunityTopic, userVote string) TopicResponse {
	resp := TopicResponse{
		ID:            topic.ID,
		Title:         topic.Title,
		Description:   topic.Description,
		Status:        topic.Status,
		VoteCountUp:   topic.VoteCountUp,
		VoteCountDown: topic.VoteCountDown,
		UserVote:      userVote,
		CreatedAt:     topic.CreatedAt,
	}
	if topic.Creator.ID != uuid.Nil {
		name := ""
		if topic.Creator.Profile != nil {
			name = topic.Creator.Profile.FullName
		}
		resp.Creator = &commonDto.AuthorResponse{ID: topic.Creator.ID, FullName: name}
	}
	return resp
}
