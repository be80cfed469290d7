package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/quantummesh/impactview/internal/entity"
	commonDto "github.com/quantummesh/impactview/pkg/dto"
)

type SubmitActionInput struct {
	Description   string   `json:"description" binding:"required,min=10,max=500"`
	ImageURL      *string  `json:"image_url" binding:"omitempty,url"`
	LocationName  *string  `json:"location_name" binding:"omitempty,max=200"`
	LocationLat   *float64 `json:"location_lat" binding:"omitempty,latitude"`
	LocationLng   *float64 `json:"location_lng" binding:"omitempty,longitude"`
	AttachmentIDs []uint   `json:"attachment_ids"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected verified"`
}

type FeedFilter struct {
	commonDto.PageFilter
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected verified"`
}

type SearchFilter struct {
	Query string `form:"q" binding:"required,min=1,max=200"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=50"`
}

type ActionResponse struct {
	ID           uuid.UUID                 `json:"id"`
	Author       *commonDto.AuthorResponse `json:"author,omitempty"`
	Description  string                    `json:"description"`
	ImageURL     *string                   `json:"image_url,omitempty"`
	LocationName *string                   `json:"location_name,omitempty"`
	LocationLat  *float64                  `json:"location_lat,omitempty"`
	LocationLng  *float64                  `json:"location_lng,omitempty"`

	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	QualityScore   *float64 `json:"quality_score,omitempty"`
	AIFeedback     *string  `json:"ai_feedback,omitempty"`
	TokensEarned   *int     `json:"tokens_earned,omitempty"`
	Status         string   `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

type ActionListResponse struct {
	Actions []ActionResponse         `json:"actions"`
	Meta    commonDto.PaginationMeta `json:"meta"`
}

func ToActionResponse(action *entity.Action) ActionResponse {
	resp := ActionResponse{
		ID:             action.ID,
		Description:    action.Description,
		ImageURL:       action.ImageURL,
		LocationName:   action.LocationName,
		LocationLat:    action.LocationLat,
		LocationLng:    action.LocationLng,
		SentimentScore: action.SentimentScore,
		RelevanceScore: action.RelevanceScore,
		QualityScore:   action.QualityScore,
		AIFeedback:     action.AIFeedback,
		TokensEarned:   action.TokensEarned,
		Status:         action.Status,
		CreatedAt:      action.CreatedAt,
	}
	if action.User.ID != uuid.Nil {
		resp.Author = &commonDto.AuthorResponse{
			ID:       action.User.ID,
			FullName: authorName(&action.User),
		}
	}
	return resp
}

func authorName(user *entity.User) string {
	if user.Profile != nil {
		return user.Profile.FullName
	}
	return ""
}
