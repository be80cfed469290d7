package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
}

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

type RecentAction struct {
	ID           uuid.UUID `json:"id"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	TokensEarned *int      `json:"tokens_earned,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProfileResponse struct {
	UserID             uuid.UUID      `json:"user_id"`
	FullName           string         `json:"full_name"`
	TrustScore         int            `json:"trust_score"`
	ImpactTokens       int            `json:"impact_tokens"`
	TotalActions       int64          `json:"total_actions"`
	VerifiedActions    int64          `json:"verified_actions"`
	VerificationsGiven int64          `json:"verifications_given"`
	Badges             []Badge        `json:"badges"`
	RecentActions      []RecentAction `json:"recent_actions"`
	MemberSince        time.Time      `json:"member_since"`
}
