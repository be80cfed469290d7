package dto

import "github.com/google/uuid"

type LeaderboardEntry struct {
	Position     int       `json:"position"`
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	TrustScore   int       `json:"trust_score"`
	ImpactTokens int       `json:"impact_tokens"`
	// PeriodTokens is the sum earned inside the requested window;
	// equal to ImpactTokens on the all-time board.
	PeriodTokens int `json:"period_tokens"`
}

type LeaderboardResponse struct {
	Timeframe string             `json:"timeframe"`
	Entries   []LeaderboardEntry `json:"entries"`
}
