package dto

import "github.com/google/uuid"

type ToggleVerificationInput struct {
	VerificationType string  `json:"verification_type" binding:"required,oneof=verified disputed"`
	Comment          *string `json:"comment" binding:"omitempty,max=300"`
}

type VerificationCountsResponse struct {
	ActionID  uuid.UUID `json:"action_id"`
	Verified  int64     `json:"verified"`
	Disputed  int64     `json:"disputed"`
	UserState string    `json:"user_state,omitempty"` // caller's own verification, if any
}
