package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionStatusPending  = "pending"
	ActionStatusApproved = "approved"
	ActionStatusRejected = "rejected"
	ActionStatusVerified = "verified"
)

const (
	VerificationVerified = "verified"
	VerificationDisputed = "disputed"
)

// Action is one user-submitted community action. The scoring fields stay
// null until the analysis pipeline has run; peer verifications live in
// their own rows and never mutate this one.
type Action struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	ImageURL     *string   `gorm:"type:text" json:"image_url,omitempty"`
	LocationName *string   `gorm:"size:200" json:"location_name,omitempty"`
	LocationLat  *float64  `json:"location_lat,omitempty"`
	LocationLng  *float64  `json:"location_lng,omitempty"`

	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	QualityScore   *float64 `json:"quality_score,omitempty"`
	AIFeedback     *string  `gorm:"type:text" json:"ai_feedback,omitempty"`
	TokensEarned   *int     `json:"tokens_earned,omitempty"`
	Status         string   `gorm:"size:20;not null;default:pending;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Action) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// HasCoordinates reports whether both coordinates are present, which is
// what the AR overlay requires of a candidate.
func (a *Action) HasCoordinates() bool {
	return a.LocationLat != nil && a.LocationLng != nil
}

// ActionVerification is a peer attestation on an action. One row per
// (action, verifier) pair, enforced by a unique index rather than client
// behavior.
type ActionVerification struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ActionID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verification_unique,priority:1;index" json:"action_id"`
	Action           Action    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VerifiedBy       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verification_unique,priority:2" json:"verified_by"`
	VerificationType string    `gorm:"size:20;not null" json:"verification_type"` // 'verified', 'disputed'
	Comment          *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (v *ActionVerification) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}

// Attachment tracks an uploaded proof image so orphans (uploaded but never
// attached to an action) can be cleaned up.
type Attachment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	FileURL   string     `gorm:"type:text;not null" json:"file_url"`
	FileType  string     `gorm:"size:50" json:"file_type"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	ActionID  *uuid.UUID `gorm:"type:uuid;index" json:"action_id,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
