package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TopicStatusActive   = "active"
	TopicStatusClosed   = "closed"
	TopicStatusArchived = "archived"
)

const (
	VoteUp   = "up"
	VoteDown = "down"
)

type CommunityTopic struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	Creator     User      `gorm:"foreignKey:CreatedBy" json:"-"`
	Status      string    `gorm:"size:20;not null;default:active" json:"status"`
	// Denormalized counters, kept in step with topic_votes inside the
	// vote-toggle transaction.
	VoteCountUp   int       `gorm:"not null;default:0" json:"vote_count_up"`
	VoteCountDown int       `gorm:"not null;default:0" json:"vote_count_down"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *CommunityTopic) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

type TopicVote struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_topic_vote_unique,priority:1" json:"topic_id"`
	Topic     CommunityTopic `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_topic_vote_unique,priority:2" json:"user_id"`
	VoteType  string         `gorm:"size:10;not null" json:"vote_type"` // 'up', 'down'
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (v *TopicVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}
