package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	// BindToAction claims uploads for an action, but only the caller's
	// own uploads that are not already attached elsewhere.
	BindToAction(ctx context.Context, attachmentIDs []uint, actionID uuid.UUID, userID uuid.UUID) error
	FindOrphans(ctx context.Context, cutoff time.Time) ([]entity.Attachment, error)
	Delete(ctx context.Context, id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) BindToAction(ctx context.Context, attachmentIDs []uint, actionID uuid.UUID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Attachment{}).
		Where("id IN ? AND user_id = ?", attachmentIDs, userID).
		Where("action_id IS NULL OR action_id = ?", actionID).
		Update("action_id", actionID).Error
}

func (r *attachmentRepository) FindOrphans(ctx context.Context, cutoff time.Time) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("action_id IS NULL AND created_at < ?", cutoff).
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Attachment{}, id).Error
}
