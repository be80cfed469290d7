package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quantummesh/impactview/internal/entity"
	attachmentRepo "github.com/quantummesh/impactview/internal/modules/attachment/repository"
	"github.com/quantummesh/impactview/pkg/storage"
)

// orphanAge is how long an unclaimed upload may linger before cleanup.
const orphanAge = 24 * time.Hour

type UploadResponse struct {
	ID       uint   `json:"id"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}

type AttachmentService interface {
	Upload(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*UploadResponse, error)
	BindToAction(ctx context.Context, userID uuid.UUID, actionID uuid.UUID, attachmentIDs []uint) error
	CleanupOrphans(ctx context.Context) error
}

type attachmentService struct {
	repo         attachmentRepo.AttachmentRepository
	fileStorage  storage.ImageStorage
	uploadFolder string
}

func NewAttachmentService(repo attachmentRepo.AttachmentRepository, fileStorage storage.ImageStorage, uploadFolder string) AttachmentService {
	return &attachmentService{
		repo:         repo,
		fileStorage:  fileStorage,
		uploadFolder: uploadFolder,
	}
}

func (s *attachmentService) Upload(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*UploadResponse, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	url, err := s.fileStorage.UploadImage(ctx, f, s.uploadFolder, file.Filename)
	if err != nil {
		return nil, err
	}

	attachment := &entity.Attachment{
		UserID:   userID,
		FileURL:  url,
		FileType: file.Header.Get("Content-Type"),
	}

	if err := s.repo.Create(ctx, attachment); err != nil {
		return nil, err
	}

	return &UploadResponse{
		ID:       attachment.ID,
		FileURL:  attachment.FileURL,
		FileType: attachment.FileType,
	}, nil
}

func (s *attachmentService) BindToAction(ctx context.Context, userID uuid.UUID, actionID uuid.UUID, attachmentIDs []uint) error {
	if len(attachmentIDs) == 0 {
		return nil
	}
	return s.repo.BindToAction(ctx, attachmentIDs, actionID, userID)
}

// CleanupOrphans removes uploads that were never attached to an action.
// Storage deletion failures are skipped; the next run retries them.
func (s *attachmentService) CleanupOrphans(ctx context.Context) error {
	cutoff := time.Now().Add(-orphanAge)

	orphans, err := s.repo.FindOrphans(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, orphan := range orphans {
		if err := s.fileStorage.DeleteImage(ctx, orphan.FileURL); err != nil {
			log.Printf("Failed to delete orphan file %s: %v", orphan.FileURL, err)
			continue
		}
		if err := s.repo.Delete(ctx, orphan.ID); err != nil {
			log.Printf("Failed to delete orphan record %d: %v", orphan.ID, err)
		}
	}
	return nil
}
