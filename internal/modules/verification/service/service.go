package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	notifService "github.com/quantummesh/impactview/internal/modules/notification/service"
	verifDto "github.com/quantummesh/impactview/internal/modules/verification/dto"
	verifRepo "github.com/quantummesh/impactview/internal/modules/verification/repository"
	"github.com/quantummesh/impactview/pkg/apperror"
)

type VerificationService interface {
	Toggle(ctx context.Context, userID, actionID uuid.UUID, input verifDto.ToggleVerificationInput) error
	GetCounts(ctx context.Context, userID *uuid.UUID, actionID uuid.UUID) (*verifDto.VerificationCountsResponse, error)
}

type verificationService struct {
	repo        verifRepo.VerificationRepository
	actionRepo  actionRepo.ActionRepository
	redisClient *redis.Client
	notifier    notifService.NotificationService
}

func NewVerificationService(
	repo verifRepo.VerificationRepository,
	actions actionRepo.ActionRepository,
	redisClient *redis.Client,
	notifier notifService.NotificationService,
) VerificationService {
	return &verificationService{
		repo:        repo,
		actionRepo:  actions,
		redisClient: redisClient,
		notifier:    notifier,
	}
}

func (s *verificationService) Toggle(ctx context.Context, userID, actionID uuid.UUID, input verifDto.ToggleVerificationInput) error {
	action, err := s.actionRepo.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(404, "action not found", apperror.ErrNotFound)
		}
		return err
	}

	// Submitters cannot attest their own actions.
	if action.UserID == userID {
		return apperror.New(422, "you cannot verify your own action", apperror.ErrInvalidInput)
	}

	verification := &entity.ActionVerification{
		ActionID:         actionID,
		VerifiedBy:       userID,
		VerificationType: input.VerificationType,
		Comment:          input.Comment,
	}

	oldType, newType, err := s.repo.Toggle(ctx, verification)
	if err != nil {
		return err
	}

	s.updateCounters(ctx, actionID, oldType, newType)

	// Notify the action owner of an active attestation only; removals
	// stay silent.
	if newType != "" && s.notifier != nil {
		go func() {
			verb := "verified"
			if newType == entity.VerificationDisputed {
				verb = "disputed"
			}
			notification := &entity.Notification{
				UserID:     action.UserID,
				ActorID:    userID,
				EntityID:   action.ID,
				EntityType: "action",
				Type:       "verification",
				Message:    fmt.Sprintf("A community member %s your action", verb),
			}
			if err := s.notifier.CreateNotification(context.Background(), notification); err != nil {
				log.Printf("Failed to create verification notification: %v", err)
			}
		}()
	}

	return nil
}

// updateCounters keeps the hot per-action verification counts in a redis
// hash. The rows in postgres stay authoritative; a failed pipeline is
// logged and the key self-heals on the next cache rebuild.
func (s *verificationService) updateCounters(ctx context.Context, actionID uuid.UUID, oldType, newType string) {
	if s.redisClient == nil {
		return
	}

	redisKey := fmt.Sprintf("counts:verification:%s", actionID.String())
	pipe := s.redisClient.Pipeline()

	if oldType != "" {
		pipe.HIncrBy(ctx, redisKey, oldType, -1)
	}
	if newType != "" {
		pipe.HIncrBy(ctx, redisKey, newType, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Redis verification count update failed: %v", err)
	}
}

func (s *verificationService) GetCounts(ctx context.Context, userID *uuid.UUID, actionID uuid.UUID) (*verifDto.VerificationCountsResponse, error) {
	counts, err := s.repo.CountByAction(ctx, actionID)
	if err != nil {
		return nil, err
	}

	resp := &verifDto.VerificationCountsResponse{
		ActionID: actionID,
		Verified: counts[entity.VerificationVerified],
		Disputed: counts[entity.VerificationDisputed],
	}

	if userID != nil {
		state, err := s.repo.GetUserVerification(ctx, *userID, actionID)
		if err != nil {
			return nil, err
		}
		resp.UserState = state
	}

	return resp, nil
}
