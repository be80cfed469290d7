package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	verifDto "github.com/quantummesh/impactview/internal/modules/verification/dto"
	"github.com/quantummesh/impactview/pkg/apperror"
)

type stubActionRepo struct {
	actionRepo.ActionRepository
	findByID func(ctx context.Context, id uuid.UUID) (*entity.Action, error)
}

func (s *stubActionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Action, error) {
	return s.findByID(ctx, id)
}

type stubVerifRepo struct {
	toggle          func(ctx context.Context, v *entity.ActionVerification) (string, string, error)
	countByAction   func(ctx context.Context, actionID uuid.UUID) (map[string]int64, error)
	userVerif       func(ctx context.Context, userID, actionID uuid.UUID) (string, error)
	countGivenCalls int
}

func (s *stubVerifRepo) Toggle(ctx context.Context, v *entity.ActionVerification) (string, string, error) {
	return s.toggle(ctx, v)
}

func (s *stubVerifRepo) GetUserVerification(ctx context.Context, userID, actionID uuid.UUID) (string, error) {
	return s.userVerif(ctx, userID, actionID)
}

func (s *stubVerifRepo) CountByAction(ctx context.Context, actionID uuid.UUID) (map[string]int64, error) {
	return s.countByAction(ctx, actionID)
}

func (s *stubVerifRepo) CountGivenBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.countGivenCalls++
	return 0, nil
}

func TestToggleRejectsSelfVerification(t *testing.T) {
	userID := uuid.New()
	actionID := uuid.New()

	actions := &stubActionRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Action, error) {
		return &entity.Action{ID: actionID, UserID: userID}, nil
	}}
	verifs := &stubVerifRepo{toggle: func(ctx context.Context, v *entity.ActionVerification) (string, string, error) {
		t.Fatal("toggle should not be reached for self-verification")
		return "", "", nil
	}}

	svc := NewVerificationService(verifs, actions, nil, nil)
	err := svc.Toggle(context.Background(), userID, actionID, verifDto.ToggleVerificationInput{
		VerificationType: entity.VerificationVerified,
	})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 422 {
		t.Fatalf("expected 422 AppError, got %v", err)
	}
}

func TestToggleUnknownAction(t *testing.T) {
	actions := &stubActionRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Action, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	verifs := &stubVerifRepo{toggle: func(ctx context.Context, v *entity.ActionVerification) (string, string, error) {
		return "", "", nil
	}}

	svc := NewVerificationService(verifs, actions, nil, nil)
	err := svc.Toggle(context.Background(), uuid.New(), uuid.New(), verifDto.ToggleVerificationInput{
		VerificationType: entity.VerificationVerified,
	})

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestToggleCreatesForOtherUsersAction(t *testing.T) {
	verifier := uuid.New()
	owner := uuid.New()
	actionID := uuid.New()

	actions := &stubActionRepo{findByID: func(ctx context.Context, id uuid.UUID) (*entity.Action, error) {
		return &entity.Action{ID: actionID, UserID: owner}, nil
	}}

	var got *entity.ActionVerification
	verifs := &stubVerifRepo{toggle: func(ctx context.Context, v *entity.ActionVerification) (string, string, error) {
		got = v
		return "", v.VerificationType, nil
	}}

	svc := NewVerificationService(verifs, actions, nil, nil)
	err := svc.Toggle(context.Background(), verifier, actionID, verifDto.ToggleVerificationInput{
		VerificationType: entity.VerificationDisputed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ActionID != actionID || got.VerifiedBy != verifier || got.VerificationType != entity.VerificationDisputed {
		t.Errorf("toggle received %+v", got)
	}
}

func TestGetCountsIncludesUserState(t *testing.T) {
	actionID := uuid.New()
	userID := uuid.New()

	verifs := &stubVerifRepo{
		countByAction: func(ctx context.Context, id uuid.UUID) (map[string]int64, error) {
			return map[string]int64{
				entity.VerificationVerified: 4,
				entity.VerificationDisputed: 1,
			}, nil
		},
		userVerif: func(ctx context.Context, uid, aid uuid.UUID) (string, error) {
			return entity.VerificationVerified, nil
		},
	}

	svc := NewVerificationService(verifs, nil, nil, nil)
	resp, err := svc.GetCounts(context.Background(), &userID, actionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Verified != 4 || resp.Disputed != 1 {
		t.Errorf("counts = %+v", resp)
	}
	if resp.UserState != entity.VerificationVerified {
		t.Errorf("user state = %q", resp.UserState)
	}
}
