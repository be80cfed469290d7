package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	profileDto "github.com/quantummesh/impactview/internal/modules/profile/dto"
	userRepo "github.com/quantummesh/impactview/internal/modules/user/repository"
	verifRepo "github.com/quantummesh/impactview/internal/modules/verification/repository"
	"github.com/quantummesh/impactview/pkg/apperror"
)

const recentActionLimit = 10

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error)
	UpdateName(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput) error
}

type profileService struct {
	users         userRepo.UserRepository
	actions       actionRepo.ActionRepository
	verifications verifRepo.VerificationRepository
	sanitizer     *bluemonday.Policy
}

func NewProfileService(
	users userRepo.UserRepository,
	actions actionRepo.ActionRepository,
	verifications verifRepo.VerificationRepository,
) ProfileService {
	return &profileService{
		users:         users,
		actions:       actions,
		verifications: verifications,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "profile not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	total, verified, err := s.actions.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	given, err := s.verifications.CountGivenBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.actions.FindRecentByUser(ctx, userID, recentActionLimit)
	if err != nil {
		return nil, err
	}

	recentItems := make([]profileDto.RecentAction, 0, len(recent))
	for _, action := range recent {
		recentItems = append(recentItems, profileDto.RecentAction{
			ID:           action.ID,
			Description:  action.Description,
			Status:       action.Status,
			TokensEarned: action.TokensEarned,
			CreatedAt:    action.CreatedAt,
		})
	}

	return &profileDto.ProfileResponse{
		UserID:             userID,
		FullName:           profile.FullName,
		TrustScore:         profile.TrustScore,
		ImpactTokens:       profile.ImpactTokens,
		TotalActions:       total,
		VerifiedActions:    verified,
		VerificationsGiven: given,
		Badges:             ComputeBadges(profile, total, verified, given),
		RecentActions:      recentItems,
		MemberSince:        profile.CreatedAt,
	}, nil
}

func (s *profileService) UpdateName(ctx context.Context, userID uuid.UUID, input profileDto.UpdateProfileInput) error {
	name := s.sanitizer.Sanitize(input.FullName)
	err := s.users.UpdateProfileName(ctx, userID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(404, "profile not found", apperror.ErrNotFound)
	}
	return err
}

// ComputeBadges derives the achievement set from profile totals. Badges
// are recomputed on read, never stored.
func ComputeBadges(profile *entity.Profile, totalActions, verifiedActions, verificationsGiven int64) []profileDto.Badge {
	return []profileDto.Badge{
		{
			ID:          "first-action",
			Name:        "First Steps",
			Description: "Submitted your first action",
			Earned:      totalActions >= 1,
		},
		{
			ID:          "10-actions",
			Name:        "Active Contributor",
			Description: "Submitted 10 actions",
			Earned:      totalActions >= 10,
		},
		{
			ID:          "verified-contributor",
			Name:        "Verified Contributor",
			Description: "5 verified actions",
			Earned:      verifiedActions >= 5,
		},
		{
			ID:          "100-tokens",
			Name:        "Token Collector",
			Description: "Earned 100 impact tokens",
			Earned:      profile.ImpactTokens >= 100,
		},
		{
			ID:          "trusted-member",
			Name:        "Trusted Member",
			Description: "Trust score above 70",
			Earned:      profile.TrustScore >= 70,
		},
		{
			ID:          "community-validator",
			Name:        "Community Validator",
			Description: "Verified 10 other actions",
			Earned:      verificationsGiven >= 10,
		},
	}
}
