package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
)

type VerificationRepository interface {
	// Toggle returns (oldType, newType): same type again removes the row,
	// a different type replaces it, no prior row creates one.
	Toggle(ctx context.Context, verification *entity.ActionVerification) (string, string, error)
	GetUserVerification(ctx context.Context, userID uuid.UUID, actionID uuid.UUID) (string, error)
	CountByAction(ctx context.Context, actionID uuid.UUID) (map[string]int64, error)
	CountGivenBy(ctx context.Context, userID uuid.UUID) (int64, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Toggle(ctx context.Context, verification *entity.ActionVerification) (string, string, error) {
	// Find with a slice avoids "record not found" log noise from First()
	var existing []entity.ActionVerification
	err := r.db.WithContext(ctx).
		Where("action_id = ? AND verified_by = ?", verification.ActionID, verification.VerifiedBy).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return "", "", err
	}

	if len(existing) > 0 {
		record := existing[0]
		oldType := record.VerificationType

		if record.VerificationType == verification.VerificationType {
			if err := r.db.WithContext(ctx).Delete(&record).Error; err != nil {
				return "", "", err
			}
			return oldType, "", nil
		}

		record.VerificationType = verification.VerificationType
		record.Comment = verification.Comment
		if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
			return "", "", err
		}
		return oldType, verification.VerificationType, nil
	}

	if err := r.db.WithContext(ctx).Create(verification).Error; err != nil {
		return "", "", err
	}
	return "", verification.VerificationType, nil
}

func (r *verificationRepository) GetUserVerification(ctx context.Context, userID uuid.UUID, actionID uuid.UUID) (string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&entity.ActionVerification{}).
		Where("verified_by = ? AND action_id = ?", userID, actionID).
		Pluck("verification_type", &types).Error
	if err != nil {
		return "", err
	}
	if len(types) == 0 {
		return "", nil
	}
	return types[0], nil
}

func (r *verificationRepository) CountByAction(ctx context.Context, actionID uuid.UUID) (map[string]int64, error) {
	type result struct {
		VerificationType string
		Count            int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&entity.ActionVerification{}).
		Select("verification_type, count(*) as count").
		Where("action_id = ?", actionID).
		Group("verification_type").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, res := range results {
		counts[res.VerificationType] = res.Count
	}
	return counts, nil
}

func (r *verificationRepository) CountGivenBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ActionVerification{}).
		Where("verified_by = ?", userID).
		Count(&count).Error
	return count, err
}
