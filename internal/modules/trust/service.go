package trust

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quantummesh/impactview/internal/entity"
	"github.com/quantummesh/impactview/pkg/apperror"
)

// UpdateInput is the scoring pipeline's hand-off to the trust updater.
type UpdateInput struct {
	UserID         uuid.UUID `json:"userId"`
	QualityScore   float64   `json:"qualityScore"`
	SentimentScore float64   `json:"sentimentScore"`
	RelevanceScore float64   `json:"relevanceScore"`
	ImageProvided  bool      `json:"imageProvided"`
	TokensEarned   int       `json:"tokensEarned"`
}

type UpdateResult struct {
	TrustScore      int `json:"trust_score"`
	TrustScoreDelta int `json:"trust_score_delta"`
	ImpactTokens    int `json:"impact_tokens"`
	TokensEarned    int `json:"tokens_earned"`
}

type Service interface {
	// Apply updates the user's profile in its own transaction.
	Apply(ctx context.Context, input UpdateInput) (*UpdateResult, error)
	// ApplyTx updates the user's profile on an existing transaction, so
	// the caller can commit it together with the action's score fields.
	ApplyTx(tx *gorm.DB, input UpdateInput) (*UpdateResult, error)
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

func (s *service) Apply(ctx context.Context, input UpdateInput) (*UpdateResult, error) {
	var result *UpdateResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.ApplyTx(tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ApplyTx(tx *gorm.DB, input UpdateInput) (*UpdateResult, error) {
	delta := DeltaFor(TotalScore(
		input.QualityScore,
		input.SentimentScore,
		input.RelevanceScore,
		input.ImageProvided,
	))

	// Single atomic statement: the clamp and both increments happen in the
	// database, so concurrent updates can't lose each other's writes.
	var profile entity.Profile
	res := tx.Model(&profile).
		Clauses(clause.Returning{Columns: []clause.Column{
			{Name: "trust_score"},
			{Name: "impact_tokens"},
		}}).
		Where("user_id = ?", input.UserID).
		Updates(map[string]interface{}{
			"trust_score":   gorm.Expr("GREATEST(?, LEAST(?, trust_score + ?))", MinTrustScore, MaxTrustScore, delta),
			"impact_tokens": gorm.Expr("impact_tokens + ?", input.TokensEarned),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.New(404, "profile not found", apperror.ErrNotFound)
	}

	return &UpdateResult{
		TrustScore:      profile.TrustScore,
		TrustScoreDelta: delta,
		ImpactTokens:    profile.ImpactTokens,
		TokensEarned:    input.TokensEarned,
	}, nil
}
