package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	notifService "github.com/quantummesh/impactview/internal/modules/notification/service"
	searchService "github.com/quantummesh/impactview/internal/modules/search/service"
	"github.com/quantummesh/impactview/internal/modules/trust"
	"github.com/quantummesh/impactview/pkg/apperror"
)

// Result is the full outcome of one scoring run: the assessment that was
// written onto the action plus the profile totals after the trust update.
type Result struct {
	ActionID   uuid.UUID          `json:"action_id"`
	Assessment Assessment         `json:"analysis"`
	Profile    trust.UpdateResult `json:"profile"`
}

type Service interface {
	// AnalyzeAction runs the scoring pipeline for one action: oracle
	// assessment, evaluation, then the action update and the submitter's
	// trust update committed in a single transaction.
	AnalyzeAction(ctx context.Context, actionID uuid.UUID) (*Result, error)
}

type service struct {
	db       *gorm.DB
	actions  actionRepo.ActionRepository
	oracle   Oracle
	trust    trust.Service
	notifier notifService.NotificationService
	search   searchService.SearchService
}

func NewService(
	db *gorm.DB,
	actions actionRepo.ActionRepository,
	oracle Oracle,
	trustSvc trust.Service,
	notifier notifService.NotificationService,
	search searchService.SearchService,
) Service {
	return &service{
		db:       db,
		actions:  actions,
		oracle:   oracle,
		trust:    trustSvc,
		notifier: notifier,
		search:   search,
	}
}

func (s *service) AnalyzeAction(ctx context.Context, actionID uuid.UUID) (*Result, error) {
	action, err := s.actions.FindByID(ctx, actionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(404, "action not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	req := AssessmentRequest{
		Description: action.Description,
		HasImage:    action.ImageURL != nil,
	}
	if action.LocationName != nil {
		req.LocationName = *action.LocationName
	}

	raw, err := s.oracle.Assess(ctx, req)
	if err != nil {
		// Oracle failures surface to the caller untouched; the action
		// stays pending and can be re-analyzed later.
		return nil, err
	}

	assessment := Evaluate(raw, req.HasImage, req.LocationName != "")

	var profileResult *trust.UpdateResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.actions.UpdateScoresTx(tx, action.ID, actionRepo.ScoreUpdate{
			SentimentScore: assessment.SentimentScore,
			RelevanceScore: assessment.RelevanceScore,
			QualityScore:   assessment.QualityScore,
			Feedback:       assessment.Feedback,
			TokensEarned:   assessment.TokensEarned,
			Status:         assessment.Status,
		}); err != nil {
			return err
		}

		var txErr error
		profileResult, txErr = s.trust.ApplyTx(tx, trust.UpdateInput{
			UserID:         action.UserID,
			QualityScore:   assessment.QualityScore,
			SentimentScore: assessment.SentimentScore,
			RelevanceScore: assessment.RelevanceScore,
			ImageProvided:  req.HasImage,
			TokensEarned:   assessment.TokensEarned,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.afterScoring(action, assessment, profileResult)

	return &Result{
		ActionID:   action.ID,
		Assessment: assessment,
		Profile:    *profileResult,
	}, nil
}

// afterScoring runs the non-transactional side effects. Failures here are
// logged and swallowed, the scoring itself has already committed.
func (s *service) afterScoring(action *entity.Action, assessment Assessment, profile *trust.UpdateResult) {
	action.SentimentScore = &assessment.SentimentScore
	action.RelevanceScore = &assessment.RelevanceScore
	action.QualityScore = &assessment.QualityScore
	action.AIFeedback = &assessment.Feedback
	action.TokensEarned = &assessment.TokensEarned
	action.Status = assessment.Status

	if s.search != nil {
		if err := s.search.IndexAction(action); err != nil {
			log.Printf("Failed to index action %s: %v", action.ID, err)
		}
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("Your action was scored: %d tokens earned (trust %+d)",
			assessment.TokensEarned, profile.TrustScoreDelta)
		notification := &entity.Notification{
			UserID:     action.UserID,
			EntityID:   action.ID,
			EntityType: "action",
			Type:       "action_scored",
			Message:    msg,
		}
		if err := s.notifier.CreateNotification(context.Background(), notification); err != nil {
			log.Printf("Failed to create scoring notification: %v", err)
		}
	}
}
