package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/entity"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *entity.CommunityTopic) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CommunityTopic, error)
	List(ctx context.Context, status string, limit, offset int) ([]entity.CommunityTopic, int64, error)
	// ToggleVote flips the user's vote inside one transaction, keeping the
	// denormalized counters in step with the vote rows. Returns
	// (oldVote, newVote).
	ToggleVote(ctx context.Context, vote *entity.TopicVote) (string, string, error)
	GetUserVotes(ctx context.Context, userID uuid.UUID, topicIDs []uuid.UUID) (map[uuid.UUID]string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *entity.CommunityTopic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CommunityTopic, error) {
	var topic entity.CommunityTopic
	err := r.db.WithContext(ctx).
		Preload("Creator.Profile").
		First(&topic, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) List(ctx context.Context, status string, limit, offset int) ([]entity.CommunityTopic, int64, error) {
	var topics []entity.CommunityTopic
	var total int64

	q := r.db.WithContext(ctx).Model(&entity.CommunityTopic{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Creator.Profile").
		Order("(vote_count_up - vote_count_down) DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&topics).Error
	return topics, total, err
}

func (r *topicRepository) ToggleVote(ctx context.Context, vote *entity.TopicVote) (string, string, error) {
	var oldVote, newVote string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []entity.TopicVote
		if err := tx.Where("topic_id = ? AND user_id = ?", vote.TopicID, vote.UserID).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			record := existing[0]
			oldVote = record.VoteType

			if record.VoteType == vote.VoteType {
				// Same direction again removes the vote.
				if err := tx.Delete(&record).Error; err != nil {
					return err
				}
				newVote = ""
			} else {
				record.VoteType = vote.VoteType
				if err := tx.Save(&record).Error; err != nil {
					return err
				}
				newVote = vote.VoteType
			}
		} else {
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
			newVote = vote.VoteType
		}

		return applyCounterDelta(tx, vote.TopicID, oldVote, newVote)
	})
	if err != nil {
		return "", "", err
	}
	return oldVote, newVote, nil
}

func applyCounterDelta(tx *gorm.DB, topicID uuid.UUID, oldVote, newVote string) error {
	updates := map[string]interface{}{}

	switch oldVote {
	case entity.VoteUp:
		updates["vote_count_up"] = gorm.Expr("vote_count_up - 1")
	case entity.VoteDown:
		updates["vote_count_down"] = gorm.Expr("vote_count_down - 1")
	}
	switch newVote {
	case entity.VoteUp:
		updates["vote_count_up"] = gorm.Expr("vote_count_up + 1")
	case entity.VoteDown:
		updates["vote_count_down"] = gorm.Expr("vote_count_down + 1")
	}

	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&entity.CommunityTopic{}).
		Where("id = ?", topicID).
		Updates(updates).Error
}

func (r *topicRepository) GetUserVotes(ctx context.Context, userID uuid.UUID, topicIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	votes := make(map[uuid.UUID]string)
	if len(topicIDs) == 0 {
		return votes, nil
	}

	var rows []entity.TopicVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id IN ?", userID, topicIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		votes[row.TopicID] = row.VoteType
	}
	return votes, nil
}

func (r *topicRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.CommunityTopic{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
