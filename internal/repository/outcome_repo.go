package repository

import (
	"Replyradar/internal/model"
	"context"

	"gorm.io/gorm"
)

type OutcomeRepo interface {
	Create(ctx context.Context, outcome *model.ReplyOutcome) error
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*model.ReplyOutcome, error)
}

type outcomeRepoImpl struct {
	db *gorm.DB
}

func NewOutcomeRepo(db *gorm.DB) OutcomeRepo {
	return &outcomeRepoImpl{db: db}
}

func (r *outcomeRepoImpl) Create(ctx context.Context, outcome *model.ReplyOutcome) error {
	return r.db.WithContext(ctx).Create(outcome).Error
}

func (r *outcomeRepoImpl) ListByUser(ctx context.Context, userID uint64, limit int) ([]*model.ReplyOutcome, error) {
	outcomes := make([]*model.ReplyOutcome, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("replied_at DESC").
		Limit(limit).
		Find(&outcomes)
	if result.Error != nil {
		return nil, result.Error
	}
	return outcomes, nil
}
