package repository

import (
	"Replyradar/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningRepo interface {
	Get(ctx context.Context, userID uint64) (*model.UserLearning, error)
	Upsert(ctx context.Context, data *model.UserLearning) error
}

type learningRepoImpl struct {
	db *gorm.DB
}

func NewLearningRepo(db *gorm.DB) LearningRepo {
	return &learningRepoImpl{db: db}
}

func (r *learningRepoImpl) Get(ctx context.Context, userID uint64) (*model.UserLearning, error) {
	var data model.UserLearning
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &data, nil
}

// Upsert 学习档案为读改写更新，调用方必须按用户串行
func (r *learningRepoImpl) Upsert(ctx context.Context, data *model.UserLearning) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"best_authors",
			"best_topics",
			"best_reply_styles",
			"best_posting_hours",
			"avg_half_life",
			"avg_revival_success",
			"total_replies",
			"successful_replies",
			"avg_impressions_gained",
			"updated_at",
		}),
	}).Create(data).Error
}
