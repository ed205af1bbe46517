package repository

import (
	"Replyradar/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ScoreRepo interface {
	Append(ctx context.Context, score *model.PostScore) error
	Latest(ctx context.Context, postID uint64) (*model.PostScore, error)
}

type scoreRepoImpl struct {
	db *gorm.DB
}

func NewScoreRepo(db *gorm.DB) ScoreRepo {
	return &scoreRepoImpl{db: db}
}

// Append 评分只追加，最新一条为准，历史留作审计
func (r *scoreRepoImpl) Append(ctx context.Context, score *model.PostScore) error {
	return r.db.WithContext(ctx).Create(score).Error
}

func (r *scoreRepoImpl) Latest(ctx context.Context, postID uint64) (*model.PostScore, error) {
	var score model.PostScore
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("computed_at DESC").
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &score, nil
}
