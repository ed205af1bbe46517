package repository

import (
	"Replyradar/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type TrackedPostRepo interface {
	Create(ctx context.Context, post *model.TrackedPost) error
	Get(ctx context.Context, postID uint64) (*model.TrackedPost, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.TrackedPost, error)
	UpdateAuthorStats(ctx context.Context, postID uint64, stats map[string]interface{}) error
	Untrack(ctx context.Context, userID uint64, postID uint64) error
}

type trackedPostRepoImpl struct {
	db *gorm.DB
}

func NewTrackedPostRepo(db *gorm.DB) TrackedPostRepo {
	return &trackedPostRepoImpl{db: db}
}

func (r *trackedPostRepoImpl) Create(ctx context.Context, post *model.TrackedPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Get 未找到返回 nil 而非错误
func (r *trackedPostRepoImpl) Get(ctx context.Context, postID uint64) (*model.TrackedPost, error) {
	var post model.TrackedPost
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = 0", postID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *trackedPostRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.TrackedPost, error) {
	posts := make([]*model.TrackedPost, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = 0", userID).
		Order("posted_at DESC").
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

// UpdateAuthorStats 采集侧刷新作者近况字段
func (r *trackedPostRepoImpl) UpdateAuthorStats(ctx context.Context, postID uint64, stats map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.TrackedPost{}).
		Where("id = ?", postID).
		Updates(stats).Error
}

// Untrack 软删除，保留历史快照与评分
func (r *trackedPostRepoImpl) Untrack(ctx context.Context, userID uint64, postID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.TrackedPost{}).
		Where("id = ? AND user_id = ?", postID, userID).
		Update("is_deleted", true).Error
}
