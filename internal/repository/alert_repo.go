package repository

import (
	"Replyradar/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AlertRepo interface {
	Create(ctx context.Context, alert *model.SmartAlert) error
	Get(ctx context.Context, alertID string) (*model.SmartAlert, error)
	ListActive(ctx context.Context, userID uint64, now time.Time) ([]*model.SmartAlert, error)
	Update(ctx context.Context, alertID string, patch map[string]interface{}) error
	CountToday(ctx context.Context, userID uint64, now time.Time) (int64, error)
	CountActive(ctx context.Context, userID uint64, now time.Time) (int64, error)
	ExistsActiveForPost(ctx context.Context, userID uint64, postID uint64, now time.Time) (bool, error)
}

type alertRepoImpl struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepo {
	return &alertRepoImpl{db: db}
}

func (r *alertRepoImpl) Create(ctx context.Context, alert *model.SmartAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepoImpl) Get(ctx context.Context, alertID string) (*model.SmartAlert, error) {
	var alert model.SmartAlert
	err := r.db.WithContext(ctx).
		Where("id = ?", alertID).
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// ListActive 过期告警读取时过滤掉，但不删除。排序在 Service 层按显式序值做
func (r *alertRepoImpl) ListActive(ctx context.Context, userID uint64, now time.Time) ([]*model.SmartAlert, error) {
	alerts := make([]*model.SmartAlert, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND dismissed = 0 AND acted_on = 0", userID).
		Where("expires_at IS NULL OR expires_at >= ?", now).
		Order("created_at DESC").
		Find(&alerts)
	if result.Error != nil {
		return nil, result.Error
	}
	return alerts, nil
}

func (r *alertRepoImpl) Update(ctx context.Context, alertID string, patch map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.SmartAlert{}).
		Where("id = ?", alertID).
		Updates(patch).Error
}

// CountToday 今日已创建告警数，Redis 计数不可用时的兜底口径
func (r *alertRepoImpl) CountToday(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SmartAlert{}).
		Where("user_id = ? AND created_at >= ?", userID, midnight).
		Count(&count).Error
	return count, err
}

// CountActive 未处理且未过期的告警数，用于并发上限控制
func (r *alertRepoImpl) CountActive(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SmartAlert{}).
		Where("user_id = ? AND dismissed = 0 AND acted_on = 0", userID).
		Where("expires_at IS NULL OR expires_at >= ?", now).
		Count(&count).Error
	return count, err
}

// ExistsActiveForPost 同帖去重：已有未解决告警则不再新建
func (r *alertRepoImpl) ExistsActiveForPost(ctx context.Context, userID uint64, postID uint64, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SmartAlert{}).
		Where("user_id = ? AND post_id = ? AND dismissed = 0", userID, postID).
		Where("expires_at IS NULL OR expires_at >= ?", now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
