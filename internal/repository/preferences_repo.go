package repository

import (
	"Replyradar/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferencesRepo interface {
	Get(ctx context.Context, userID uint64) (*model.UserPreferences, error)
	Upsert(ctx context.Context, prefs *model.UserPreferences) error
	ListUserIDs(ctx context.Context) ([]uint64, error)
}

type preferencesRepoImpl struct {
	db *gorm.DB
}

func NewPreferencesRepo(db *gorm.DB) PreferencesRepo {
	return &preferencesRepoImpl{db: db}
}

func (r *preferencesRepoImpl) Get(ctx context.Context, userID uint64) (*model.UserPreferences, error) {
	var prefs model.UserPreferences
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&prefs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prefs, nil
}

func (r *preferencesRepoImpl) Upsert(ctx context.Context, prefs *model.UserPreferences) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"max_alerts_per_day",
			"time_window_start",
			"time_window_end",
			"webhook_url",
			"updated_at",
		}),
	}).Create(prefs).Error
}

// ListUserIDs 告警巡检任务遍历所有已配置偏好的用户
func (r *preferencesRepoImpl) ListUserIDs(ctx context.Context) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := r.db.WithContext(ctx).
		Model(&model.UserPreferences{}).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
