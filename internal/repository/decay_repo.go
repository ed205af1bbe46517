package repository

import (
	"Replyradar/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DecayRepo interface {
	Get(ctx context.Context, postID uint64) (*model.DecayMetric, error)
	Upsert(ctx context.Context, metric *model.DecayMetric) error
}

type decayRepoImpl struct {
	db *gorm.DB
}

func NewDecayRepo(db *gorm.DB) DecayRepo {
	return &decayRepoImpl{db: db}
}

func (r *decayRepoImpl) Get(ctx context.Context, postID uint64) (*model.DecayMetric, error) {
	var metric model.DecayMetric
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}

// Upsert 以 post_id 为键整条替换，不做字段级合并
func (r *decayRepoImpl) Upsert(ctx context.Context, metric *model.DecayMetric) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"half_life",
			"active_lifespan",
			"revive_probability",
			"decay_velocity",
			"phase",
			"revive_window_start",
			"revive_window_end",
			"engagement_history",
			"computed_at",
		}),
	}).Create(metric).Error
}
