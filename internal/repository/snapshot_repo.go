package repository

import (
	"Replyradar/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type SnapshotRepo interface {
	Append(ctx context.Context, snapshot *model.EngagementSnapshot) error
	ListSince(ctx context.Context, postID uint64, since *time.Time) ([]*model.EngagementSnapshot, error)
	Latest(ctx context.Context, postID uint64) (*model.EngagementSnapshot, error)
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return &snapshotRepoImpl{db: db}
}

func (r *snapshotRepoImpl) Append(ctx context.Context, snapshot *model.EngagementSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// ListSince 按采集时间升序返回。since 为 nil 时返回全部
func (r *snapshotRepoImpl) ListSince(ctx context.Context, postID uint64, since *time.Time) ([]*model.EngagementSnapshot, error) {
	snapshots := make([]*model.EngagementSnapshot, 0)
	query := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if since != nil {
		query = query.Where("captured_at >= ?", *since)
	}
	result := query.Order("captured_at ASC").Find(&snapshots)
	if result.Error != nil {
		return nil, result.Error
	}
	return snapshots, nil
}

func (r *snapshotRepoImpl) Latest(ctx context.Context, postID uint64) (*model.EngagementSnapshot, error) {
	var snapshot model.EngagementSnapshot
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("captured_at DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}
