package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackingFixture() (*trackingServiceImpl, *fakePostRepo, *fakeSnapshotRepo) {
	engine := config.DefaultEngineConfig()
	postRepo := newFakePostRepo()
	snapshotRepo := newFakeSnapshotRepo()
	svc := NewTrackingService(engine.Realtime, postRepo, snapshotRepo).(*trackingServiceImpl)
	return svc, postRepo, snapshotRepo
}

func trackIn(postID uint64, followers int) *dto.TrackPostDTO {
	return &dto.TrackPostDTO{
		PostID:          postID,
		AuthorHandle:    "techfounder",
		AuthorFollowers: followers,
		Content:         "Shipping a new #golang service",
		PostedAt:        time.Now().Add(-time.Hour),
	}
}

func snapshotIn(postID uint64, at time.Time, likes int) *dto.SnapshotDTO {
	return &dto.SnapshotDTO{
		PostID:     postID,
		CapturedAt: at,
		Likes:      likes,
	}
}

func TestTrackPost(t *testing.T) {
	svc, postRepo, _ := newTrackingFixture()

	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)))

	post, err := postRepo.Get(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, uint64(1), post.UserID)
	assert.Equal(t, "techfounder", post.AuthorHandle)
}

func TestTrackPostRejectsDuplicate(t *testing.T) {
	svc, _, _ := newTrackingFixture()

	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)))
	assert.ErrorIs(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)), ErrPostAlreadyTracked)
}

func TestTrackPostRejectsInvalidFollowers(t *testing.T) {
	svc, _, _ := newTrackingFixture()

	assert.ErrorIs(t, svc.TrackPost(context.Background(), 1, trackIn(5, 0)), ErrFollowersInvalid)
	assert.ErrorIs(t, svc.TrackPost(context.Background(), 1, trackIn(5, -3)), ErrFollowersInvalid)
}

func TestUntrackPostOwnership(t *testing.T) {
	svc, postRepo, _ := newTrackingFixture()
	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)))

	assert.ErrorIs(t, svc.UntrackPost(context.Background(), 2, 5), UnauthorizedError)
	require.NoError(t, svc.UntrackPost(context.Background(), 1, 5))

	// 软删除后再查不到
	post, err := postRepo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.ErrorIs(t, svc.UntrackPost(context.Background(), 1, 5), ErrPostNotFound)
}

func TestListTracked(t *testing.T) {
	svc, _, _ := newTrackingFixture()
	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)))
	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(6, 20000)))
	require.NoError(t, svc.TrackPost(context.Background(), 2, trackIn(7, 30000)))

	list, err := svc.ListTracked(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(5), list[0].ID)
	assert.Equal(t, uint64(6), list[1].ID)
}

func TestCaptureSnapshotMonotonic(t *testing.T) {
	svc, _, _ := newTrackingFixture()
	now := time.Now()
	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)))

	captured, err := svc.CaptureSnapshot(context.Background(), snapshotIn(5, now.Add(-20*time.Minute), 10))
	require.NoError(t, err)
	assert.True(t, captured)

	// 时间倒流的快照被拒
	_, err = svc.CaptureSnapshot(context.Background(), snapshotIn(5, now.Add(-30*time.Minute), 5))
	assert.ErrorIs(t, err, ErrSnapshotOutOfOrder)
}

func TestCaptureSnapshotThrottled(t *testing.T) {
	svc, _, snapshotRepo := newTrackingFixture()
	now := time.Now()
	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)))

	captured, err := svc.CaptureSnapshot(context.Background(), snapshotIn(5, now.Add(-10*time.Minute), 10))
	require.NoError(t, err)
	require.True(t, captured)

	// 距上一条不足采集间隔：静默跳过，不报错也不落库
	captured, err = svc.CaptureSnapshot(context.Background(), snapshotIn(5, now.Add(-10*time.Minute).Add(30*time.Second), 12))
	require.NoError(t, err)
	assert.False(t, captured)

	snapshots, err := snapshotRepo.ListSince(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestCaptureSnapshotValidation(t *testing.T) {
	svc, _, _ := newTrackingFixture()
	now := time.Now()

	in := snapshotIn(5, now, -1)
	_, err := svc.CaptureSnapshot(context.Background(), in)
	assert.ErrorIs(t, err, ErrNegativeCounter)

	_, err = svc.CaptureSnapshot(context.Background(), snapshotIn(42, now, 10))
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdateAuthorStats(t *testing.T) {
	svc, postRepo, _ := newTrackingFixture()
	require.NoError(t, svc.TrackPost(context.Background(), 1, trackIn(5, 10000)))

	require.NoError(t, svc.UpdateAuthorStats(context.Background(), 5, 12, 3, 42.5, true))

	post, err := postRepo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 12, post.AuthorTweets24h)
	assert.Equal(t, 3, post.AuthorReplies1h)
	assert.InDelta(t, 42.5, post.AuthorThreadEngagement, 1e-9)
	assert.True(t, post.AuthorActive)
}
