package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"Replyradar/internal/model"
	"Replyradar/internal/repository"
	"context"
	"time"

	log "log/slog"

	"github.com/jinzhu/copier"
)

type TrackingService interface {
	TrackPost(ctx context.Context, userID uint64, in *dto.TrackPostDTO) error
	UntrackPost(ctx context.Context, userID, postID uint64) error
	ListTracked(ctx context.Context, userID uint64) ([]*dto.TrackedPostDTO, error)
	// CaptureSnapshot 入库一条互动快照。被采集频控跳过时返回 false，
	// HTTP 补录和 Kafka 消费走的是同一条路径
	CaptureSnapshot(ctx context.Context, in *dto.SnapshotDTO) (bool, error)
	UpdateAuthorStats(ctx context.Context, postID uint64, tweets24h, replies1h int, threadEngagement float64, active bool) error
}

type trackingServiceImpl struct {
	cfg          config.RealtimeConfig
	postRepo     repository.TrackedPostRepo
	snapshotRepo repository.SnapshotRepo
}

func NewTrackingService(
	cfg config.RealtimeConfig,
	postRepo repository.TrackedPostRepo,
	snapshotRepo repository.SnapshotRepo,
) TrackingService {
	return &trackingServiceImpl{
		cfg:          cfg,
		postRepo:     postRepo,
		snapshotRepo: snapshotRepo,
	}
}

func (s *trackingServiceImpl) TrackPost(ctx context.Context, userID uint64, in *dto.TrackPostDTO) error {
	if in.AuthorFollowers <= 0 {
		return ErrFollowersInvalid
	}

	existing, err := s.postRepo.Get(ctx, in.PostID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", in.PostID)
		return UnExpectedError
	}
	if existing != nil {
		return ErrPostAlreadyTracked
	}

	post := &model.TrackedPost{
		ID:                     in.PostID,
		UserID:                 userID,
		AuthorHandle:           in.AuthorHandle,
		AuthorFollowers:        in.AuthorFollowers,
		Content:                in.Content,
		PostedAt:               in.PostedAt,
		AuthorTweets24h:        in.AuthorTweets24h,
		AuthorReplies1h:        in.AuthorReplies1h,
		AuthorThreadEngagement: in.AuthorThreadEngagement,
		AuthorActive:           in.AuthorActive,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		log.ErrorContext(ctx, "追踪帖子落库失败", "err", err, "post_id", in.PostID)
		return UnExpectedError
	}
	return nil
}

// UntrackPost 软删除，历史快照与评分保留
func (s *trackingServiceImpl) UntrackPost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", postID)
		return UnExpectedError
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}

	if err := s.postRepo.Untrack(ctx, userID, postID); err != nil {
		log.ErrorContext(ctx, "取消追踪失败", "err", err, "post_id", postID)
		return UnExpectedError
	}
	return nil
}

func (s *trackingServiceImpl) ListTracked(ctx context.Context, userID uint64) ([]*dto.TrackedPostDTO, error) {
	posts, err := s.postRepo.ListByUser(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪列表失败", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}

	out := make([]*dto.TrackedPostDTO, 0, len(posts))
	for _, post := range posts {
		item := &dto.TrackedPostDTO{}
		_ = copier.Copy(item, post)
		out = append(out, item)
	}
	return out, nil
}

func (s *trackingServiceImpl) CaptureSnapshot(ctx context.Context, in *dto.SnapshotDTO) (bool, error) {
	if in.Likes < 0 || in.Retweets < 0 || in.Replies < 0 || in.Quotes < 0 {
		return false, ErrNegativeCounter
	}
	if in.Impressions != nil && *in.Impressions < 0 {
		return false, ErrNegativeCounter
	}

	post, err := s.postRepo.Get(ctx, in.PostID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", in.PostID)
		return false, UnExpectedError
	}
	if post == nil {
		return false, ErrPostNotFound
	}

	latest, err := s.snapshotRepo.Latest(ctx, in.PostID)
	if err != nil {
		log.ErrorContext(ctx, "查询最新快照失败", "err", err, "post_id", in.PostID)
		return false, UnExpectedError
	}
	if latest != nil {
		if !in.CapturedAt.After(latest.CapturedAt) {
			return false, ErrSnapshotOutOfOrder
		}
		// 采集频控：距上一条不足间隔时静默跳过，不算错误
		interval := time.Duration(s.cfg.CaptureIntervalMin) * time.Minute
		if in.CapturedAt.Sub(latest.CapturedAt) < interval {
			return false, nil
		}
	}

	snapshot := &model.EngagementSnapshot{
		PostID:      in.PostID,
		CapturedAt:  in.CapturedAt,
		Likes:       in.Likes,
		Retweets:    in.Retweets,
		Replies:     in.Replies,
		Quotes:      in.Quotes,
		Impressions: in.Impressions,
	}
	if err := s.snapshotRepo.Append(ctx, snapshot); err != nil {
		log.ErrorContext(ctx, "快照落库失败", "err", err, "post_id", in.PostID)
		return false, UnExpectedError
	}
	return true, nil
}

// UpdateAuthorStats 采集侧随快照刷新作者近况
func (s *trackingServiceImpl) UpdateAuthorStats(ctx context.Context, postID uint64, tweets24h, replies1h int, threadEngagement float64, active bool) error {
	return s.postRepo.UpdateAuthorStats(ctx, postID, map[string]interface{}{
		"author_tweets_24h":        tweets24h,
		"author_replies_1h":        replies1h,
		"author_thread_engagement": threadEngagement,
		"author_active":            active,
	})
}
