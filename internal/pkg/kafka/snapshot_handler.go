package kafka

import (
	"Replyradar/internal/api/dto"
	"Replyradar/internal/pkg/consts"
	"Replyradar/internal/pkg/redis"
	"Replyradar/internal/service"
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// SnapshotHandler 消费互动快照事件：入库、标脏、刷新作者近况
type SnapshotHandler struct {
	trackingSvc service.TrackingService
}

func NewSnapshotHandler(trackingSvc service.TrackingService) *SnapshotHandler {
	return &SnapshotHandler{trackingSvc: trackingSvc}
}

func (h *SnapshotHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("snapshot consumer setup")
	return nil
}

func (h *SnapshotHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("snapshot consumer cleanup")
	return nil
}

func (h *SnapshotHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, h.handleMessage)
}

func (h *SnapshotHandler) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event SnapshotEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.ErrorContext(ctx, "快照事件解析失败", "err", err)
		// 消息体坏了重试也没用，吞掉
		return nil
	}
	if event.PostID == 0 {
		return nil
	}

	captured, err := h.trackingSvc.CaptureSnapshot(ctx, &dto.SnapshotDTO{
		PostID:      event.PostID,
		CapturedAt:  event.CapturedAt,
		Likes:       event.Likes,
		Retweets:    event.Retweets,
		Replies:     event.Replies,
		Quotes:      event.Quotes,
		Impressions: event.Impressions,
	})
	if err != nil {
		// 业务性拒绝（未追踪、乱序、负数）不重试，其余错误交给重试机制
		if errors.Is(err, service.ErrPostNotFound) ||
			errors.Is(err, service.ErrSnapshotOutOfOrder) ||
			errors.Is(err, service.ErrNegativeCounter) {
			log.WarnContext(ctx, "快照事件被拒绝", "post_id", event.PostID, "err", err)
			return nil
		}
		return err
	}
	if !captured {
		return nil
	}

	key := strconv.FormatUint(event.PostID, 10)
	if err := redis.SAdd(ctx, consts.PostDirtyKey, key); err != nil {
		log.WarnContext(ctx, "标脏失败", "post_id", event.PostID, "err", err)
	}
	if err := redis.SetWithExpiration(ctx, consts.SnapshotLastCaptureKey+key, event.CapturedAt.Unix(), consts.ScoreCacheTTL); err != nil {
		log.WarnContext(ctx, "采集水位刷新失败", "post_id", event.PostID, "err", err)
	}

	if event.AuthorStats != nil {
		stats := event.AuthorStats
		if err := h.trackingSvc.UpdateAuthorStats(ctx, event.PostID,
			stats.Tweets24h, stats.Replies1h, stats.ThreadEngagement, stats.Active); err != nil {
			log.WarnContext(ctx, "作者近况刷新失败", "post_id", event.PostID, "err", err)
		}
	}
	return nil
}
