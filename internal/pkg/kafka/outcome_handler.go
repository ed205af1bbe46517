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
	"github.com/google/uuid"
)

// OutcomeHandler 消费回复结果事件，驱动学习档案更新。
// 档案更新是读改写，按用户粒度加分布式锁串行化
type OutcomeHandler struct {
	learningSvc service.LearningService
}

func NewOutcomeHandler(learningSvc service.LearningService) *OutcomeHandler {
	return &OutcomeHandler{learningSvc: learningSvc}
}

func (h *OutcomeHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("outcome consumer setup")
	return nil
}

func (h *OutcomeHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("outcome consumer cleanup")
	return nil
}

func (h *OutcomeHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, h.handleMessage)
}

func (h *OutcomeHandler) handleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event OutcomeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.ErrorContext(ctx, "结果事件解析失败", "err", err)
		return nil
	}
	if event.UserID == 0 || event.PostID == 0 {
		return nil
	}

	lockKey := consts.LearningLock + strconv.FormatUint(event.UserID, 10)
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, lockKey, lockValue, consts.LearningLockTTL, 10)
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("学习锁竞争超时")
	}
	defer redis.UnLock(ctx, lockKey, lockValue)

	err = h.learningSvc.RecordOutcome(ctx, event.UserID, &dto.OutcomeDTO{
		PostID:        event.PostID,
		Label:         event.Label,
		Impressions:   event.Impressions,
		AuthorEngaged: event.AuthorEngaged,
		Follows:       event.Follows,
		ReplyStyle:    event.ReplyStyle,
		RepliedAt:     event.RepliedAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) ||
			errors.Is(err, service.ErrOutcomeLabelInvalid) ||
			errors.Is(err, service.ErrNegativeCounter) {
			log.WarnContext(ctx, "结果事件被拒绝", "post_id", event.PostID, "err", err)
			return nil
		}
		return err
	}
	return nil
}
