package job

import (
	"Replyradar/internal/pkg/consts"
	"Replyradar/internal/pkg/logger"
	"Replyradar/internal/pkg/redis"
	"Replyradar/internal/repository"
	"Replyradar/internal/service"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AlertSweepJob 周期扫描所有配置了偏好的用户，为其追踪的帖子尝试生成告警。
// 门禁逻辑都在 AlertService 内，这里只负责遍历
type AlertSweepJob struct {
	alertSvc  service.AlertService
	prefsRepo repository.PreferencesRepo
	postRepo  repository.TrackedPostRepo
}

func NewAlertSweepJob(
	alertSvc service.AlertService,
	prefsRepo repository.PreferencesRepo,
	postRepo repository.TrackedPostRepo,
) *AlertSweepJob {
	return &AlertSweepJob{
		alertSvc:  alertSvc,
		prefsRepo: prefsRepo,
		postRepo:  postRepo,
	}
}

func (s *AlertSweepJob) Run() {
	traceID := "job-alert-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	userIDs, err := s.prefsRepo.ListUserIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "读取偏好用户列表失败", "err", err)
		return
	}

	created := 0
	for _, uid := range userIDs {
		posts, err := s.postRepo.ListByUser(ctx, uid)
		if err != nil {
			log.ErrorContext(ctx, "读取追踪列表失败", "uid", uid, "err", err)
			continue
		}

		for _, post := range posts {
			alert, reason, err := s.alertSvc.GenerateAlert(ctx, uid, post.ID)
			if err != nil {
				log.ErrorContext(ctx, "生成告警失败", "uid", uid, "post_id", post.ID, "err", err)
				continue
			}
			if alert == nil {
				log.DebugContext(ctx, "告警被门禁拦下", "uid", uid, "post_id", post.ID, "reason", reason)
				continue
			}

			created++
			dayKey := consts.AlertDailyCountKey + strconv.FormatUint(uid, 10) + ":" + time.Now().Format("20060102")
			if _, err := redis.IncrWithExpire(ctx, dayKey, consts.AlertCountTTL); err != nil {
				log.WarnContext(ctx, "告警日计数刷新失败", "uid", uid, "err", err)
			}
		}
	}

	if created > 0 {
		log.InfoContext(ctx, "告警扫描完成", "user_count", len(userIDs), "created", created)
	}
}
