package job

import (
	"Replyradar/internal/pkg/consts"
	"Replyradar/internal/pkg/logger"
	"Replyradar/internal/pkg/redis"
	"Replyradar/internal/pkg/util"
	"Replyradar/internal/service"
	"context"
	log "log/slog"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ScoreRecomputeJob 消费脏帖集合，重算评分与衰减指标并刷新缓存
type ScoreRecomputeJob struct {
	scoringSvc service.ScoringService
	decaySvc   service.DecayService
}

func NewScoreRecomputeJob(scoringSvc service.ScoringService, decaySvc service.DecayService) *ScoreRecomputeJob {
	return &ScoreRecomputeJob{
		scoringSvc: scoringSvc,
		decaySvc:   decaySvc,
	}
}

func (s *ScoreRecomputeJob) Run() {
	traceID := "job-score-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.PostDirtyKey + ":processing"
	err := redis.Rename(ctx, consts.PostDirtyKey, processingKey)
	if err != nil {
		// 脏集合为空属常态，不打日志
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "读取脏帖集合失败", "err", err)
		return
	}

	postIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "脏帖集合成员格式异常", "err", err)
		return
	}

	recomputed := 0
	for _, pid := range postIDs {
		key := strconv.FormatUint(pid, 10)

		score, err := s.scoringSvc.ComputeScore(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "重算评分失败", "post_id", pid, "err", err)
			continue
		}
		if score != nil {
			if raw, err := json.Marshal(score); err == nil {
				if err := redis.SetWithExpiration(ctx, consts.PostScoreKey+key, raw, consts.ScoreCacheTTL); err != nil {
					log.WarnContext(ctx, "评分缓存刷新失败", "post_id", pid, "err", err)
				}
			}
		}

		decay, err := s.decaySvc.ComputeDecay(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "重算衰减指标失败", "post_id", pid, "err", err)
			continue
		}
		if decay != nil {
			if raw, err := json.Marshal(decay); err == nil {
				if err := redis.SetWithExpiration(ctx, consts.PostDecayKey+key, raw, consts.ScoreCacheTTL); err != nil {
					log.WarnContext(ctx, "衰减缓存刷新失败", "post_id", pid, "err", err)
				}
			}
		}
		recomputed++
	}

	if err := redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "删除处理中集合失败", "err", err)
	}

	log.InfoContext(ctx, "脏帖重算完成", "post_count", len(postIDs), "recomputed", recomputed)
}
