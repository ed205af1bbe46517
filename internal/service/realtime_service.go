package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"Replyradar/internal/model"
	"Replyradar/internal/pkg/util"
	"Replyradar/internal/repository"
	"context"
	"strings"
	"time"

	log "log/slog"
)

// 趋势取值
const (
	TrendAccelerating = "accelerating"
	TrendStable       = "stable"
	TrendDecelerating = "decelerating"

	SaturationFlooding = "flooding"
	SaturationSpiking  = "spiking"
	SaturationStable   = "stable"
)

type RealtimeService interface {
	ComputeRealtime(ctx context.Context, postID uint64, baseScore int) (*dto.RealtimeDTO, error)
}

type realtimeServiceImpl struct {
	cfg          config.RealtimeConfig
	snapshotRepo repository.SnapshotRepo
}

func NewRealtimeService(cfg config.RealtimeConfig, snapshotRepo repository.SnapshotRepo) RealtimeService {
	return &realtimeServiceImpl{cfg: cfg, snapshotRepo: snapshotRepo}
}

// ComputeRealtime 基于最近快照计算实时趋势并修正基础分。
// 快照不足两条时返回 nil 表示数据不足
func (s *realtimeServiceImpl) ComputeRealtime(ctx context.Context, postID uint64, baseScore int) (*dto.RealtimeDTO, error) {
	snapshots, err := s.snapshotRepo.ListSince(ctx, postID, nil)
	if err != nil {
		log.ErrorContext(ctx, "查询互动快照失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if len(snapshots) < 2 {
		return nil, nil
	}
	return s.buildRealtime(snapshots, baseScore), nil
}

func (s *realtimeServiceImpl) buildRealtime(snapshots []*model.EngagementSnapshot, baseScore int) *dto.RealtimeDTO {
	window := trailingWindow(snapshots, s.cfg.WindowMinutes)

	velocities := pairVelocities(window, func(sn *model.EngagementSnapshot) float64 {
		return sn.WeightedEngagement()
	})
	replyVelocities := pairVelocities(window, func(sn *model.EngagementSnapshot) float64 {
		return float64(sn.Replies)
	})

	current, previous := lastTwo(velocities)
	// 只有一段速度时没有可比的前值，加速度记 0
	accel := 0.0
	if len(velocities) >= 2 {
		accel = acceleration(current, previous)
	}
	trend := s.classifyTrend(accel)

	replyVelocity := 0.0
	if len(replyVelocities) > 0 {
		replyVelocity = replyVelocities[len(replyVelocities)-1]
	}
	saturationTrend := s.classifySaturation(replyVelocity, replyVelocities)

	replyCount := snapshots[len(snapshots)-1].Replies
	adjustment, notes := scoreAdjustment(trend, saturationTrend, current, replyCount)

	return &dto.RealtimeDTO{
		CurrentVelocity:  current,
		PreviousVelocity: previous,
		Acceleration:     accel,
		Trend:            trend,
		ReplyVelocity:    replyVelocity,
		SaturationTrend:  saturationTrend,
		ScoreAdjustment:  adjustment,
		AdjustedScore:    util.ClampInt(baseScore+adjustment, 0, 100),
		Notes:            notes,
	}
}

// trailingWindow 取末尾滑动窗口内的快照，窗口里凑不够两条就退回最后两条
func trailingWindow(snapshots []*model.EngagementSnapshot, windowMinutes int) []*model.EngagementSnapshot {
	latest := snapshots[len(snapshots)-1].CapturedAt
	cutoff := latest.Add(-time.Duration(windowMinutes) * time.Minute)

	start := len(snapshots)
	for i, sn := range snapshots {
		if !sn.CapturedAt.Before(cutoff) {
			start = i
			break
		}
	}
	if len(snapshots)-start < 2 {
		start = len(snapshots) - 2
	}
	return snapshots[start:]
}

// pairVelocities 相邻快照两两求每分钟增速，时间间隔非正的对直接跳过
func pairVelocities(snapshots []*model.EngagementSnapshot, value func(*model.EngagementSnapshot) float64) []float64 {
	velocities := make([]float64, 0, len(snapshots))
	for i := 1; i < len(snapshots); i++ {
		minutes := snapshots[i].CapturedAt.Sub(snapshots[i-1].CapturedAt).Minutes()
		if minutes <= 0 {
			continue
		}
		velocities = append(velocities, (value(snapshots[i])-value(snapshots[i-1]))/minutes)
	}
	return velocities
}

func lastTwo(velocities []float64) (current, previous float64) {
	if len(velocities) > 0 {
		current = velocities[len(velocities)-1]
	}
	if len(velocities) > 1 {
		previous = velocities[len(velocities)-2]
	}
	return current, previous
}

// acceleration 相对加速度。前一速度为 0 时：当前为正记 1，否则记 0
func acceleration(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 1
		}
		return 0
	}
	return (current - previous) / previous
}

func (s *realtimeServiceImpl) classifyTrend(accel float64) string {
	switch {
	case accel >= s.cfg.AccelThreshold-1:
		return TrendAccelerating
	case accel <= s.cfg.DecelThreshold-1:
		return TrendDecelerating
	default:
		return TrendStable
	}
}

// classifySaturation flooding 优先于 spiking：绝对阈值比相对激增更危险
func (s *realtimeServiceImpl) classifySaturation(replyVelocity float64, replyVelocities []float64) string {
	if replyVelocity >= s.cfg.FloodReplyVelocity {
		return SaturationFlooding
	}
	if len(replyVelocities) > 1 {
		var sum float64
		for _, v := range replyVelocities[:len(replyVelocities)-1] {
			sum += v
		}
		avg := sum / float64(len(replyVelocities)-1)
		if avg > 0 && replyVelocity/avg >= s.cfg.SpikeRatio {
			return SaturationSpiking
		}
	}
	return SaturationStable
}

// scoreAdjustment 趋势对基础分的加减分及人读备注
func scoreAdjustment(trend, saturationTrend string, currentVelocity float64, replyCount int) (int, string) {
	delta := 0
	notes := make([]string, 0, 4)

	switch trend {
	case TrendAccelerating:
		delta += 5
		notes = append(notes, "engagement is accelerating")
	case TrendDecelerating:
		delta -= 3
		notes = append(notes, "engagement is slowing down")
	}

	switch {
	case currentVelocity >= 10:
		delta += 8
		notes = append(notes, "very high engagement velocity")
	case currentVelocity >= 5:
		delta += 4
		notes = append(notes, "high engagement velocity")
	}

	switch saturationTrend {
	case SaturationFlooding:
		delta -= 15
		notes = append(notes, "replies are flooding in")
	case SaturationSpiking:
		delta -= 8
		notes = append(notes, "reply volume is spiking")
	}

	switch {
	case replyCount > 100:
		delta -= 10
		notes = append(notes, "reply section is heavily crowded")
	case replyCount > 50:
		delta -= 5
		notes = append(notes, "reply section is getting crowded")
	case replyCount < 10:
		delta += 5
		notes = append(notes, "early-mover advantage in the replies")
	}

	if len(notes) == 0 {
		return delta, "No significant realtime changes"
	}
	return delta, strings.Join(notes, "; ")
}
