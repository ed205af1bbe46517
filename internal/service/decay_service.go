package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"Replyradar/internal/model"
	"Replyradar/internal/repository"
	"context"
	"fmt"
	"math"
	"time"

	log "log/slog"
)

type DecayService interface {
	ComputeDecay(ctx context.Context, postID uint64) (*dto.DecayDTO, error)
	GetDecay(ctx context.Context, postID uint64) (*dto.DecayDTO, error)
	PredictRevival(ctx context.Context, postID uint64, revivalType string) (*dto.RevivalPredictionDTO, error)
}

type decayServiceImpl struct {
	cfg          config.DecayConfig
	postRepo     repository.TrackedPostRepo
	snapshotRepo repository.SnapshotRepo
	decayRepo    repository.DecayRepo
}

func NewDecayService(
	cfg config.DecayConfig,
	postRepo repository.TrackedPostRepo,
	snapshotRepo repository.SnapshotRepo,
	decayRepo repository.DecayRepo,
) DecayService {
	return &decayServiceImpl{
		cfg:          cfg,
		postRepo:     postRepo,
		snapshotRepo: snapshotRepo,
		decayRepo:    decayRepo,
	}
}

// ComputeDecay 重算衰减指标并整条替换落库。
// 快照少于最低门槛时返回 nil 表示数据不足
func (s *decayServiceImpl) ComputeDecay(ctx context.Context, postID uint64) (*dto.DecayDTO, error) {
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	snapshots, err := s.snapshotRepo.ListSince(ctx, postID, nil)
	if err != nil {
		log.ErrorContext(ctx, "查询互动快照失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if len(snapshots) < s.cfg.MinSnapshots {
		return nil, nil
	}

	metric := s.buildMetric(post, snapshots, time.Now())
	if err := s.decayRepo.Upsert(ctx, metric); err != nil {
		log.ErrorContext(ctx, "衰减指标落库失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	return decayToDTO(metric), nil
}

func (s *decayServiceImpl) GetDecay(ctx context.Context, postID uint64) (*dto.DecayDTO, error) {
	metric, err := s.decayRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询衰减指标失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if metric == nil {
		return nil, nil
	}
	return decayToDTO(metric), nil
}

// PredictRevival 预测一次复活动作的成功概率。
// 还没有衰减指标时先现算一次，仍不足则返回 nil
func (s *decayServiceImpl) PredictRevival(ctx context.Context, postID uint64, revivalType string) (*dto.RevivalPredictionDTO, error) {
	multiplier, ok := revivalMultipliers[revivalType]
	if !ok {
		return nil, ErrRevivalTypeInvalid
	}

	metric, err := s.decayRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询衰减指标失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if metric == nil {
		if _, err := s.ComputeDecay(ctx, postID); err != nil {
			return nil, err
		}
		metric, err = s.decayRepo.Get(ctx, postID)
		if err != nil {
			log.ErrorContext(ctx, "查询衰减指标失败", "err", err, "post_id", postID)
			return nil, UnExpectedError
		}
		if metric == nil {
			return nil, nil
		}
	}

	probability := float64(metric.ReviveProbability) * multiplier
	if metric.Phase == model.PhaseDecay {
		probability *= 1.2
	}
	p := int(math.Min(100, math.Round(probability)))

	return &dto.RevivalPredictionDTO{
		PostID:      postID,
		RevivalType: revivalType,
		Probability: p,
		Reasoning: fmt.Sprintf(
			"Post is in %s phase with a %.0f-minute half-life; a %s has an estimated %d%% chance of restarting distribution.",
			metric.Phase, metric.HalfLife, revivalType, p,
		),
	}, nil
}

// 复活动作对基础复活概率的乘数
var revivalMultipliers = map[string]float64{
	model.RevivalTypeQuote:   1.3,
	model.RevivalTypeReply:   1.0,
	model.RevivalTypeRetweet: 0.7,
}

func (s *decayServiceImpl) buildMetric(
	post *model.TrackedPost,
	snapshots []*model.EngagementSnapshot,
	now time.Time,
) *model.DecayMetric {
	points := engagementCurve(snapshots)
	velocities := make([]float64, len(points))
	for i, p := range points {
		velocities[i] = p.Velocity
	}

	phase := determinePhase(velocities)
	halfLife := s.estimateHalfLife(points, velocities)
	lifespan := halfLife * phaseLifespanMultiplier(phase)
	decayVel := decayVelocity(velocities)

	totalWeighted := snapshots[len(snapshots)-1].WeightedEngagement()
	reviveProb := reviveProbability(phase, totalWeighted, decayVel)

	metric := &model.DecayMetric{
		PostID:            post.ID,
		HalfLife:          halfLife,
		ActiveLifespan:    lifespan,
		ReviveProbability: reviveProb,
		DecayVelocity:     decayVel,
		Phase:             phase,
		EngagementHistory: points,
		ComputedAt:        now,
	}

	if start, end := reviveWindow(post.PostedAt, lifespan, phase); start != nil {
		metric.ReviveWindowStart = start
		metric.ReviveWindowEnd = end
	}
	return metric
}

// engagementCurve 把快照序列转成加权互动速度曲线，点挂在区间的后一条快照上
func engagementCurve(snapshots []*model.EngagementSnapshot) []model.EngagementPoint {
	points := make([]model.EngagementPoint, 0, len(snapshots)-1)
	for i := 1; i < len(snapshots); i++ {
		minutes := snapshots[i].CapturedAt.Sub(snapshots[i-1].CapturedAt).Minutes()
		if minutes <= 0 {
			continue
		}
		weighted := snapshots[i].WeightedEngagement()
		points = append(points, model.EngagementPoint{
			CapturedAt: snapshots[i].CapturedAt,
			Weighted:   weighted,
			Velocity:   (weighted - snapshots[i-1].WeightedEngagement()) / minutes,
		})
	}
	return points
}

// determinePhase 按「最近均值 / 峰值」比值划分衰减阶段。
// 速度样本不足两个一律视为 GROWTH，峰值为 0 视为 FLATLINE
func determinePhase(velocities []float64) string {
	if len(velocities) < 2 {
		return model.PhaseGrowth
	}

	peak := velocities[0]
	for _, v := range velocities[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return model.PhaseFlatline
	}

	recent := velocities
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	var sum float64
	for _, v := range recent {
		sum += v
	}
	ratio := (sum / float64(len(recent))) / peak

	switch {
	case ratio >= 1.2:
		return model.PhaseGrowth
	case ratio >= 0.5:
		return model.PhasePeak
	case ratio >= 0.1:
		return model.PhaseDecay
	default:
		return model.PhaseFlatline
	}
}

// estimateHalfLife 峰值速度衰减到一半所需分钟数。
// 未观测到衰减且速度仍未回落时按病毒式传播给长半衰期，
// 否则按已观测的衰减斜率线性外推，上限 maxFactor 倍基准
func (s *decayServiceImpl) estimateHalfLife(points []model.EngagementPoint, velocities []float64) float64 {
	if len(velocities) == 0 {
		return s.cfg.BaseHalfLife
	}

	peakIdx := 0
	for i, v := range velocities {
		if v > velocities[peakIdx] {
			peakIdx = i
		}
	}
	peak := velocities[peakIdx]
	if peak <= 0 {
		return s.cfg.BaseHalfLife
	}

	for i := peakIdx + 1; i < len(velocities); i++ {
		if velocities[i] <= peak/2 {
			return points[i].CapturedAt.Sub(points[peakIdx].CapturedAt).Minutes()
		}
	}

	last := velocities[len(velocities)-1]
	if last >= peak {
		return s.cfg.BaseHalfLife * s.cfg.ViralMultiplier
	}

	elapsed := math.Max(points[len(points)-1].CapturedAt.Sub(points[peakIdx].CapturedAt).Minutes(), 1)
	decayPerMinute := (peak - last) / elapsed
	estimated := (peak / 2) / decayPerMinute
	return math.Min(estimated, s.cfg.MaxHalfLifeFactor*s.cfg.BaseHalfLife)
}

func phaseLifespanMultiplier(phase string) float64 {
	switch phase {
	case model.PhaseGrowth:
		return 4
	case model.PhasePeak:
		return 3
	case model.PhaseDecay:
		return 2
	default:
		return 1
	}
}

// decayVelocity 最近 5 个速度样本的平均每步跌幅，为正表示在衰减
func decayVelocity(velocities []float64) float64 {
	window := velocities
	if len(window) > 5 {
		window = window[len(window)-5:]
	}
	if len(window) < 2 {
		return 0
	}
	return (window[0] - window[len(window)-1]) / float64(len(window))
}

// reviveProbability 基础复活概率：阶段基准 + 体量与衰减速度修正
func reviveProbability(phase string, totalWeighted, decayVel float64) int {
	var base float64
	switch phase {
	case model.PhaseGrowth:
		base = 20
	case model.PhasePeak:
		base = 40
	case model.PhaseDecay:
		base = 70
	default:
		base = 30
	}

	switch {
	case totalWeighted > 1000:
		base += 15
	case totalWeighted > 100:
		base += 5
	case totalWeighted < 10:
		base -= 20
	}

	if decayVel > 5 {
		base -= 10
	} else if decayVel < 1 {
		base += 10
	}

	return int(math.Round(math.Max(0, math.Min(100, base))))
}

// reviveWindow 复活窗口。GROWTH 还不需要复活，FLATLINE 已经救不回来
func reviveWindow(postedAt time.Time, lifespan float64, phase string) (*time.Time, *time.Time) {
	if phase == model.PhaseGrowth || phase == model.PhaseFlatline {
		return nil, nil
	}
	start := postedAt.Add(time.Duration(lifespan * 0.3 * float64(time.Minute)))
	end := postedAt.Add(time.Duration(lifespan * 0.7 * float64(time.Minute)))
	return &start, &end
}

func decayToDTO(metric *model.DecayMetric) *dto.DecayDTO {
	out := &dto.DecayDTO{
		PostID:            metric.PostID,
		HalfLife:          metric.HalfLife,
		ActiveLifespan:    metric.ActiveLifespan,
		ReviveProbability: metric.ReviveProbability,
		DecayVelocity:     metric.DecayVelocity,
		CurrentPhase:      metric.Phase,
		ComputedAt:        metric.ComputedAt,
	}
	if metric.ReviveWindowStart != nil && metric.ReviveWindowEnd != nil {
		out.ReviveWindow = &dto.WindowDTO{
			Start: *metric.ReviveWindowStart,
			End:   *metric.ReviveWindowEnd,
		}
	}
	return out
}
