package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"Replyradar/internal/model"
	"Replyradar/internal/pkg/util"
	"Replyradar/internal/repository"
	"context"
	"fmt"
	"math"

	log "log/slog"
)

type PredictionService interface {
	PredictOutcome(ctx context.Context, userID, postID uint64) (*dto.OutcomePredictionDTO, error)
}

type predictionServiceImpl struct {
	cfg          config.PredictionConfig
	postRepo     repository.TrackedPostRepo
	scoreRepo    repository.ScoreRepo
	decayRepo    repository.DecayRepo
	learningRepo repository.LearningRepo
}

func NewPredictionService(
	cfg config.PredictionConfig,
	postRepo repository.TrackedPostRepo,
	scoreRepo repository.ScoreRepo,
	decayRepo repository.DecayRepo,
	learningRepo repository.LearningRepo,
) PredictionService {
	return &predictionServiceImpl{
		cfg:          cfg,
		postRepo:     postRepo,
		scoreRepo:    scoreRepo,
		decayRepo:    decayRepo,
		learningRepo: learningRepo,
	}
}

// PredictOutcome 预测「现在回复这条帖子」的结果，每次现算不落库。
// 没有评分时返回 nil 表示数据不足
func (s *predictionServiceImpl) PredictOutcome(ctx context.Context, userID, postID uint64) (*dto.OutcomePredictionDTO, error) {
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	score, err := s.scoreRepo.Latest(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询最新评分失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if score == nil {
		return nil, nil
	}

	decay, err := s.decayRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询衰减指标失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}

	learning, err := s.learningRepo.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "查询学习档案失败", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}

	return s.buildPrediction(post, score, decay, learning), nil
}

func (s *predictionServiceImpl) buildPrediction(
	post *model.TrackedPost,
	score *model.PostScore,
	decay *model.DecayMetric,
	learning *model.UserLearning,
) *dto.OutcomePredictionDTO {
	impMin, impMax := s.predictImpressions(post, score, decay, learning)
	authorProb := s.predictAuthorEngagement(post, score, learning)
	confidence := predictionConfidence(learning, decay != nil)

	clickMin := int(math.Round(float64(impMin) * s.cfg.ProfileClickRate))
	clickMax := int(math.Round(float64(impMax) * s.cfg.ProfileClickRate * 1.5))

	followRate := s.cfg.FollowRate
	if score.FinalScore >= 85 {
		followRate *= 2
	} else if score.FinalScore >= 70 {
		followRate *= 1.5
	}
	followMin := int(math.Round(float64(clickMin) * followRate))
	followMax := int(math.Round(float64(clickMax) * followRate))

	return &dto.OutcomePredictionDTO{
		PostID: post.ID,
		Impressions: dto.ImpressionForecastDTO{
			Min:        impMin,
			Max:        impMax,
			Confidence: confidence,
		},
		AuthorEngagement: dto.AuthorEngagementDTO{
			Probability: authorProb,
			Confidence:  confidence,
		},
		ProfileClicks: dto.RangeDTO{Min: clickMin, Max: clickMax},
		Follows:       dto.RangeDTO{Min: followMin, Max: followMax},
		Reasoning:     buildReasoning(score, decay, impMax, authorProb),
	}
}

// predictImpressions 预估回复曝光区间：基准可达量 × 一串乘数，±30% 给区间
func (s *predictionServiceImpl) predictImpressions(
	post *model.TrackedPost,
	score *model.PostScore,
	decay *model.DecayMetric,
	learning *model.UserLearning,
) (int, int) {
	base := float64(post.AuthorFollowers) * s.cfg.BaseReachRate

	velocityMult := 1.0
	switch {
	case score.Velocity.GrowthRate > 10:
		velocityMult = 3.0
	case score.Velocity.GrowthRate > 5:
		velocityMult = 2.0
	case score.Velocity.GrowthRate > 2:
		velocityMult = 1.5
	}

	decayMult := 1.0
	if decay != nil {
		switch decay.Phase {
		case model.PhaseDecay:
			decayMult = 0.7
		case model.PhaseFlatline:
			decayMult = 0.5
		}
	}

	scoreMult := 1.0
	switch {
	case score.FinalScore >= 85:
		scoreMult = 1.5
	case score.FinalScore >= 70:
		scoreMult = 1.2
	}

	saturationMult := 1.0
	switch {
	case score.Saturation.ReplyCount > 50:
		saturationMult = 0.7
	case score.Saturation.ReplyCount > 20:
		saturationMult = 0.85
	}

	userMult := 1.0
	if learning != nil && learning.AvgImpressionsGained > 0 {
		userMult = util.Clamp(learning.AvgImpressionsGained/1000, 0.5, 2.0)
	}

	predicted := base * velocityMult * decayMult * scoreMult * saturationMult * userMult
	return int(math.Round(predicted * 0.7)), int(math.Round(predicted * 1.3))
}

// predictAuthorEngagement 作者回应概率（百分比），夹取在 [5, 80]。
// 对这位作者有过任何实测历史时整体替换为实测转化率
func (s *predictionServiceImpl) predictAuthorEngagement(
	post *model.TrackedPost,
	score *model.PostScore,
	learning *model.UserLearning,
) float64 {
	if learning != nil {
		for _, a := range learning.BestAuthors {
			if a.AuthorHandle == post.AuthorHandle && a.SampleSize > 0 {
				return util.Clamp(a.ConversionRate*100, 5, 80)
			}
		}
	}

	probability := 15.0
	if post.AuthorActive {
		probability += 25
	}

	switch {
	case post.AuthorFollowers < 10000:
		probability *= 1.5
	case post.AuthorFollowers < 50000:
		probability *= 1.2
	case post.AuthorFollowers > 500000:
		probability *= 0.5
	}

	switch {
	case score.Saturation.ReplyCount < 5:
		probability *= 1.5
	case score.Saturation.ReplyCount > 30:
		probability *= 0.6
	}

	return util.Clamp(probability, 5, 80)
}

// predictionConfidence 置信度随学习样本量增长，有衰减数据再加一档
func predictionConfidence(learning *model.UserLearning, hasDecay bool) float64 {
	confidence := 0.5
	if learning != nil {
		switch {
		case learning.TotalReplies >= 50:
			confidence = 0.85
		case learning.TotalReplies >= 20:
			confidence = 0.7
		default:
			confidence = 0.5 + 0.2*float64(learning.TotalReplies)/20
		}
	}
	if hasDecay {
		confidence += 0.1
	}
	return math.Min(0.95, confidence)
}

// buildReasoning 只输出条件成立的解释句，顺序固定
func buildReasoning(score *model.PostScore, decay *model.DecayMetric, impMax int, authorProb float64) []string {
	reasons := make([]string, 0, 5)

	if impMax >= 10000 {
		reasons = append(reasons, fmt.Sprintf("High impression potential, up to %d views.", impMax))
	}
	switch {
	case score.Saturation.ReplyCount < 10:
		reasons = append(reasons, "Reply section is still quiet, giving your reply an early-mover advantage.")
	case score.Saturation.ReplyCount > 50:
		reasons = append(reasons, "Reply section is crowded, which reduces your reply's visibility.")
	}
	if authorProb >= 40 {
		reasons = append(reasons, fmt.Sprintf("Good chance (%.0f%%) the author engages with your reply.", authorProb))
	}
	if decay != nil {
		switch decay.Phase {
		case model.PhaseGrowth:
			reasons = append(reasons, "Post is still gaining traction.")
		case model.PhaseDecay:
			reasons = append(reasons, "Post attention is decaying; a reply now could restart distribution.")
		}
	}
	if score.FinalScore >= 85 {
		reasons = append(reasons, "Exceptional overall opportunity score.")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Moderate opportunity with no standout signals either way.")
	}
	return reasons
}
