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
	"strings"
	"time"

	log "log/slog"

	"github.com/jinzhu/copier"
)

type ScoringService interface {
	ComputeScore(ctx context.Context, postID uint64) (*dto.ScoreDTO, error)
	LatestScore(ctx context.Context, postID uint64) (*dto.ScoreDTO, error)
}

type scoringServiceImpl struct {
	cfg          config.ScoringConfig
	minSample    int
	maxTopics    int
	postRepo     repository.TrackedPostRepo
	snapshotRepo repository.SnapshotRepo
	scoreRepo    repository.ScoreRepo
	learningRepo repository.LearningRepo
}

func NewScoringService(
	cfg config.ScoringConfig,
	learningCfg config.LearningConfig,
	postRepo repository.TrackedPostRepo,
	snapshotRepo repository.SnapshotRepo,
	scoreRepo repository.ScoreRepo,
	learningRepo repository.LearningRepo,
) ScoringService {
	return &scoringServiceImpl{
		cfg:          cfg,
		minSample:    learningCfg.MinSampleSize,
		maxTopics:    learningCfg.MaxTopicsPerItem,
		postRepo:     postRepo,
		snapshotRepo: snapshotRepo,
		scoreRepo:    scoreRepo,
		learningRepo: learningRepo,
	}
}

// ComputeScore 重算一条帖子的综合评分并落库。
// 没有任何快照时返回 nil 表示数据不足，不视为错误
func (s *scoringServiceImpl) ComputeScore(ctx context.Context, postID uint64) (*dto.ScoreDTO, error) {
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorFollowers <= 0 {
		return nil, ErrFollowersInvalid
	}

	snapshots, err := s.snapshotRepo.ListSince(ctx, postID, nil)
	if err != nil {
		log.ErrorContext(ctx, "查询互动快照失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	learning, err := s.learningRepo.Get(ctx, post.UserID)
	if err != nil {
		log.ErrorContext(ctx, "查询学习档案失败", "err", err, "user_id", post.UserID)
		return nil, UnExpectedError
	}

	score := s.buildScore(post, snapshots, learning, time.Now())
	if err := s.scoreRepo.Append(ctx, score); err != nil {
		log.ErrorContext(ctx, "评分落库失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}

	return scoreToDTO(score), nil
}

func (s *scoringServiceImpl) LatestScore(ctx context.Context, postID uint64) (*dto.ScoreDTO, error) {
	score, err := s.scoreRepo.Latest(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询最新评分失败", "err", err, "post_id", postID)
		return nil, UnExpectedError
	}
	if score == nil {
		return nil, nil
	}
	return scoreToDTO(score), nil
}

// buildScore 纯计算：同一输入必然得到同一评分
func (s *scoringServiceImpl) buildScore(
	post *model.TrackedPost,
	snapshots []*model.EngagementSnapshot,
	learning *model.UserLearning,
	now time.Time,
) *model.PostScore {
	latest := snapshots[len(snapshots)-1]
	replyGrowth := replyGrowthRate(snapshots)
	topics := util.ExtractTopics(post.Content, s.maxTopics)

	velocity := velocityScore(latest, post.PostedAt, post.AuthorFollowers, now)
	saturation := saturationScore(latest.Replies, replyGrowth)
	fatigue := authorFatigueScore(post.AuthorTweets24h, post.AuthorReplies1h, post.AuthorThreadEngagement)
	overlap := audienceOverlapScore(learning, topics, s.minSample)
	fit := replyFitScore(learning, topics, s.minSample)

	final := util.ClampInt(int(math.Round(
		velocity.Score*s.cfg.VelocityWeight+
			saturation.Score*s.cfg.SaturationWeight+
			fatigue.Score*s.cfg.AuthorFatigueWeight+
			overlap.Score*s.cfg.AudienceOverlapWeight+
			fit.Score*s.cfg.ReplyFitWeight,
	)), 0, 100)

	score := &model.PostScore{
		PostID:          post.ID,
		Velocity:        velocity,
		Saturation:      saturation,
		AuthorFatigue:   fatigue,
		AudienceOverlap: overlap,
		ReplyFit:        fit,
		FinalScore:      final,
		ComputedAt:      now,
	}
	score.Explanation = buildExplanation(score)
	return score
}

// velocityScore 互动速度子分
func velocityScore(latest *model.EngagementSnapshot, postedAt time.Time, followers int, now time.Time) model.VelocityScore {
	total := float64(latest.Likes + latest.Retweets + latest.Replies)
	ageMinutes := now.Sub(postedAt).Minutes()

	engagementRate := 100 * total / float64(followers)
	growthRate := total / math.Max(ageMinutes, 1)
	freshness := math.Max(0, 100-10*ageMinutes/60)

	score := math.Min(100, 20*engagementRate+math.Min(10*growthRate, 40)+0.4*freshness)
	return model.VelocityScore{
		EngagementRate: engagementRate,
		GrowthRate:     growthRate,
		Freshness:      freshness,
		Score:          score,
	}
}

// saturationScore 回复区拥挤度子分，回复越多分越低
func saturationScore(replyCount int, replyGrowth float64) model.SaturationScore {
	density := math.Min(100, 100*float64(replyCount)/50)
	score := 100 - math.Min(100, 0.6*density+math.Min(20*replyGrowth, 40))
	return model.SaturationScore{
		ReplyCount:      replyCount,
		ReplyGrowthRate: replyGrowth,
		DensityScore:    density,
		Score:           score,
	}
}

// authorFatigueScore 作者疲劳度子分，作者余力越足分越高
func authorFatigueScore(tweets24h, replies1h int, threadEngagement float64) model.AuthorFatigueScore {
	recent := math.Min(100, 100*float64(tweets24h)/50)
	replyFreq := math.Min(100, 100*float64(replies1h)/10)
	thread := util.Clamp(threadEngagement, 0, 100)

	score := math.Max(0, 100-0.3*recent-0.4*replyFreq+0.3*thread)
	return model.AuthorFatigueScore{
		RecentActivity:   recent,
		ReplyFrequency:   replyFreq,
		ThreadEngagement: thread,
		Score:            score,
	}
}

// audienceOverlapScore 受众重合度子分。
// 学习数据不足的维度取中性值 50，保证新用户也有合理评分
func audienceOverlapScore(learning *model.UserLearning, topics []string, minSample int) model.AudienceOverlapScore {
	keywordMatch := math.Min(100, float64(len(topics))*20)

	similarity := 50.0
	if learning != nil && len(topics) > 0 {
		best := make(map[string]struct{})
		for _, t := range learning.BestTopics {
			if t.SampleSize >= minSample {
				best[t.Topic] = struct{}{}
			}
		}
		if len(best) > 0 {
			matched := 0
			for _, t := range topics {
				if _, ok := best[t]; ok {
					matched++
				}
			}
			similarity = 100 * float64(matched) / float64(len(topics))
		}
	}

	conversion := 50.0
	if learning != nil {
		var sum float64
		var n int
		for _, a := range learning.BestAuthors {
			if a.SampleSize >= minSample {
				sum += a.ConversionRate
				n++
			}
		}
		if n > 0 {
			conversion = 100 * sum / float64(n)
		}
	}

	score := 0.4*similarity + 0.3*keywordMatch + 0.3*conversion
	return model.AudienceOverlapScore{
		TopicSimilarity:      similarity,
		KeywordMatch:         keywordMatch,
		HistoricalConversion: conversion,
		Score:                score,
	}
}

// replyFitScore 回复适配度子分，同样以 50 为无数据时的中性值
func replyFitScore(learning *model.UserLearning, topics []string, minSample int) model.ReplyFitScore {
	historical := 50.0
	if learning != nil && learning.TotalReplies >= minSample {
		historical = 100 * float64(learning.SuccessfulReplies) / float64(learning.TotalReplies)
	}

	styleMatch := 50.0
	if learning != nil {
		best := -1.0
		for _, st := range learning.BestReplyStyles {
			if st.SampleSize >= minSample && st.SuccessRate > best {
				best = st.SuccessRate
			}
		}
		if best >= 0 {
			styleMatch = 100 * best
		}
	}

	topicSuccess := 50.0
	if learning != nil {
		for _, want := range topics {
			found := false
			for _, t := range learning.BestTopics {
				if t.Topic == want && t.SampleSize >= minSample {
					topicSuccess = 100 * t.SuccessRate
					found = true
					break
				}
			}
			if found {
				break
			}
		}
	}

	score := 0.4*historical + 0.3*styleMatch + 0.3*topicSuccess
	return model.ReplyFitScore{
		HistoricalPerformance: historical,
		StyleMatch:            styleMatch,
		TopicSuccess:          topicSuccess,
		Score:                 score,
	}
}

// replyGrowthRate 最近两条快照的每分钟回复增量，不足两条为 0
func replyGrowthRate(snapshots []*model.EngagementSnapshot) float64 {
	if len(snapshots) < 2 {
		return 0
	}
	last := snapshots[len(snapshots)-1]
	prev := snapshots[len(snapshots)-2]
	minutes := last.CapturedAt.Sub(prev.CapturedAt).Minutes()
	if minutes <= 0 {
		return 0
	}
	return math.Max(0, float64(last.Replies-prev.Replies)/minutes)
}

// buildExplanation 按阈值规则拼出一句话解释，规则全不命中时给兜底文案
func buildExplanation(score *model.PostScore) string {
	headline := "Good engagement opportunity"
	if score.FinalScore > 85 {
		headline = "High-value opportunity"
	}

	parts := make([]string, 0, 4)
	if score.Velocity.Score > 70 {
		parts = append(parts, "exceptional engagement velocity")
	}
	if score.Saturation.Score > 60 {
		parts = append(parts, "reply section is still uncrowded")
	}
	if score.AuthorFatigue.Score > 60 {
		parts = append(parts, "author has capacity to engage")
	}
	if score.AudienceOverlap.Score > 70 {
		parts = append(parts, "strong topic alignment with your audience")
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s based on the combined signal profile.", headline)
	}
	return fmt.Sprintf("%s: %s.", headline, strings.Join(parts, "; "))
}

func scoreToDTO(score *model.PostScore) *dto.ScoreDTO {
	out := &dto.ScoreDTO{}
	_ = copier.Copy(out, score)
	return out
}
