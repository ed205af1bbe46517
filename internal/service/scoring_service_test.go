package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScoringFixture() (*scoringServiceImpl, *fakePostRepo, *fakeSnapshotRepo, *fakeScoreRepo, *fakeLearningRepo) {
	engine := config.DefaultEngineConfig()
	postRepo := newFakePostRepo()
	snapshotRepo := newFakeSnapshotRepo()
	scoreRepo := newFakeScoreRepo()
	learningRepo := newFakeLearningRepo()
	svc := NewScoringService(engine.Scoring, engine.Learning, postRepo, snapshotRepo, scoreRepo, learningRepo).(*scoringServiceImpl)
	return svc, postRepo, snapshotRepo, scoreRepo, learningRepo
}

func seedPost(postRepo *fakePostRepo, postID uint64, followers int, postedAt time.Time) *model.TrackedPost {
	post := &model.TrackedPost{
		ID:              postID,
		UserID:          1,
		AuthorHandle:    "techfounder",
		AuthorFollowers: followers,
		Content:         "Thoughts on #golang and startup infra",
		PostedAt:        postedAt,
	}
	_ = postRepo.Create(context.Background(), post)
	return post
}

func seedSnapshot(snapshotRepo *fakeSnapshotRepo, postID uint64, at time.Time, likes, retweets, replies int) {
	_ = snapshotRepo.Append(context.Background(), &model.EngagementSnapshot{
		PostID:     postID,
		CapturedAt: at,
		Likes:      likes,
		Retweets:   retweets,
		Replies:    replies,
	})
}

func TestComputeScoreDeterministic(t *testing.T) {
	svc, postRepo, snapshotRepo, _, _ := newScoringFixture()
	now := time.Now()
	post := seedPost(postRepo, 100, 5000, now.Add(-30*time.Minute))
	seedSnapshot(snapshotRepo, 100, now.Add(-20*time.Minute), 40, 10, 5)
	seedSnapshot(snapshotRepo, 100, now.Add(-10*time.Minute), 80, 20, 12)

	snapshots, err := snapshotRepo.ListSince(context.Background(), 100, nil)
	require.NoError(t, err)

	first := svc.buildScore(post, snapshots, nil, now)
	second := svc.buildScore(post, snapshots, nil, now)
	assert.Equal(t, first.FinalScore, second.FinalScore)
	assert.Equal(t, first.Velocity, second.Velocity)
	assert.Equal(t, first.Explanation, second.Explanation)
}

func TestComputeScoreRangeAndPersist(t *testing.T) {
	svc, postRepo, snapshotRepo, scoreRepo, _ := newScoringFixture()
	now := time.Now()
	seedPost(postRepo, 100, 5000, now.Add(-30*time.Minute))
	seedSnapshot(snapshotRepo, 100, now.Add(-10*time.Minute), 500, 100, 50)

	score, err := svc.ComputeScore(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, score)
	assert.GreaterOrEqual(t, score.FinalScore, 0)
	assert.LessOrEqual(t, score.FinalScore, 100)

	persisted, err := scoreRepo.Latest(context.Background(), 100)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, score.FinalScore, persisted.FinalScore)
}

func TestComputeScoreNoSnapshots(t *testing.T) {
	svc, postRepo, _, _, _ := newScoringFixture()
	seedPost(postRepo, 100, 5000, time.Now().Add(-time.Hour))

	score, err := svc.ComputeScore(context.Background(), 100)
	require.NoError(t, err)
	assert.Nil(t, score)
}

func TestComputeScoreUnknownPost(t *testing.T) {
	svc, _, _, _, _ := newScoringFixture()

	_, err := svc.ComputeScore(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestVelocityScoreFormula(t *testing.T) {
	now := time.Now()
	snapshot := &model.EngagementSnapshot{Likes: 40, Retweets: 5, Replies: 5, CapturedAt: now}

	// 10 分钟前发布，50 次互动，1 万粉
	v := velocityScore(snapshot, now.Add(-10*time.Minute), 10000, now)
	assert.InDelta(t, 0.5, v.EngagementRate, 1e-9)
	assert.InDelta(t, 5.0, v.GrowthRate, 1e-9)
	assert.InDelta(t, 100-10*10.0/60, v.Freshness, 1e-6)
	assert.LessOrEqual(t, v.Score, 100.0)
	assert.Greater(t, v.Score, 0.0)
}

func TestVelocityFreshnessFloor(t *testing.T) {
	now := time.Now()
	snapshot := &model.EngagementSnapshot{Likes: 1, CapturedAt: now}

	// 发布超过 10 小时，新鲜度应触底为 0
	v := velocityScore(snapshot, now.Add(-11*time.Hour), 1000, now)
	assert.Equal(t, 0.0, v.Freshness)
}

func TestSaturationMonotonic(t *testing.T) {
	// 回复越多，饱和子分不增
	prev := 101.0
	for _, replies := range []int{0, 5, 20, 50, 80, 200} {
		s := saturationScore(replies, 0)
		assert.LessOrEqual(t, s.Score, prev, "replies=%d", replies)
		prev = s.Score
	}
}

func TestSaturationEmptyReplies(t *testing.T) {
	s := saturationScore(0, 0)
	assert.Equal(t, 100.0, s.Score)
	assert.Equal(t, 0.0, s.DensityScore)
}

func TestAuthorFatigueBounds(t *testing.T) {
	// 极端疲劳也不会出负数
	worn := authorFatigueScore(500, 100, 0)
	assert.GreaterOrEqual(t, worn.Score, 0.0)

	// 完全空闲且线程互动满格
	fresh := authorFatigueScore(0, 0, 100)
	assert.Greater(t, fresh.Score, 100.0)
}

func TestOverlapNeutralWithoutLearning(t *testing.T) {
	o := audienceOverlapScore(nil, nil, 5)
	assert.Equal(t, 50.0, o.TopicSimilarity)
	assert.Equal(t, 50.0, o.HistoricalConversion)
	assert.Equal(t, 0.0, o.KeywordMatch)
}

func TestOverlapUsesMeaningfulTopics(t *testing.T) {
	learning := &model.UserLearning{
		BestTopics: []model.TopicPerformance{
			{Topic: "golang", SuccessRate: 0.8, SampleSize: 10},
			{Topic: "crypto", SuccessRate: 0.9, SampleSize: 2}, // 样本不足，不作数
		},
	}

	o := audienceOverlapScore(learning, []string{"golang", "startup"}, 5)
	assert.InDelta(t, 50.0, o.TopicSimilarity, 1e-9)
}

func TestReplyFitHistoricalRatio(t *testing.T) {
	learning := &model.UserLearning{TotalReplies: 10, SuccessfulReplies: 7}
	f := replyFitScore(learning, nil, 5)
	assert.InDelta(t, 70.0, f.HistoricalPerformance, 1e-9)
}

func TestFinalScoreWeightsSumToOne(t *testing.T) {
	cfg := config.DefaultEngineConfig().Scoring
	assert.InDelta(t, 1.0, cfg.WeightSum(), 1e-9)
}

func TestExplanationRules(t *testing.T) {
	score := &model.PostScore{
		FinalScore: 90,
		Velocity:   model.VelocityScore{Score: 80},
		Saturation: model.SaturationScore{Score: 70},
	}
	explanation := buildExplanation(score)
	assert.Contains(t, explanation, "High-value opportunity")
	assert.Contains(t, explanation, "exceptional engagement velocity")
	assert.Contains(t, explanation, "uncrowded")

	dull := &model.PostScore{FinalScore: 50}
	assert.Contains(t, buildExplanation(dull), "Good engagement opportunity")
}

func TestReplyGrowthRate(t *testing.T) {
	now := time.Now()
	snapshots := []*model.EngagementSnapshot{
		{Replies: 5, CapturedAt: now.Add(-10 * time.Minute)},
		{Replies: 25, CapturedAt: now},
	}
	assert.InDelta(t, 2.0, replyGrowthRate(snapshots), 1e-9)
	assert.Equal(t, 0.0, replyGrowthRate(snapshots[:1]))
}
