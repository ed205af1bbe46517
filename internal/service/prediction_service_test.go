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

func newPredictionFixture() (*predictionServiceImpl, *fakePostRepo, *fakeScoreRepo, *fakeDecayRepo, *fakeLearningRepo) {
	engine := config.DefaultEngineConfig()
	postRepo := newFakePostRepo()
	scoreRepo := newFakeScoreRepo()
	decayRepo := newFakeDecayRepo()
	learningRepo := newFakeLearningRepo()
	svc := NewPredictionService(engine.Prediction, postRepo, scoreRepo, decayRepo, learningRepo).(*predictionServiceImpl)
	return svc, postRepo, scoreRepo, decayRepo, learningRepo
}

func seedScore(scoreRepo *fakeScoreRepo, postID uint64, final int, growthRate float64, replyCount int) {
	_ = scoreRepo.Append(context.Background(), &model.PostScore{
		PostID:     postID,
		FinalScore: final,
		Velocity:   model.VelocityScore{GrowthRate: growthRate},
		Saturation: model.SaturationScore{ReplyCount: replyCount},
		ComputedAt: time.Now(),
	})
}

func TestPredictOutcomeNeedsScore(t *testing.T) {
	svc, postRepo, _, _, _ := newPredictionFixture()
	seedPost(postRepo, 1, 10000, time.Now().Add(-time.Hour))

	prediction, err := svc.PredictOutcome(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Nil(t, prediction)
}

func TestPredictOutcomeUnknownPost(t *testing.T) {
	svc, _, _, _, _ := newPredictionFixture()

	_, err := svc.PredictOutcome(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPredictOutcomeRanges(t *testing.T) {
	svc, postRepo, scoreRepo, _, _ := newPredictionFixture()
	seedPost(postRepo, 1, 20000, time.Now().Add(-30*time.Minute))
	seedScore(scoreRepo, 1, 75, 3.0, 8)

	prediction, err := svc.PredictOutcome(context.Background(), 1, 1)
	require.NoError(t, err)
	require.NotNil(t, prediction)

	assert.LessOrEqual(t, prediction.Impressions.Min, prediction.Impressions.Max)
	assert.Greater(t, prediction.Impressions.Min, 0)
	assert.LessOrEqual(t, prediction.ProfileClicks.Min, prediction.ProfileClicks.Max)
	assert.LessOrEqual(t, prediction.Follows.Min, prediction.Follows.Max)
	assert.NotEmpty(t, prediction.Reasoning)
}

func TestAuthorEngagementClamped(t *testing.T) {
	svc, _, _, _, _ := newPredictionFixture()

	// 小号活跃作者 + 空回复区：夹到上限 80
	hot := svc.predictAuthorEngagement(
		&model.TrackedPost{AuthorHandle: "a", AuthorFollowers: 5000, AuthorActive: true},
		&model.PostScore{Saturation: model.SaturationScore{ReplyCount: 2}},
		nil,
	)
	assert.Equal(t, 80.0, hot)

	// 巨号不活跃 + 拥挤回复区：夹到下限 5
	cold := svc.predictAuthorEngagement(
		&model.TrackedPost{AuthorHandle: "b", AuthorFollowers: 800000, AuthorActive: false},
		&model.PostScore{Saturation: model.SaturationScore{ReplyCount: 60}},
		nil,
	)
	assert.Equal(t, 5.0, cold)
}

func TestAuthorEngagementUsesHistory(t *testing.T) {
	svc, _, _, _, _ := newPredictionFixture()

	// 对该作者哪怕只有一条实测记录，也整体替换启发式估计
	learning := &model.UserLearning{
		BestAuthors: []model.AuthorPerformance{
			{AuthorHandle: "techfounder", ConversionRate: 0.6, SampleSize: 1},
		},
	}
	p := svc.predictAuthorEngagement(
		&model.TrackedPost{AuthorHandle: "techfounder", AuthorFollowers: 100000},
		&model.PostScore{},
		learning,
	)
	assert.Equal(t, 60.0, p)

	// 其他作者的历史不影响
	p = svc.predictAuthorEngagement(
		&model.TrackedPost{AuthorHandle: "someoneelse", AuthorFollowers: 100000, AuthorActive: true},
		&model.PostScore{Saturation: model.SaturationScore{ReplyCount: 10}},
		learning,
	)
	assert.Equal(t, 40.0, p)
}

func TestPredictionConfidenceLevels(t *testing.T) {
	assert.InDelta(t, 0.5, predictionConfidence(nil, false), 1e-9)
	assert.InDelta(t, 0.6, predictionConfidence(nil, true), 1e-9)

	veteran := &model.UserLearning{TotalReplies: 60}
	assert.InDelta(t, 0.85, predictionConfidence(veteran, false), 1e-9)
	assert.InDelta(t, 0.95, predictionConfidence(veteran, true), 1e-9)

	mid := &model.UserLearning{TotalReplies: 20}
	assert.InDelta(t, 0.7, predictionConfidence(mid, false), 1e-9)

	rookie := &model.UserLearning{TotalReplies: 10}
	assert.InDelta(t, 0.6, predictionConfidence(rookie, false), 1e-9)
}

func TestImpressionsDecayMultiplier(t *testing.T) {
	svc, _, _, _, _ := newPredictionFixture()
	post := &model.TrackedPost{AuthorFollowers: 10000}
	score := &model.PostScore{
		FinalScore: 70,
		Velocity:   model.VelocityScore{GrowthRate: 1.0},
		Saturation: model.SaturationScore{ReplyCount: 20},
	}

	_, flatMax := svc.predictImpressions(post, score, &model.DecayMetric{Phase: model.PhaseFlatline}, nil)
	_, growthMax := svc.predictImpressions(post, score, &model.DecayMetric{Phase: model.PhaseGrowth}, nil)
	assert.Greater(t, growthMax, flatMax)
}

func TestUserMultiplierClamped(t *testing.T) {
	svc, _, _, _, _ := newPredictionFixture()
	post := &model.TrackedPost{AuthorFollowers: 10000}
	score := &model.PostScore{FinalScore: 50, Velocity: model.VelocityScore{GrowthRate: 1}, Saturation: model.SaturationScore{ReplyCount: 20}}

	strong := &model.UserLearning{TotalReplies: 10, AvgImpressionsGained: 10000}
	weak := &model.UserLearning{TotalReplies: 10, AvgImpressionsGained: 50}

	_, strongMax := svc.predictImpressions(post, score, nil, strong)
	_, weakMax := svc.predictImpressions(post, score, nil, weak)
	baseMin, _ := svc.predictImpressions(post, score, nil, nil)

	// 历史乘数夹在 [0.5, 2.0]
	assert.Equal(t, 4, strongMax/weakMax)
	assert.Greater(t, baseMin, 0)
}
