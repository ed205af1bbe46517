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

func newDecayFixture() (*decayServiceImpl, *fakePostRepo, *fakeSnapshotRepo, *fakeDecayRepo) {
	engine := config.DefaultEngineConfig()
	postRepo := newFakePostRepo()
	snapshotRepo := newFakeSnapshotRepo()
	decayRepo := newFakeDecayRepo()
	svc := NewDecayService(engine.Decay, postRepo, snapshotRepo, decayRepo).(*decayServiceImpl)
	return svc, postRepo, snapshotRepo, decayRepo
}

func TestComputeDecayNeedsMinSnapshots(t *testing.T) {
	svc, postRepo, snapshotRepo, _ := newDecayFixture()
	now := time.Now()
	seedPost(postRepo, 1, 1000, now.Add(-time.Hour))
	seedSnapshot(snapshotRepo, 1, now.Add(-10*time.Minute), 10, 0, 0)
	seedSnapshot(snapshotRepo, 1, now, 20, 0, 0)

	decay, err := svc.ComputeDecay(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, decay)
}

func TestComputeDecayPersists(t *testing.T) {
	svc, postRepo, snapshotRepo, decayRepo := newDecayFixture()
	now := time.Now()
	seedPost(postRepo, 1, 1000, now.Add(-time.Hour))
	for i, likes := range []int{10, 50, 60, 62} {
		seedSnapshot(snapshotRepo, 1, now.Add(time.Duration(i-4)*10*time.Minute), likes, 0, 0)
	}

	decay, err := svc.ComputeDecay(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, decay)

	stored, err := decayRepo.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, decay.CurrentPhase, stored.Phase)
}

func TestDeterminePhaseGrowthWhenFewSamples(t *testing.T) {
	assert.Equal(t, model.PhaseGrowth, determinePhase(nil))
	assert.Equal(t, model.PhaseGrowth, determinePhase([]float64{3.0}))
}

func TestDeterminePhaseFlatlineWhenPeakZero(t *testing.T) {
	assert.Equal(t, model.PhaseFlatline, determinePhase([]float64{0, 0, 0}))
}

func TestDeterminePhaseBuckets(t *testing.T) {
	// 近期均值远低于峰值 → DECAY
	assert.Equal(t, model.PhaseDecay, determinePhase([]float64{10, 10, 3, 2, 1}))
	// 近期均值贴着峰值 → PEAK
	assert.Equal(t, model.PhasePeak, determinePhase([]float64{10, 9, 8, 8, 8}))
	// 近期几乎归零 → FLATLINE
	assert.Equal(t, model.PhaseFlatline, determinePhase([]float64{10, 10, 0.1, 0.1, 0.1}))
}

func TestHalfLifeObserved(t *testing.T) {
	svc, _, _, _ := newDecayFixture()
	base := time.Now()
	points := []model.EngagementPoint{
		{CapturedAt: base, Velocity: 10},
		{CapturedAt: base.Add(30 * time.Minute), Velocity: 8},
		{CapturedAt: base.Add(60 * time.Minute), Velocity: 4},
	}

	halfLife := svc.estimateHalfLife(points, []float64{10, 8, 4})
	assert.InDelta(t, 60.0, halfLife, 1e-9)
}

func TestHalfLifeViralWhenNotDecaying(t *testing.T) {
	svc, _, _, _ := newDecayFixture()
	base := time.Now()
	points := []model.EngagementPoint{
		{CapturedAt: base, Velocity: 5},
		{CapturedAt: base.Add(30 * time.Minute), Velocity: 8},
		{CapturedAt: base.Add(60 * time.Minute), Velocity: 8},
	}

	halfLife := svc.estimateHalfLife(points, []float64{5, 8, 8})
	assert.InDelta(t, 45.0*2.5, halfLife, 1e-9)
}

func TestHalfLifeExtrapolationCapped(t *testing.T) {
	svc, _, _, _ := newDecayFixture()
	base := time.Now()
	// 衰减极慢，外推值被上限夹住
	points := []model.EngagementPoint{
		{CapturedAt: base, Velocity: 100},
		{CapturedAt: base.Add(10 * time.Minute), Velocity: 99.9},
	}

	halfLife := svc.estimateHalfLife(points, []float64{100, 99.9})
	assert.InDelta(t, 3.0*45.0, halfLife, 1e-9)
}

func TestReviveProbabilityModifiers(t *testing.T) {
	// DECAY 基准 70，大体量 +15，衰减平缓 +10 → 95
	assert.Equal(t, 95, reviveProbability(model.PhaseDecay, 2000, 0.5))
	// 小体量 -20，快速衰减 -10
	assert.Equal(t, 40, reviveProbability(model.PhaseDecay, 5, 8))
	// 上限 100
	assert.LessOrEqual(t, reviveProbability(model.PhaseDecay, 5000, 0), 100)
	// 下限 0
	assert.GreaterOrEqual(t, reviveProbability(model.PhaseGrowth, 1, 10), 0)
}

func TestReviveWindowPhases(t *testing.T) {
	postedAt := time.Now().Add(-2 * time.Hour)

	start, end := reviveWindow(postedAt, 90, model.PhaseDecay)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.True(t, start.Before(*end))

	start, end = reviveWindow(postedAt, 90, model.PhaseGrowth)
	assert.Nil(t, start)
	assert.Nil(t, end)

	start, end = reviveWindow(postedAt, 90, model.PhaseFlatline)
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestPredictRevivalInvalidType(t *testing.T) {
	svc, _, _, _ := newDecayFixture()

	_, err := svc.PredictRevival(context.Background(), 1, "boost")
	assert.ErrorIs(t, err, ErrRevivalTypeInvalid)
}

func TestPredictRevivalMultipliers(t *testing.T) {
	svc, _, _, decayRepo := newDecayFixture()
	_ = decayRepo.Upsert(context.Background(), &model.DecayMetric{
		PostID:            1,
		Phase:             model.PhasePeak,
		ReviveProbability: 40,
		HalfLife:          45,
	})

	quote, err := svc.PredictRevival(context.Background(), 1, model.RevivalTypeQuote)
	require.NoError(t, err)
	assert.Equal(t, 52, quote.Probability)

	retweet, err := svc.PredictRevival(context.Background(), 1, model.RevivalTypeRetweet)
	require.NoError(t, err)
	assert.Equal(t, 28, retweet.Probability)
	assert.NotEmpty(t, retweet.Reasoning)
}

func TestPredictRevivalDecayBoost(t *testing.T) {
	svc, _, _, decayRepo := newDecayFixture()
	_ = decayRepo.Upsert(context.Background(), &model.DecayMetric{
		PostID:            1,
		Phase:             model.PhaseDecay,
		ReviveProbability: 72,
		HalfLife:          30,
	})

	// 72 × 1.3 (quote) × 1.2 (DECAY 阶段) ≈ 112 → 夹到 100
	quote, err := svc.PredictRevival(context.Background(), 1, model.RevivalTypeQuote)
	require.NoError(t, err)
	assert.Equal(t, 100, quote.Probability)

	// reply 乘数为 1.0，只吃阶段加成
	reply, err := svc.PredictRevival(context.Background(), 1, model.RevivalTypeReply)
	require.NoError(t, err)
	assert.Equal(t, 86, reply.Probability)
}
