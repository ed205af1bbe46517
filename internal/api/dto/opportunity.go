package dto

import (
	"Replyradar/internal/model"
	"time"
)

// ScoreDTO 静态综合评分
type ScoreDTO struct {
	PostID          uint64                     `json:"postId"`
	Velocity        model.VelocityScore        `json:"velocity"`
	Saturation      model.SaturationScore      `json:"saturation"`
	AuthorFatigue   model.AuthorFatigueScore   `json:"authorFatigue"`
	AudienceOverlap model.AudienceOverlapScore `json:"audienceOverlap"`
	ReplyFit        model.ReplyFitScore        `json:"replyFit"`
	FinalScore      int                        `json:"finalScore"`
	Explanation     string                     `json:"explanation"`
	ComputedAt      time.Time                  `json:"computedAt"`
}

// RealtimeDTO 实时趋势及评分修正
type RealtimeDTO struct {
	CurrentVelocity  float64 `json:"currentVelocity"`
	PreviousVelocity float64 `json:"previousVelocity"`
	Acceleration     float64 `json:"acceleration"`
	Trend            string  `json:"trend"`
	ReplyVelocity    float64 `json:"replyVelocity"`
	SaturationTrend  string  `json:"saturationTrend"`
	ScoreAdjustment  int     `json:"scoreAdjustment"`
	AdjustedScore    int     `json:"adjustedScore"`
	Notes            string  `json:"notes"`
}

// WindowDTO 时间窗口
type WindowDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DecayDTO 注意力衰减指标
type DecayDTO struct {
	PostID            uint64     `json:"postId"`
	HalfLife          float64    `json:"halfLife"`
	ActiveLifespan    float64    `json:"activeLifespan"`
	ReviveProbability int        `json:"reviveProbability"`
	DecayVelocity     float64    `json:"decayVelocity"`
	CurrentPhase      string     `json:"currentPhase"`
	ReviveWindow      *WindowDTO `json:"reviveWindow,omitempty"`
	ComputedAt        time.Time  `json:"computedAt"`
}

// OpportunityDTO 单帖机会全景：静态分 + 实时修正 + 衰减指标。
// 数据不足的维度以 nil 表达，不是错误
type OpportunityDTO struct {
	PostID       uint64       `json:"postId"`
	Score        *ScoreDTO    `json:"score,omitempty"`
	Realtime     *RealtimeDTO `json:"realtime,omitempty"`
	Decay        *DecayDTO    `json:"decay,omitempty"`
	HasDecayData bool         `json:"hasDecayData"`
}

// RevivalPredictionDTO 复活动作预测
type RevivalPredictionDTO struct {
	PostID      uint64 `json:"postId"`
	RevivalType string `json:"revivalType"`
	Probability int    `json:"probability"`
	Reasoning   string `json:"reasoning"`
}
