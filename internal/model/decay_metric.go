package model

import (
	"time"
)

// 衰减阶段
const (
	PhaseGrowth   = "GROWTH"
	PhasePeak     = "PEAK"
	PhaseDecay    = "DECAY"
	PhaseFlatline = "FLATLINE"
)

// 复活动作类型
const (
	RevivalTypeQuote   = "quote"
	RevivalTypeReply   = "reply"
	RevivalTypeRetweet = "retweet"
)

// EngagementPoint 加权互动速度曲线上的一个采样点
type EngagementPoint struct {
	CapturedAt time.Time `json:"capturedAt"`
	Weighted   float64   `json:"weighted"`
	Velocity   float64   `json:"velocity"`
}

// DecayMetric 单帖注意力衰减指标，重算整条替换
type DecayMetric struct {
	ID                uint64            `gorm:"primaryKey" json:"id"`
	PostID            uint64            `gorm:"not null;uniqueIndex:idx_post" json:"postId"`
	HalfLife          float64           `gorm:"not null;default:0" json:"halfLife"`
	ActiveLifespan    float64           `gorm:"not null;default:0" json:"activeLifespan"`
	ReviveProbability int               `gorm:"not null;default:0" json:"reviveProbability"`
	DecayVelocity     float64           `gorm:"not null;default:0" json:"decayVelocity"`
	Phase             string            `gorm:"type:varchar(16);not null" json:"currentPhase"`
	ReviveWindowStart *time.Time        `json:"reviveWindowStart,omitempty"`
	ReviveWindowEnd   *time.Time        `json:"reviveWindowEnd,omitempty"`
	EngagementHistory []EngagementPoint `gorm:"serializer:json" json:"engagementHistory"`
	ComputedAt        time.Time         `gorm:"not null" json:"computedAt"`
}

func (DecayMetric) TableName() string {
	return "decay_metrics"
}
