package model

import (
	"time"
)

// VelocityScore 互动速度子分
type VelocityScore struct {
	EngagementRate float64 `json:"engagementRate"`
	GrowthRate     float64 `json:"growthRate"`
	Freshness      float64 `json:"freshness"`
	Score          float64 `json:"score"`
}

// SaturationScore 回复区拥挤度子分，分高 = 不拥挤 = 更值得回
type SaturationScore struct {
	ReplyCount      int     `json:"replyCount"`
	ReplyGrowthRate float64 `json:"replyGrowthRate"`
	DensityScore    float64 `json:"densityScore"`
	Score           float64 `json:"score"`
}

// AuthorFatigueScore 作者疲劳度子分，分高 = 作者仍有余力互动
type AuthorFatigueScore struct {
	RecentActivity   float64 `json:"recentActivity"`
	ReplyFrequency   float64 `json:"replyFrequency"`
	ThreadEngagement float64 `json:"threadEngagement"`
	Score            float64 `json:"score"`
}

// AudienceOverlapScore 受众重合度子分
type AudienceOverlapScore struct {
	TopicSimilarity      float64 `json:"topicSimilarity"`
	KeywordMatch         float64 `json:"keywordMatch"`
	HistoricalConversion float64 `json:"historicalConversion"`
	Score                float64 `json:"score"`
}

// ReplyFitScore 回复适配度子分
type ReplyFitScore struct {
	HistoricalPerformance float64 `json:"historicalPerformance"`
	StyleMatch            float64 `json:"styleMatch"`
	TopicSuccess          float64 `json:"topicSuccess"`
	Score                 float64 `json:"score"`
}

// PostScore 综合评分快照，最新一条为准，历史留作审计
type PostScore struct {
	ID              uint64               `gorm:"primaryKey" json:"id"`
	PostID          uint64               `gorm:"not null;index:idx_post_computed" json:"postId"`
	Velocity        VelocityScore        `gorm:"embedded;embeddedPrefix:velocity_" json:"velocity"`
	Saturation      SaturationScore      `gorm:"embedded;embeddedPrefix:saturation_" json:"saturation"`
	AuthorFatigue   AuthorFatigueScore   `gorm:"embedded;embeddedPrefix:fatigue_" json:"authorFatigue"`
	AudienceOverlap AudienceOverlapScore `gorm:"embedded;embeddedPrefix:overlap_" json:"audienceOverlap"`
	ReplyFit        ReplyFitScore        `gorm:"embedded;embeddedPrefix:fit_" json:"replyFit"`
	FinalScore      int                  `gorm:"not null;default:0" json:"finalScore"`
	Explanation     string               `gorm:"type:text" json:"explanation"`
	ComputedAt      time.Time            `gorm:"not null;index:idx_post_computed" json:"computedAt"`
}

func (PostScore) TableName() string {
	return "post_scores"
}
