package model

import (
	"time"
)

// AuthorPerformance 对单个作者的历史回复表现
type AuthorPerformance struct {
	AuthorHandle   string  `json:"authorHandle"`
	ConversionRate float64 `json:"conversionRate"`
	AvgImpressions float64 `json:"avgImpressions"`
	SampleSize     int     `json:"sampleSize"`
}

// TopicPerformance 单话题的历史表现
type TopicPerformance struct {
	Topic       string  `json:"topic"`
	SuccessRate float64 `json:"successRate"`
	SampleSize  int     `json:"sampleSize"`
}

// StylePerformance 单回复风格的历史表现
type StylePerformance struct {
	Style       string  `json:"style"`
	SuccessRate float64 `json:"successRate"`
	SampleSize  int     `json:"sampleSize"`
}

// HourPerformance 单发布小时段的历史表现
type HourPerformance struct {
	Hour        int     `json:"hour"`
	SuccessRate float64 `json:"successRate"`
	SampleSize  int     `json:"sampleSize"`
}

// UserLearning 按用户累积的学习档案，首次访问惰性创建
type UserLearning struct {
	ID                   uint64              `gorm:"primaryKey" json:"id"`
	UserID               uint64              `gorm:"not null;uniqueIndex:idx_user" json:"userId"`
	BestAuthors          []AuthorPerformance `gorm:"serializer:json" json:"bestAuthors"`
	BestTopics           []TopicPerformance  `gorm:"serializer:json" json:"bestTopics"`
	BestReplyStyles      []StylePerformance  `gorm:"serializer:json" json:"bestReplyStyles"`
	BestPostingHours     []HourPerformance   `gorm:"serializer:json" json:"bestPostingHours"`
	AvgHalfLife          *float64            `json:"avgHalfLife,omitempty"`
	AvgRevivalSuccess    *float64            `json:"avgRevivalSuccess,omitempty"`
	TotalReplies         int                 `gorm:"not null;default:0" json:"totalReplies"`
	SuccessfulReplies    int                 `gorm:"not null;default:0" json:"successfulReplies"`
	AvgImpressionsGained float64             `gorm:"not null;default:0" json:"avgImpressionsGained"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

func (UserLearning) TableName() string {
	return "user_learnings"
}
