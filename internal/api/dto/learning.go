package dto

import (
	"Replyradar/internal/model"
	"time"
)

// OutcomeDTO 上报一次回复的实际结果
type OutcomeDTO struct {
	PostID        uint64    `json:"post_id" binding:"required"`
	Label         string    `json:"label" binding:"required,oneof=RIGHT SATURATED BAD_FIT"`
	Impressions   int       `json:"impressions" binding:"gte=0"`
	AuthorEngaged bool      `json:"author_engaged"`
	Follows       int       `json:"follows" binding:"gte=0"`
	ReplyStyle    string    `json:"reply_style" binding:"max=32"`
	RepliedAt     time.Time `json:"replied_at" binding:"required"`
}

// ProfileDTO 用户学习档案，列表仅含样本量达标的条目
type ProfileDTO struct {
	BestAuthors          []model.AuthorPerformance `json:"bestAuthors"`
	BestTopics           []model.TopicPerformance  `json:"bestTopics"`
	BestReplyStyles      []model.StylePerformance  `json:"bestReplyStyles"`
	BestPostingHours     []model.HourPerformance   `json:"bestPostingHours"`
	AvgHalfLife          *float64                  `json:"avgHalfLife,omitempty"`
	AvgRevivalSuccess    *float64                  `json:"avgRevivalSuccess,omitempty"`
	TotalReplies         int                       `json:"totalReplies"`
	SuccessfulReplies    int                       `json:"successfulReplies"`
	AvgImpressionsGained float64                   `json:"avgImpressionsGained"`
}

// PersonalizeDTO 个性化加成请求
type PersonalizeDTO struct {
	BaseScore    int    `json:"base_score" binding:"min=0,max=100"`
	AuthorHandle string `json:"author_handle" binding:"required,max=64"`
	Content      string `json:"content" binding:"max=4096"`
}

// AdjustmentDTO 单项个性化加成，保留标签便于解释
type AdjustmentDTO struct {
	Label string `json:"label"`
	Delta int    `json:"delta"`
}

// PersonalizedScoreDTO 个性化加成结果
type PersonalizedScoreDTO struct {
	BaseScore     int             `json:"baseScore"`
	AdjustedScore int             `json:"adjustedScore"`
	Adjustments   []AdjustmentDTO `json:"adjustments"`
}
