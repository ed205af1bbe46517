package model

import (
	"time"
)

// 回复结果标签
const (
	OutcomeRight     = "RIGHT"
	OutcomeSaturated = "SATURATED"
	OutcomeBadFit    = "BAD_FIT"
)

// ReplyOutcome 一次回复的实际结果，学习引擎的输入流水
type ReplyOutcome struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"not null;index:idx_user" json:"userId"`
	PostID        uint64    `gorm:"not null;index:idx_post" json:"postId"`
	Label         string    `gorm:"type:varchar(16);not null" json:"label"`
	Impressions   int       `gorm:"not null;default:0" json:"impressions"`
	AuthorEngaged bool      `gorm:"type:tinyint(1);not null;default:0" json:"authorEngaged"`
	Follows       int       `gorm:"not null;default:0" json:"follows"`
	ReplyStyle    string    `gorm:"type:varchar(32)" json:"replyStyle"`
	RepliedAt     time.Time `gorm:"not null" json:"repliedAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (ReplyOutcome) TableName() string {
	return "reply_outcomes"
}
