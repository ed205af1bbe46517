package model

import (
	"time"
)

// EngagementSnapshot 单帖某一时刻的互动计数，只追加不修改
type EngagementSnapshot struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	PostID      uint64    `gorm:"not null;index:idx_post_captured" json:"postId"`
	CapturedAt  time.Time `gorm:"not null;index:idx_post_captured" json:"capturedAt"`
	Likes       int       `gorm:"not null;default:0" json:"likes"`
	Retweets    int       `gorm:"not null;default:0" json:"retweets"`
	Replies     int       `gorm:"not null;default:0" json:"replies"`
	Quotes      int       `gorm:"not null;default:0" json:"quotes"`
	Impressions *int      `json:"impressions,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (EngagementSnapshot) TableName() string {
	return "engagement_snapshots"
}

// WeightedEngagement 加权互动量：likes + 2*retweets + 1.5*replies
func (s *EngagementSnapshot) WeightedEngagement() float64 {
	return float64(s.Likes) + 2*float64(s.Retweets) + 1.5*float64(s.Replies)
}
