package model

import (
	"time"
)

type TrackedPost struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	UserID          uint64    `gorm:"not null;index:idx_user_id" json:"user_id"`
	AuthorHandle    string    `gorm:"type:varchar(64);not null;index:idx_author" json:"author_handle"`
	AuthorFollowers int       `gorm:"not null;default:0" json:"author_followers"`
	Content         string    `gorm:"type:text" json:"content"`
	PostedAt        time.Time `gorm:"not null" json:"posted_at"`

	// 作者近况，采集侧随快照一起刷新
	AuthorTweets24h        int     `gorm:"not null;default:0" json:"author_tweets_24h"`
	AuthorReplies1h        int     `gorm:"not null;default:0" json:"author_replies_1h"`
	AuthorThreadEngagement float64 `gorm:"not null;default:0" json:"author_thread_engagement"`
	AuthorActive           bool    `gorm:"type:tinyint(1);not null;default:0" json:"author_active"`

	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TrackedPost) TableName() string {
	return "tracked_posts"
}
