package dto

import "time"

// TrackPostDTO 开始追踪一条帖子
type TrackPostDTO struct {
	PostID          uint64    `json:"post_id" binding:"required"`
	AuthorHandle    string    `json:"author_handle" binding:"required,max=64"`
	AuthorFollowers int       `json:"author_followers" binding:"required,gt=0"`
	Content         string    `json:"content" binding:"max=4096"`
	PostedAt        time.Time `json:"posted_at" binding:"required"`

	AuthorTweets24h        int     `json:"author_tweets_24h" binding:"gte=0"`
	AuthorReplies1h        int     `json:"author_replies_1h" binding:"gte=0"`
	AuthorThreadEngagement float64 `json:"author_thread_engagement" binding:"gte=0"`
	AuthorActive           bool    `json:"author_active"`
}

// SnapshotDTO 手工补录一条互动快照（与 Kafka 采集同一条入库路径）
type SnapshotDTO struct {
	PostID      uint64    `json:"post_id" binding:"required"`
	CapturedAt  time.Time `json:"captured_at" binding:"required"`
	Likes       int       `json:"likes" binding:"gte=0"`
	Retweets    int       `json:"retweets" binding:"gte=0"`
	Replies     int       `json:"replies" binding:"gte=0"`
	Quotes      int       `json:"quotes" binding:"gte=0"`
	Impressions *int      `json:"impressions,omitempty" binding:"omitempty,gte=0"`
}

// TrackedPostDTO 追踪列表项
type TrackedPostDTO struct {
	ID              uint64    `json:"id"`
	AuthorHandle    string    `json:"author_handle"`
	AuthorFollowers int       `json:"author_followers"`
	Content         string    `json:"content"`
	PostedAt        time.Time `json:"posted_at"`
	AuthorActive    bool      `json:"author_active"`
}
