package kafka

import (
	"time"
)

// SnapshotEvent 采集端上报的互动快照事件。
// 作者近况字段可选，带了就顺手刷新追踪帖子上的作者状态
type SnapshotEvent struct {
	PostID      uint64    `json:"post_id"`
	CapturedAt  time.Time `json:"captured_at"`
	Likes       int       `json:"likes"`
	Retweets    int       `json:"retweets"`
	Replies     int       `json:"replies"`
	Quotes      int       `json:"quotes"`
	Impressions *int      `json:"impressions,omitempty"`

	AuthorStats *AuthorStatsEvent `json:"author_stats,omitempty"`
}

// AuthorStatsEvent 作者近况
type AuthorStatsEvent struct {
	Tweets24h        int     `json:"tweets_24h"`
	Replies1h        int     `json:"replies_1h"`
	ThreadEngagement float64 `json:"thread_engagement"`
	Active           bool    `json:"active"`
}

// OutcomeEvent 回复结果事件，客户端侧异步上报
type OutcomeEvent struct {
	UserID        uint64    `json:"user_id"`
	PostID        uint64    `json:"post_id"`
	Label         string    `json:"label"`
	Impressions   int       `json:"impressions"`
	AuthorEngaged bool      `json:"author_engaged"`
	Follows       int       `json:"follows"`
	ReplyStyle    string    `json:"reply_style"`
	RepliedAt     time.Time `json:"replied_at"`
}
