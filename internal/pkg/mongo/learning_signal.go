package mongo

import (
	"time"
)

// 学习信号类型
const (
	SignalAlertDismissed = "alert_dismissed"
	SignalAlertActedOn   = "alert_acted_on"
	SignalRevivalResult  = "revival_result"
)

// LearningSignal 观测性学习信号，只追加，供离线聚合分析，
// 不直接改写用户学习档案
type LearningSignal struct {
	ID         string                 `bson:"_id,omitempty" json:"id"`
	UserID     uint64                 `bson:"user_id" json:"userId"`
	PostID     uint64                 `bson:"post_id,omitempty" json:"postId,omitempty"`
	SignalType string                 `bson:"signal_type" json:"signalType"`
	Confidence float64                `bson:"confidence" json:"confidence"`
	Payload    map[string]interface{} `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt  time.Time              `bson:"created_at" json:"createdAt"`
}
