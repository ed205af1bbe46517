package dto

import "time"

// AlertDTO 告警视图
type AlertDTO struct {
	ID                   string     `json:"id"`
	PostID               *uint64    `json:"postId,omitempty"`
	Type                 string     `json:"type"`
	Urgency              string     `json:"urgency"`
	Title                string     `json:"title"`
	Message              string     `json:"message"`
	OptimalWindowMinutes *int       `json:"optimalWindow,omitempty"`
	ClosingWindowMinutes *int       `json:"closingWindow,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	ExpiresAt            *time.Time `json:"expiresAt,omitempty"`
}

// DismissDTO 关闭告警，可附带反馈用作学习信号
type DismissDTO struct {
	Feedback string `json:"feedback" binding:"omitempty,oneof=not_relevant too_late already_replied other"`
}
