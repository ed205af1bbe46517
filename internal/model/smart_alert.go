package model

import (
	"time"
)

// 告警类型
const (
	AlertTypeReplyNow      = "REPLY_NOW"
	AlertTypeReviveSignal  = "REVIVE_SIGNAL"
	AlertTypeWindowClosing = "WINDOW_CLOSING"
	AlertTypeAuthorActive  = "AUTHOR_ACTIVE"
	AlertTypeVelocitySpike = "VELOCITY_SPIKE"
)

// 紧急程度
const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyMedium   = "MEDIUM"
)

// UrgencyRank 排序用显式序值，不依赖字符串字典序
var UrgencyRank = map[string]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
}

// SmartAlert 时效性告警。dismiss/markActedOn 为终态，
// 过期只是读取时过滤，不落库状态
type SmartAlert struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID               uint64     `gorm:"not null;index:idx_user_created" json:"userId"`
	PostID               *uint64    `gorm:"index:idx_post" json:"postId,omitempty"`
	Type                 string     `gorm:"type:varchar(24);not null" json:"type"`
	Urgency              string     `gorm:"type:varchar(12);not null" json:"urgency"`
	Title                string     `gorm:"type:varchar(255);not null" json:"title"`
	Message              string     `gorm:"type:text" json:"message"`
	OptimalWindowMinutes *int       `json:"optimalWindow,omitempty"`
	ClosingWindowMinutes *int       `json:"closingWindow,omitempty"`
	Dismissed            bool       `gorm:"type:tinyint(1);not null;default:0" json:"dismissed"`
	ActedOn              bool       `gorm:"type:tinyint(1);not null;default:0" json:"actedOn"`
	CreatedAt            time.Time  `gorm:"index:idx_user_created" json:"createdAt"`
	ExpiresAt            *time.Time `json:"expiresAt,omitempty"`
}

func (SmartAlert) TableName() string {
	return "smart_alerts"
}

// Expired 是否已过期（expiresAt 为空视为不过期）
func (a *SmartAlert) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}
