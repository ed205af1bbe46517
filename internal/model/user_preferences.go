package model

import (
	"time"
)

// UserPreferences 告警偏好，缺省惰性创建
type UserPreferences struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	UserID          uint64    `gorm:"not null;uniqueIndex:idx_user" json:"userId"`
	MaxAlertsPerDay int       `gorm:"not null;default:10" json:"maxAlertsPerDay"`
	TimeWindowStart int       `gorm:"not null;default:9" json:"timeWindowStart"`
	TimeWindowEnd   int       `gorm:"not null;default:22" json:"timeWindowEnd"`
	WebhookURL      string    `gorm:"type:varchar(512)" json:"webhookUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}
