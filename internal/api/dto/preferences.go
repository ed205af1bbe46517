package dto

// PreferencesDTO 告警偏好
type PreferencesDTO struct {
	MaxAlertsPerDay int    `json:"max_alerts_per_day" binding:"min=1,max=100"`
	TimeWindowStart int    `json:"time_window_start" binding:"min=0,max=23"`
	TimeWindowEnd   int    `json:"time_window_end" binding:"min=1,max=24"`
	WebhookURL      string `json:"webhook_url" binding:"omitempty,url,max=512"`
}
