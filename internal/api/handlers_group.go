package api

import "Replyradar/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	TrackingHandler    *handler.TrackingHandler
	OpportunityHandler *handler.OpportunityHandler
	PredictionHandler  *handler.PredictionHandler
	LearningHandler    *handler.LearningHandler
	AlertHandler       *handler.AlertHandler
	PreferencesHandler *handler.PreferencesHandler
}
