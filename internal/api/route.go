package api

import (
	"Replyradar/internal/api/middleware"
	"Replyradar/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts")
		postGroup.Use(middleware.AuthMiddleware())
		{
			postGroup.POST("", group.TrackingHandler.TrackPost)
			postGroup.GET("", group.TrackingHandler.ListTracked)
			postGroup.DELETE("/:id", group.TrackingHandler.UntrackPost)
			postGroup.POST("/:id/snapshots", group.TrackingHandler.CaptureSnapshot)

			postGroup.GET("/:id/opportunity", group.OpportunityHandler.GetOpportunity)
			postGroup.POST("/:id/score", group.OpportunityHandler.RecomputeScore)
			postGroup.GET("/:id/decay", group.OpportunityHandler.GetDecay)
			postGroup.GET("/:id/revival", group.OpportunityHandler.PredictRevival)
			postGroup.GET("/:id/prediction", group.PredictionHandler.PredictOutcome)
		}

		learningGroup := apiGroup.Group("/learning")
		learningGroup.Use(middleware.AuthMiddleware())
		{
			learningGroup.POST("/outcomes", group.LearningHandler.RecordOutcome)
			learningGroup.GET("/profile", group.LearningHandler.GetProfile)
			learningGroup.POST("/personalize", group.LearningHandler.PersonalizeScore)
		}

		alertGroup := apiGroup.Group("/alerts")
		alertGroup.Use(middleware.AuthMiddleware())
		{
			alertGroup.GET("", group.AlertHandler.ListActive)
			alertGroup.POST("/:id/dismiss", group.AlertHandler.Dismiss)
			alertGroup.POST("/:id/acted", group.AlertHandler.MarkActedOn)
		}

		preferencesGroup := apiGroup.Group("/preferences")
		preferencesGroup.Use(middleware.AuthMiddleware())
		{
			preferencesGroup.GET("", group.PreferencesHandler.GetPreferences)
			preferencesGroup.PUT("", group.PreferencesHandler.UpdatePreferences)
		}
	}

	return r
}
