package handler

import (
	"Replyradar/internal/api/dto"
	"Replyradar/internal/pkg/response"
	"Replyradar/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertSvc service.AlertService
}

func NewAlertHandler(alertSvc service.AlertService) *AlertHandler {
	return &AlertHandler{
		alertSvc: alertSvc,
	}
}

// ListActive 活跃告警列表，紧急的在前
func (s *AlertHandler) ListActive(c *gin.Context) {
	userID := c.GetUint64("user_id")

	alerts, err := s.alertSvc.ListActive(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, alerts)
}

// Dismiss 关闭告警，可附带反馈用作学习信号
func (s *AlertHandler) Dismiss(c *gin.Context) {
	userID := c.GetUint64("user_id")
	alertID := c.Param("id")

	// 反馈可选，空请求体视为不带反馈
	var req dto.DismissDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, err)
			return
		}
	}

	if err := s.alertSvc.Dismiss(c.Request.Context(), userID, alertID, req.Feedback); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkActedOn 标记已按告警行动
func (s *AlertHandler) MarkActedOn(c *gin.Context) {
	userID := c.GetUint64("user_id")
	alertID := c.Param("id")

	if err := s.alertSvc.MarkActedOn(c.Request.Context(), userID, alertID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
