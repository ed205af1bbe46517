package handler

import (
	"Replyradar/internal/api/dto"
	"Replyradar/internal/pkg/response"
	"Replyradar/internal/service"

	"github.com/gin-gonic/gin"
)

type LearningHandler struct {
	learningSvc service.LearningService
}

func NewLearningHandler(learningSvc service.LearningService) *LearningHandler {
	return &LearningHandler{
		learningSvc: learningSvc,
	}
}

// RecordOutcome 同步上报一次回复结果。
// 批量采集侧走 Kafka，这里给客户端直连用
func (s *LearningHandler) RecordOutcome(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.OutcomeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.learningSvc.RecordOutcome(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *LearningHandler) GetProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")

	profile, err := s.learningSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *LearningHandler) PersonalizeScore(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PersonalizeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	personalized, err := s.learningSvc.PersonalizeScore(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, personalized)
}
