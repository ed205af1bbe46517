package handler

import (
	"Replyradar/internal/pkg/response"
	"Replyradar/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	predictionSvc service.PredictionService
}

func NewPredictionHandler(predictionSvc service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionSvc: predictionSvc,
	}
}

// PredictOutcome 预测现在回复这条帖子的结果
func (s *PredictionHandler) PredictOutcome(c *gin.Context) {
	userID := c.GetUint64("user_id")

	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	prediction, err := s.predictionSvc.PredictOutcome(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prediction)
}
