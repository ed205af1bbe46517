package handler

import (
	"Replyradar/internal/api/dto"
	"Replyradar/internal/pkg/consts"
	"Replyradar/internal/pkg/redis"
	"Replyradar/internal/pkg/response"
	"Replyradar/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type OpportunityHandler struct {
	opportunitySvc service.OpportunityService
	scoringSvc     service.ScoringService
	decaySvc       service.DecayService
}

func NewOpportunityHandler(
	opportunitySvc service.OpportunityService,
	scoringSvc service.ScoringService,
	decaySvc service.DecayService,
) *OpportunityHandler {
	return &OpportunityHandler{
		opportunitySvc: opportunitySvc,
		scoringSvc:     scoringSvc,
		decaySvc:       decaySvc,
	}
}

// GetOpportunity 单帖机会全景
func (s *OpportunityHandler) GetOpportunity(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	opportunity, err := s.opportunitySvc.GetOpportunity(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, opportunity)
}

// RecomputeScore 强制现算一次评分
func (s *OpportunityHandler) RecomputeScore(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	score, err := s.scoringSvc.ComputeScore(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, score)
}

// GetDecay 衰减指标，先读定时任务的缓存，没有现成的就现算
func (s *OpportunityHandler) GetDecay(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if cached, err := redis.GetValue(c.Request.Context(), consts.PostDecayKey+c.Param("id")); err == nil && cached != "" {
		decay := &dto.DecayDTO{}
		if err := json.Unmarshal([]byte(cached), decay); err == nil {
			response.Success(c, decay)
			return
		}
	}

	decay, err := s.decaySvc.GetDecay(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if decay == nil {
		decay, err = s.decaySvc.ComputeDecay(c.Request.Context(), postID)
		if err != nil {
			response.Error(c, err)
			return
		}
	}
	response.Success(c, decay)
}

// PredictRevival 预测复活动作成功率，type 走查询参数
func (s *OpportunityHandler) PredictRevival(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	revivalType := c.Query("type")

	prediction, err := s.decaySvc.PredictRevival(c.Request.Context(), postID, revivalType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prediction)
}
