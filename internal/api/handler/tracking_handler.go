package handler

import (
	"Replyradar/internal/api/dto"
	"Replyradar/internal/pkg/consts"
	"Replyradar/internal/pkg/redis"
	"Replyradar/internal/pkg/response"
	"Replyradar/internal/service"
	log "log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	trackingSvc service.TrackingService
}

func NewTrackingHandler(trackingSvc service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingSvc: trackingSvc,
	}
}

func (s *TrackingHandler) TrackPost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.TrackPostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.trackingSvc.TrackPost(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TrackingHandler) UntrackPost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.trackingSvc.UntrackPost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TrackingHandler) ListTracked(c *gin.Context) {
	userID := c.GetUint64("user_id")

	posts, err := s.trackingSvc.ListTracked(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// CaptureSnapshot 手工补录快照，与 Kafka 采集同一条入库路径。
// 入库成功后标脏，等重算任务刷新评分
func (s *TrackingHandler) CaptureSnapshot(c *gin.Context) {
	var req dto.SnapshotDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	captured, err := s.trackingSvc.CaptureSnapshot(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if captured {
		key := strconv.FormatUint(req.PostID, 10)
		if err := redis.SAdd(c.Request.Context(), consts.PostDirtyKey, key); err != nil {
			log.WarnContext(c.Request.Context(), "标脏失败", "post_id", req.PostID, "err", err)
		}
	}

	response.Success(c, gin.H{"captured": captured})
}
