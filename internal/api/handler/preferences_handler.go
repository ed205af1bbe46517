package handler

import (
	"Replyradar/internal/api/dto"
	"Replyradar/internal/pkg/response"
	"Replyradar/internal/service"

	"github.com/gin-gonic/gin"
)

type PreferencesHandler struct {
	preferencesSvc service.PreferencesService
}

func NewPreferencesHandler(preferencesSvc service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{
		preferencesSvc: preferencesSvc,
	}
}

func (s *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID := c.GetUint64("user_id")

	prefs, err := s.preferencesSvc.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, prefs)
}

func (s *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PreferencesDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.preferencesSvc.UpdatePreferences(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
