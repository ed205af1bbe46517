package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"Replyradar/internal/model"
	"Replyradar/internal/repository"
	"context"

	log "log/slog"
)

type PreferencesService interface {
	GetPreferences(ctx context.Context, userID uint64) (*dto.PreferencesDTO, error)
	UpdatePreferences(ctx context.Context, userID uint64, in *dto.PreferencesDTO) error
}

type preferencesServiceImpl struct {
	cfg       config.AlertConfig
	prefsRepo repository.PreferencesRepo
}

func NewPreferencesService(cfg config.AlertConfig, prefsRepo repository.PreferencesRepo) PreferencesService {
	return &preferencesServiceImpl{cfg: cfg, prefsRepo: prefsRepo}
}

// GetPreferences 首次读取惰性创建缺省偏好并落库，
// 这样告警扫描任务能按 ListUserIDs 找到该用户
func (s *preferencesServiceImpl) GetPreferences(ctx context.Context, userID uint64) (*dto.PreferencesDTO, error) {
	prefs, err := s.prefsRepo.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "查询告警偏好失败", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	if prefs == nil {
		prefs = defaultPreferences(userID)
		if err := s.prefsRepo.Upsert(ctx, prefs); err != nil {
			log.ErrorContext(ctx, "偏好落库失败", "err", err, "user_id", userID)
			return nil, UnExpectedError
		}
	}
	return preferencesToDTO(prefs), nil
}

func (s *preferencesServiceImpl) UpdatePreferences(ctx context.Context, userID uint64, in *dto.PreferencesDTO) error {
	if in.TimeWindowStart >= in.TimeWindowEnd {
		return ErrParamInvalid
	}

	prefs := &model.UserPreferences{
		UserID:          userID,
		MaxAlertsPerDay: in.MaxAlertsPerDay,
		TimeWindowStart: in.TimeWindowStart,
		TimeWindowEnd:   in.TimeWindowEnd,
		WebhookURL:      in.WebhookURL,
	}
	if err := s.prefsRepo.Upsert(ctx, prefs); err != nil {
		log.ErrorContext(ctx, "偏好落库失败", "err", err, "user_id", userID)
		return UnExpectedError
	}
	return nil
}

func defaultPreferences(userID uint64) *model.UserPreferences {
	return &model.UserPreferences{
		UserID:          userID,
		MaxAlertsPerDay: 10,
		TimeWindowStart: 9,
		TimeWindowEnd:   22,
	}
}

func preferencesToDTO(prefs *model.UserPreferences) *dto.PreferencesDTO {
	return &dto.PreferencesDTO{
		MaxAlertsPerDay: prefs.MaxAlertsPerDay,
		TimeWindowStart: prefs.TimeWindowStart,
		TimeWindowEnd:   prefs.TimeWindowEnd,
		WebhookURL:      prefs.WebhookURL,
	}
}
