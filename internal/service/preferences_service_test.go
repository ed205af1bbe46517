package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPreferencesFixture() (*preferencesServiceImpl, *fakePreferencesRepo) {
	engine := config.DefaultEngineConfig()
	prefsRepo := newFakePreferencesRepo()
	svc := NewPreferencesService(engine.Alert, prefsRepo).(*preferencesServiceImpl)
	return svc, prefsRepo
}

func TestGetPreferencesCreatesDefaults(t *testing.T) {
	svc, prefsRepo := newPreferencesFixture()

	prefs, err := svc.GetPreferences(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, prefs.MaxAlertsPerDay)
	assert.Equal(t, 9, prefs.TimeWindowStart)
	assert.Equal(t, 22, prefs.TimeWindowEnd)

	// 缺省偏好落库，告警扫描任务才能找到该用户
	stored, err := prefsRepo.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, stored)

	userIDs, err := prefsRepo.ListUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, userIDs)
}

func TestUpdatePreferencesRoundTrip(t *testing.T) {
	svc, _ := newPreferencesFixture()

	in := &dto.PreferencesDTO{
		MaxAlertsPerDay: 5,
		TimeWindowStart: 8,
		TimeWindowEnd:   20,
		WebhookURL:      "https://hooks.example.com/replyradar",
	}
	require.NoError(t, svc.UpdatePreferences(context.Background(), 1, in))

	prefs, err := svc.GetPreferences(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, prefs.MaxAlertsPerDay)
	assert.Equal(t, 8, prefs.TimeWindowStart)
	assert.Equal(t, 20, prefs.TimeWindowEnd)
	assert.Equal(t, "https://hooks.example.com/replyradar", prefs.WebhookURL)
}

func TestUpdatePreferencesRejectsInvertedWindow(t *testing.T) {
	svc, _ := newPreferencesFixture()

	err := svc.UpdatePreferences(context.Background(), 1, &dto.PreferencesDTO{
		MaxAlertsPerDay: 5,
		TimeWindowStart: 20,
		TimeWindowEnd:   8,
	})
	assert.ErrorIs(t, err, ErrParamInvalid)
}
