package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"Replyradar/internal/model"
	mongopkg "Replyradar/internal/pkg/mongo"
	"Replyradar/internal/pkg/notify"
	"Replyradar/internal/pkg/util"
	"Replyradar/internal/repository"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	log "log/slog"

	"github.com/google/uuid"
)

// 告警被拦下的原因，写日志和测试断言用
const (
	SkipNoPreferences = "no preferences configured"
	SkipOutsideWindow = "outside notification window"
	SkipDailyLimit    = "daily alert limit reached"
	SkipNoScore       = "no score available"
	SkipLowScore      = "score below alert threshold"
	SkipDuplicate     = "active alert already exists for this post"
	SkipActiveCap     = "active alert cap reached"
	SkipNoCondition   = "no alert condition met"
)

type AlertService interface {
	// GenerateAlert 尝试为一条帖子生成告警。被门禁拦下时告警为 nil，
	// 第二个返回值给出原因
	GenerateAlert(ctx context.Context, userID, postID uint64) (*dto.AlertDTO, string, error)
	ListActive(ctx context.Context, userID uint64) ([]*dto.AlertDTO, error)
	Dismiss(ctx context.Context, userID uint64, alertID string, feedback string) error
	MarkActedOn(ctx context.Context, userID uint64, alertID string) error
}

type alertServiceImpl struct {
	cfg        config.AlertConfig
	alertRepo  repository.AlertRepo
	prefsRepo  repository.PreferencesRepo
	scoreRepo  repository.ScoreRepo
	decayRepo  repository.DecayRepo
	postRepo   repository.TrackedPostRepo
	signalRepo mongopkg.LearningSignalRepo
	notifier   notify.Notifier
}

func NewAlertService(
	cfg config.AlertConfig,
	alertRepo repository.AlertRepo,
	prefsRepo repository.PreferencesRepo,
	scoreRepo repository.ScoreRepo,
	decayRepo repository.DecayRepo,
	postRepo repository.TrackedPostRepo,
	signalRepo mongopkg.LearningSignalRepo,
	notifier notify.Notifier,
) AlertService {
	return &alertServiceImpl{
		cfg:        cfg,
		alertRepo:  alertRepo,
		prefsRepo:  prefsRepo,
		scoreRepo:  scoreRepo,
		decayRepo:  decayRepo,
		postRepo:   postRepo,
		signalRepo: signalRepo,
		notifier:   notifier,
	}
}

func (s *alertServiceImpl) GenerateAlert(ctx context.Context, userID, postID uint64) (*dto.AlertDTO, string, error) {
	now := time.Now()

	prefs, err := s.prefsRepo.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "查询告警偏好失败", "err", err, "user_id", userID)
		return nil, "", UnExpectedError
	}
	if prefs == nil {
		return nil, SkipNoPreferences, nil
	}
	if hour := now.Hour(); hour < prefs.TimeWindowStart || hour >= prefs.TimeWindowEnd {
		return nil, SkipOutsideWindow, nil
	}

	countToday, err := s.alertRepo.CountToday(ctx, userID, now)
	if err != nil {
		log.ErrorContext(ctx, "统计今日告警失败", "err", err, "user_id", userID)
		return nil, "", UnExpectedError
	}
	if countToday >= int64(prefs.MaxAlertsPerDay) {
		return nil, SkipDailyLimit, nil
	}

	score, err := s.scoreRepo.Latest(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询最新评分失败", "err", err, "post_id", postID)
		return nil, "", UnExpectedError
	}
	if score == nil {
		return nil, SkipNoScore, nil
	}
	if score.FinalScore < s.cfg.MinScore {
		return nil, SkipLowScore, nil
	}

	exists, err := s.alertRepo.ExistsActiveForPost(ctx, userID, postID, now)
	if err != nil {
		log.ErrorContext(ctx, "告警去重检查失败", "err", err, "post_id", postID)
		return nil, "", UnExpectedError
	}
	if exists {
		return nil, SkipDuplicate, nil
	}

	countActive, err := s.alertRepo.CountActive(ctx, userID, now)
	if err != nil {
		log.ErrorContext(ctx, "统计活跃告警失败", "err", err, "user_id", userID)
		return nil, "", UnExpectedError
	}
	if countActive >= int64(s.cfg.MaxActive) {
		return nil, SkipActiveCap, nil
	}

	decay, err := s.decayRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询衰减指标失败", "err", err, "post_id", postID)
		return nil, "", UnExpectedError
	}
	post, err := s.postRepo.Get(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", postID)
		return nil, "", UnExpectedError
	}
	if post == nil {
		return nil, "", ErrPostNotFound
	}

	windowRemaining := remainingWindowMinutes(decay, now)
	alertType := decideAlertType(score, decay, post, windowRemaining)
	if alertType == "" {
		return nil, SkipNoCondition, nil
	}

	alert := s.buildAlert(userID, post, score, decay, alertType, windowRemaining, now)
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		log.ErrorContext(ctx, "告警落库失败", "err", err, "post_id", postID)
		return nil, "", UnExpectedError
	}

	// 外推失败只记日志，不影响告警本身
	if s.notifier != nil {
		if err := s.notifier.PushAlert(ctx, prefs.WebhookURL, alert); err != nil {
			log.WarnContext(ctx, "告警外推失败", "err", err, "alert_id", alert.ID)
		}
	}

	return alertToDTO(alert), "", nil
}

// ListActive 按紧急程度升序（CRITICAL 在前），同级按创建时间倒序
func (s *alertServiceImpl) ListActive(ctx context.Context, userID uint64) ([]*dto.AlertDTO, error) {
	alerts, err := s.alertRepo.ListActive(ctx, userID, time.Now())
	if err != nil {
		log.ErrorContext(ctx, "查询活跃告警失败", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := model.UrgencyRank[alerts[i].Urgency], model.UrgencyRank[alerts[j].Urgency]
		if ri != rj {
			return ri < rj
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	if len(alerts) > s.cfg.MaxListSize {
		alerts = alerts[:s.cfg.MaxListSize]
	}

	out := make([]*dto.AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertToDTO(a))
	}
	return out, nil
}

func (s *alertServiceImpl) Dismiss(ctx context.Context, userID uint64, alertID string, feedback string) error {
	alert, err := s.resolveAlert(ctx, userID, alertID)
	if err != nil {
		return err
	}

	if err := s.alertRepo.Update(ctx, alertID, map[string]interface{}{"dismissed": true}); err != nil {
		log.ErrorContext(ctx, "更新告警失败", "err", err, "alert_id", alertID)
		return UnExpectedError
	}

	if feedback != "" && s.signalRepo != nil {
		signal := &mongopkg.LearningSignal{
			UserID:     userID,
			SignalType: mongopkg.SignalAlertDismissed,
			Confidence: 0.7,
			Payload:    map[string]interface{}{"feedback": feedback, "alert_type": alert.Type},
			CreatedAt:  time.Now(),
		}
		if alert.PostID != nil {
			signal.PostID = *alert.PostID
		}
		if err := s.signalRepo.Append(ctx, signal); err != nil {
			log.WarnContext(ctx, "学习信号写入失败", "err", err, "alert_id", alertID)
		}
	}
	return nil
}

func (s *alertServiceImpl) MarkActedOn(ctx context.Context, userID uint64, alertID string) error {
	alert, err := s.resolveAlert(ctx, userID, alertID)
	if err != nil {
		return err
	}

	if err := s.alertRepo.Update(ctx, alertID, map[string]interface{}{"acted_on": true}); err != nil {
		log.ErrorContext(ctx, "更新告警失败", "err", err, "alert_id", alertID)
		return UnExpectedError
	}

	if s.signalRepo != nil {
		signal := &mongopkg.LearningSignal{
			UserID:     userID,
			SignalType: mongopkg.SignalAlertActedOn,
			Confidence: 0.9,
			Payload:    map[string]interface{}{"alert_type": alert.Type},
			CreatedAt:  time.Now(),
		}
		if alert.PostID != nil {
			signal.PostID = *alert.PostID
		}
		if err := s.signalRepo.Append(ctx, signal); err != nil {
			log.WarnContext(ctx, "学习信号写入失败", "err", err, "alert_id", alertID)
		}
	}
	return nil
}

// resolveAlert 归属校验 + 终态校验
func (s *alertServiceImpl) resolveAlert(ctx context.Context, userID uint64, alertID string) (*model.SmartAlert, error) {
	alert, err := s.alertRepo.Get(ctx, alertID)
	if err != nil {
		log.ErrorContext(ctx, "查询告警失败", "err", err, "alert_id", alertID)
		return nil, UnExpectedError
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}
	if alert.UserID != userID {
		return nil, UnauthorizedError
	}
	if alert.Dismissed || alert.ActedOn {
		return nil, ErrAlertResolved
	}
	return alert, nil
}

// remainingWindowMinutes 复活窗口剩余分钟数，无窗口或已关窗返回 -1
func remainingWindowMinutes(decay *model.DecayMetric, now time.Time) int {
	if decay == nil || decay.ReviveWindowEnd == nil {
		return -1
	}
	remaining := decay.ReviveWindowEnd.Sub(now).Minutes()
	if remaining <= 0 {
		return -1
	}
	return int(math.Round(remaining))
}

// decideAlertType 按固定优先级决定告警类型，全不命中返回空串
func decideAlertType(score *model.PostScore, decay *model.DecayMetric, post *model.TrackedPost, windowRemaining int) string {
	if decay != nil &&
		(decay.Phase == model.PhaseDecay || decay.Phase == model.PhasePeak) &&
		decay.ReviveProbability >= 60 {
		return model.AlertTypeReviveSignal
	}
	if score.FinalScore >= 80 {
		return model.AlertTypeReplyNow
	}
	if score.Velocity.GrowthRate >= 2.5 {
		return model.AlertTypeVelocitySpike
	}
	if post.AuthorActive {
		return model.AlertTypeAuthorActive
	}
	if windowRemaining > 0 && windowRemaining <= 15 {
		return model.AlertTypeWindowClosing
	}
	return ""
}

// decideUrgency 剩余窗口和分值共同决定紧急程度
func decideUrgency(score *model.PostScore, decay *model.DecayMetric, windowRemaining int) string {
	if (windowRemaining > 0 && windowRemaining <= 5) || score.FinalScore >= 90 {
		return model.UrgencyCritical
	}
	if score.FinalScore >= 80 ||
		(windowRemaining > 0 && windowRemaining <= 15) ||
		(decay != nil && decay.Phase == model.PhaseDecay) {
		return model.UrgencyHigh
	}
	return model.UrgencyMedium
}

// 无衰减数据时按阶段未知给的兜底窗口（分钟）：最优/关窗
var phaseWindowDefaults = map[string][2]int{
	model.PhaseGrowth:   {30, 60},
	model.PhasePeak:     {15, 30},
	model.PhaseDecay:    {10, 20},
	model.PhaseFlatline: {5, 10},
}

func (s *alertServiceImpl) buildAlert(
	userID uint64,
	post *model.TrackedPost,
	score *model.PostScore,
	decay *model.DecayMetric,
	alertType string,
	windowRemaining int,
	now time.Time,
) *model.SmartAlert {
	var optimal, closing int
	switch {
	case windowRemaining > 0:
		optimal = int(math.Round(float64(windowRemaining) * 0.5))
		closing = windowRemaining
	case decay != nil:
		w := phaseWindowDefaults[decay.Phase]
		optimal, closing = w[0], w[1]
	default:
		optimal = s.cfg.DefaultExpiryMinutes / 2
		closing = s.cfg.DefaultExpiryMinutes
	}

	expiresAt := now.Add(time.Duration(closing) * time.Minute)
	title, message := alertCopy(alertType, post, score, closing)

	postID := post.ID
	return &model.SmartAlert{
		ID:                   uuid.NewString(),
		UserID:               userID,
		PostID:               &postID,
		Type:                 alertType,
		Urgency:              decideUrgency(score, decay, windowRemaining),
		Title:                title,
		Message:              message,
		OptimalWindowMinutes: util.PtrInt(optimal),
		ClosingWindowMinutes: util.PtrInt(closing),
		CreatedAt:            now,
		ExpiresAt:            &expiresAt,
	}
}

// alertCopy 各类型告警的标题与正文
func alertCopy(alertType string, post *model.TrackedPost, score *model.PostScore, closing int) (string, string) {
	switch alertType {
	case model.AlertTypeReviveSignal:
		return fmt.Sprintf("Revive window open for @%s's post", post.AuthorHandle),
			fmt.Sprintf("A reply now has a strong chance of restarting distribution. Window closes in about %d minutes.", closing)
	case model.AlertTypeReplyNow:
		return fmt.Sprintf("Reply now: @%s (score %d)", post.AuthorHandle, score.FinalScore),
			fmt.Sprintf("This post scores %d/100 as a reply opportunity. Best within the next %d minutes.", score.FinalScore, closing)
	case model.AlertTypeVelocitySpike:
		return fmt.Sprintf("@%s's post is taking off", post.AuthorHandle),
			fmt.Sprintf("Engagement is growing at %.1f interactions/minute. Early replies ride the wave.", score.Velocity.GrowthRate)
	case model.AlertTypeAuthorActive:
		return fmt.Sprintf("@%s is active right now", post.AuthorHandle),
			"The author is currently engaging with replies. A reply now is more likely to get a response."
	case model.AlertTypeWindowClosing:
		return fmt.Sprintf("Window closing for @%s's post", post.AuthorHandle),
			fmt.Sprintf("About %d minutes left before this opportunity fades.", closing)
	default:
		return "Engagement opportunity", "A tracked post crossed the alert threshold."
	}
}

func alertToDTO(alert *model.SmartAlert) *dto.AlertDTO {
	return &dto.AlertDTO{
		ID:                   alert.ID,
		PostID:               alert.PostID,
		Type:                 alert.Type,
		Urgency:              alert.Urgency,
		Title:                alert.Title,
		Message:              alert.Message,
		OptimalWindowMinutes: alert.OptimalWindowMinutes,
		ClosingWindowMinutes: alert.ClosingWindowMinutes,
		CreatedAt:            alert.CreatedAt,
		ExpiresAt:            alert.ExpiresAt,
	}
}
