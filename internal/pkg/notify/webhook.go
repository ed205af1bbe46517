package notify

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/model"
	"context"
	"time"

	log "log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Notifier 告警外推通道
type Notifier interface {
	PushAlert(ctx context.Context, webhookURL string, alert *model.SmartAlert) error
}

type webhookNotifier struct {
	client     *resty.Client
	defaultURL string
}

func NewWebhookNotifier(cfg config.NotifyConfig) Notifier {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond)
	return &webhookNotifier{
		client:     client,
		defaultURL: cfg.WebhookURL,
	}
}

// PushAlert 推送一条告警。webhookURL 为空时回落到全局配置地址，
// 两者都为空视为未开启外推，直接返回
func (n *webhookNotifier) PushAlert(ctx context.Context, webhookURL string, alert *model.SmartAlert) error {
	url := webhookURL
	if url == "" {
		url = n.defaultURL
	}
	if url == "" {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(alert).
		Post(url)
	if err != nil {
		return errors.Wrap(err, "webhook 推送失败")
	}
	if resp.IsError() {
		log.WarnContext(ctx, "webhook 返回非 2xx", "status", resp.StatusCode(), "alert_id", alert.ID)
		return errors.Errorf("webhook 返回状态码 %d", resp.StatusCode())
	}
	return nil
}
