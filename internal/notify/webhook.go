package notify

import (
	"time"

	"pontotaxi/backend/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WebhookNotifier POSTs new submissions to an external endpoint (the
// company's ticketing integration).
type WebhookNotifier struct {
	URL    string
	client *resty.Client
	log    *zap.Logger
}

func NewWebhookNotifier(url string, log *zap.Logger) *WebhookNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &WebhookNotifier{URL: url, client: client, log: log}
}

// NotifyNewMessage delivers the message as JSON.
func (n *WebhookNotifier) NotifyNewMessage(msg *models.Message) {
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(n.URL)
	if err != nil {
		n.log.Warn("webhook notification failed",
			zap.String("protocol", msg.Protocol), zap.Error(err))
		return
	}
	if resp.IsError() {
		n.log.Warn("webhook notification rejected",
			zap.String("protocol", msg.Protocol), zap.Int("status", resp.StatusCode()))
	}
}

// Fanout notifies every configured target.
type Fanout []interface {
	NotifyNewMessage(msg *models.Message)
}

// NotifyNewMessage implements the messages.Notifier hook.
func (f Fanout) NotifyNewMessage(msg *models.Message) {
	for _, n := range f {
		n.NotifyNewMessage(msg)
	}
}
