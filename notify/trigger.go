package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Trigger pings a webhook URL after a cycle detected changes, so external
// automations (phone alerts and the like) can react. Fire-and-forget:
// failures are logged, never propagated.
type Trigger struct {
	url    string
	client *resty.Client
	logger *slog.Logger
}

// NewTrigger creates a Trigger for url. An empty URL yields a no-op.
func NewTrigger(url string, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{
		url:    url,
		client: resty.New().SetTimeout(5 * time.Second),
		logger: logger,
	}
}

// Ping fires the webhook.
func (t *Trigger) Ping(ctx context.Context) {
	if t.url == "" {
		return
	}
	resp, err := t.client.R().SetContext(ctx).Get(t.url)
	if err != nil {
		t.logger.Warn("trigger: webhook failed", "url", t.url, "error", err)
		return
	}
	t.logger.Info("trigger: webhook fired", "url", t.url, "status", resp.StatusCode())
}
