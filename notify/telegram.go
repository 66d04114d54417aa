package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const telegramEndpoint = "https://api.telegram.org"

// Telegram delivers messages through the Telegram bot API with retries.
type Telegram struct {
	token  string
	chatID string
	client *resty.Client
	logger *slog.Logger
}

// TelegramOption configures a Telegram notifier.
type TelegramOption func(*Telegram)

// WithEndpoint overrides the API base URL. Used in tests.
func WithEndpoint(url string) TelegramOption {
	return func(t *Telegram) { t.client.SetBaseURL(url) }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) TelegramOption {
	return func(t *Telegram) { t.logger = l }
}

// NewTelegram creates a Telegram notifier for the given bot token and chat.
func NewTelegram(token, chatID string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		token:  token,
		chatID: chatID,
		client: resty.New().
			SetBaseURL(telegramEndpoint).
			SetTimeout(10 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(time.Second),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Send posts the message with Markdown parse mode.
func (t *Telegram) Send(ctx context.Context, text string) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		Post(fmt.Sprintf("/bot%s/sendMessage", t.token))
	if err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram: send: status %d: %s", resp.StatusCode(), resp.String())
	}
	t.logger.Info("telegram: notification sent", "chars", len(text))
	return nil
}
