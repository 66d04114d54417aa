// Package notify renders grade-change messages and delivers them. The
// retrieval core only depends on the Notifier interface; delivery failures
// are never fatal to a monitoring cycle.
package notify

import "context"

// Notifier delivers a rendered message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Discard is a Notifier that drops every message. Used when no delivery
// channel is configured and in tests.
type Discard struct{}

func (Discard) Send(ctx context.Context, text string) error { return nil }
