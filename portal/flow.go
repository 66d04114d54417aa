package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// State of one navigation attempt. Lives only for the duration of a
// session; never persisted.
type State int

const (
	StateUnknown State = iota
	StateIntro
	StateLogin
	StateDataReady
	StateTimedOut
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StateLogin:
		return "login"
	case StateDataReady:
		return "data-ready"
	case StateTimedOut:
		return "timed-out"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrNotReady is returned when the deadline elapsed before the data-ready
// predicate held. It marks a recoverable failure of one extraction attempt,
// not of the whole cycle.
var ErrNotReady = errors.New("portal: data not ready before deadline")

// FlowConfig tunes the navigation state machine.
type FlowConfig struct {
	// GradesURL is the target data page.
	GradesURL string

	Credentials Credentials

	// Deadline bounds one full attempt. Default: 60s.
	Deadline time.Duration
	// PollInterval is the idle re-check interval. Default: 2s.
	PollInterval time.Duration
	// QuietWait bounds post-action network quiescence waits. Default: 10s.
	QuietWait time.Duration

	// Artifacts, when set, receives a screenshot and HTML dump on failure.
	Artifacts *Artifacts

	Logger *slog.Logger
}

func (c *FlowConfig) defaults() {
	if c.Deadline <= 0 {
		c.Deadline = 60 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.QuietWait <= 0 {
		c.QuietWait = 10 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Flow drives a session toward the data-ready state. It transparently
// handles, in any order and any number of repetitions: intro interstitials,
// the known login form variants, and stray redirects away from the grades
// page.
type Flow struct {
	cfg FlowConfig
}

// NewFlow creates a Flow with defaults applied.
func NewFlow(cfg FlowConfig) *Flow {
	cfg.defaults()
	return &Flow{cfg: cfg}
}

// Drive navigates to the grades page and loops until ready returns true or
// the deadline elapses. On expiry it captures diagnostic artifacts under
// the given tag and returns ErrNotReady.
func (f *Flow) Drive(ctx context.Context, s *Session, tag string, ready func(context.Context) bool) error {
	log := f.cfg.Logger
	deadline := time.Now().Add(f.cfg.Deadline)

	if err := s.Navigate(ctx, f.cfg.GradesURL); err != nil {
		return fmt.Errorf("portal: initial navigation: %w", err)
	}

	state := StateUnknown
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if ready(ctx) {
			state = StateDataReady
			log.Info("portal: data ready", "url", s.URL())
			return nil
		}

		next := f.classify(s)
		if next != state {
			log.Info("portal: state change", "from", state.String(), "to", next.String(), "url", s.URL())
			state = next
		}

		switch state {
		case StateLogin:
			v, ok := detectVariant(s.Has)
			if !ok {
				// Login-looking URL but no known form yet; the page is
				// still rendering.
				f.sleep(ctx)
				continue
			}
			if err := f.submitLogin(ctx, s, v); err != nil {
				log.Warn("portal: login attempt failed", "error", err)
				f.sleep(ctx)
				continue
			}
			// Some variants land on a dashboard instead of the data page.
			if !strings.Contains(s.URL(), dataPath(f.cfg.GradesURL)) {
				if err := s.Navigate(ctx, f.cfg.GradesURL); err != nil {
					log.Warn("portal: post-login navigation failed", "error", err)
				}
			}

		case StateIntro:
			f.bypassIntro(ctx, s)

		default:
			f.sleep(ctx)
		}
	}

	log.Warn("portal: attempt deadline elapsed", "tag", tag, "url", s.URL())
	if f.cfg.Artifacts != nil {
		f.cfg.Artifacts.Capture(ctx, s, tag)
	}
	return ErrNotReady
}

// classify decides what obstacle the session is currently facing. Login
// wins over intro: some identity providers render their own welcome chrome
// that would otherwise shadow the form.
func (f *Flow) classify(s *Session) State {
	if _, ok := detectVariant(s.Has); ok || looksLikeLoginURL(s.URL()) {
		return StateLogin
	}
	if looksLikeIntro(s) {
		return StateIntro
	}
	return StateUnknown
}

// dataPath reduces the grades URL to its path so redirect checks ignore
// scheme and host differences introduced by the identity provider.
func dataPath(gradesURL string) string {
	if u, err := url.Parse(gradesURL); err == nil && u.Path != "" {
		return u.Path
	}
	return gradesURL
}

func (f *Flow) sleep(ctx context.Context) {
	select {
	case <-time.After(f.cfg.PollInterval):
	case <-ctx.Done():
	}
}
