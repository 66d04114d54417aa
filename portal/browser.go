// Package portal drives a headless-Chrome session through the student
// portal's authentication maze until the grade data is reachable. It owns
// the browser lifecycle, the per-attempt isolated sessions, and the
// navigation/login state machine that copes with interstitial screens,
// several login form variants, and default result filters.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserConfig controls Chrome lifecycle and page identity.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	Remote string `yaml:"remote"`

	// Headful disables headless mode for local debugging.
	Headful bool `yaml:"headful"`

	UserAgent      string `yaml:"user_agent"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`

	// Lang is passed to Chrome as --lang. The portal localises its labels
	// by browser language, and the selector tables assume Hebrew.
	Lang string `yaml:"lang"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *BrowserConfig) defaults() {
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1600
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 900
	}
	if c.Lang == "" {
		c.Lang = "he-IL"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Launcher manages one Chrome process and hands out isolated sessions.
// Sessions run sequentially, one extraction attempt at a time; each gets
// its own incognito context so login state never leaks between attempts.
type Launcher struct {
	cfg     BrowserConfig
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewLauncher creates a Launcher. Call Start before NewSession.
func NewLauncher(cfg BrowserConfig) *Launcher {
	cfg.defaults()
	return &Launcher{cfg: cfg}
}

// Start launches Chrome or connects to a remote instance.
func (l *Launcher) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("portal: launcher is closed")
	}
	if l.browser != nil {
		return nil
	}

	log := l.cfg.Logger
	var wsURL string

	if l.cfg.Remote != "" {
		wsURL = l.cfg.Remote
		log.Info("portal: connecting to remote browser", "url", wsURL)
	} else {
		ln := launcher.New().
			Headless(!l.cfg.Headful).
			Set("disable-blink-features", "AutomationControlled").
			Set("lang", l.cfg.Lang)

		u, err := ln.Launch()
		if err != nil {
			return fmt.Errorf("portal: launch chrome: %w", err)
		}
		wsURL = u
		l.lnch = ln
		log.Info("portal: launched local chrome", "headful", l.cfg.Headful)
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("portal: connect: %w", err)
	}
	l.browser = b
	return nil
}

// NewSession opens an isolated incognito context with a stealth page,
// desktop viewport, and the configured user agent. The caller must Close
// the session on all exit paths.
func (l *Launcher) NewSession(ctx context.Context) (*Session, error) {
	l.mu.Lock()
	b := l.browser
	l.mu.Unlock()

	if b == nil {
		return nil, fmt.Errorf("portal: launcher not started")
	}

	incog, err := b.Incognito()
	if err != nil {
		return nil, fmt.Errorf("portal: incognito context: %w", err)
	}

	page, err := stealth.Page(incog)
	if err != nil {
		disposeContext(incog)
		return nil, fmt.Errorf("portal: stealth page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: l.cfg.UserAgent,
	}); err != nil {
		l.cfg.Logger.Warn("portal: set user agent failed", "error", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             l.cfg.ViewportWidth,
		Height:            l.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		l.cfg.Logger.Warn("portal: set viewport failed", "error", err)
	}

	return &Session{
		incognito: incog,
		page:      page,
		logger:    l.cfg.Logger,
	}, nil
}

// Close shuts down Chrome.
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true

	if l.browser != nil {
		l.browser.Close()
		l.browser = nil
	}
	if l.lnch != nil {
		l.lnch.Cleanup()
		l.lnch = nil
	}
	return nil
}

func disposeContext(incog *rod.Browser) {
	if incog.BrowserContextID == "" {
		return
	}
	_ = proto.TargetDisposeBrowserContext{
		BrowserContextID: incog.BrowserContextID,
	}.Call(incog)
}
