package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Session is one isolated browsing session. All waits are bounded; element
// probes are one-shot and never block on a missing selector.
type Session struct {
	incognito *rod.Browser
	page      *rod.Page
	logger    *slog.Logger
}

// Page exposes the underlying Rod page. Extractors use it to attach
// network-response observers before navigation.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Navigate loads url and waits for the load event, best effort.
func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("portal: navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		s.logger.Debug("portal: wait load", "url", url, "error", err)
	}
	return nil
}

// URL returns the page's current URL, or empty on error.
func (s *Session) URL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// Has reports whether an element matching the selector exists right now.
func (s *Session) Has(selector string) bool {
	ok, _, err := s.page.Has(selector)
	return err == nil && ok
}

// HasAny reports whether any of the selectors matches.
func (s *Session) HasAny(selectors ...string) bool {
	for _, sel := range selectors {
		if s.Has(sel) {
			return true
		}
	}
	return false
}

// Find returns the first element matching any selector in order, which lets
// callers express a fallback chain for markup variants.
func (s *Session) Find(selectors ...string) (*rod.Element, bool) {
	for _, sel := range selectors {
		ok, el, err := s.page.Has(sel)
		if err == nil && ok {
			return el, true
		}
	}
	return nil, false
}

// Click clicks the first element matching the selector. Returns false when
// the element is absent or the click failed.
func (s *Session) Click(ctx context.Context, selector string) bool {
	ok, el, err := s.page.Context(ctx).Has(selector)
	if err != nil || !ok {
		return false
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.logger.Debug("portal: click failed", "selector", selector, "error", err)
		return false
	}
	return true
}

// ClickText clicks the first element matching selector whose text matches
// the regular expression pattern (JS regex syntax).
func (s *Session) ClickText(ctx context.Context, selector, pattern string) bool {
	ok, el, err := s.page.Context(ctx).HasR(selector, pattern)
	if err != nil || !ok {
		return false
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.logger.Debug("portal: click failed", "selector", selector, "pattern", pattern, "error", err)
		return false
	}
	return true
}

// Fill replaces the value of the input matching the selector.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	ok, el, err := s.page.Context(ctx).Has(selector)
	if err != nil {
		return fmt.Errorf("portal: fill %s: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("portal: fill %s: element not found", selector)
	}
	if err := el.SelectAllText(); err != nil {
		s.logger.Debug("portal: select text", "selector", selector, "error", err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("portal: fill %s: %w", selector, err)
	}
	return nil
}

// PressEnter submits the focused form.
func (s *Session) PressEnter() error {
	return s.page.Keyboard.Type(input.Enter)
}

// WaitQuiet waits up to d for network quiescence. A page that never goes
// quiet is not an error; the state machine re-probes on its own schedule.
func (s *Session) WaitQuiet(ctx context.Context, d time.Duration) {
	waitCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	wait := s.page.Context(waitCtx).WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
	wait()
}

// HTML returns the current page content.
func (s *Session) HTML() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("portal: page html: %w", err)
	}
	return html, nil
}

// Screenshot captures a full-page screenshot.
func (s *Session) Screenshot() ([]byte, error) {
	data, err := s.page.Screenshot(true, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: screenshot: %w", err)
	}
	return data, nil
}

// Close tears down the page and its incognito context. Safe on all exit
// paths; errors are logged only.
func (s *Session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.logger.Debug("portal: close page", "error", err)
		}
		s.page = nil
	}
	if s.incognito != nil {
		disposeContext(s.incognito)
		s.incognito = nil
	}
}
