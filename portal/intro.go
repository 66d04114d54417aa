package portal

import (
	"context"
	"strings"
)

// skipAction is one way out of the intro/welcome interstitial. Ordered by
// reliability: the explicit skip control first, then localized label
// variants, English last.
type skipAction struct {
	selector string
	pattern  string // empty = plain selector click
}

var skipActions = []skipAction{
	{selector: "#Skip"},
	{selector: "a", pattern: "לא צריך להראות לי את זה שוב"},
	{selector: "a", pattern: "Got it"},
	{selector: "button", pattern: "המשך"},
	{selector: "a", pattern: "המשך"},
	{selector: "button", pattern: "כניסה לאזור האישי"},
	{selector: "a", pattern: "כניסה לאזור האישי"},
}

// looksLikeIntro reports whether the session is stuck on the welcome
// interstitial, by URL fragment or known container elements.
func looksLikeIntro(s *Session) bool {
	if strings.Contains(s.URL(), "IntroScreen") {
		return true
	}
	return s.HasAny("#IntroContainer", "#Skip")
}

// bypassIntro tries the ordered skip actions; when none are clickable it
// forces a re-navigation to the grades page as a last resort.
func (f *Flow) bypassIntro(ctx context.Context, s *Session) {
	log := f.cfg.Logger
	log.Info("portal: intro screen detected", "url", s.URL())

	for _, action := range skipActions {
		var clicked bool
		if action.pattern == "" {
			clicked = s.Click(ctx, action.selector)
		} else {
			clicked = s.ClickText(ctx, action.selector, action.pattern)
		}
		if clicked {
			log.Info("portal: intro bypassed", "selector", action.selector, "pattern", action.pattern)
			s.WaitQuiet(ctx, f.cfg.QuietWait)
			return
		}
	}

	log.Warn("portal: no skip control clickable, forcing navigation")
	if err := s.Navigate(ctx, f.cfg.GradesURL); err != nil {
		log.Warn("portal: forced navigation failed", "error", err)
	}
}
