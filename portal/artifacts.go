package portal

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/microcosm-cc/bluemonday"
)

// Artifacts writes diagnostic captures (screenshot + HTML dump) for failed
// attempts. The HTML is sanitized before persisting so dumps carry no
// scripts or event handlers; selector-relevant attributes are kept for
// debugging markup changes.
type Artifacts struct {
	dir    string
	policy *bluemonday.Policy
	logger *slog.Logger
}

// NewArtifacts creates an artifact writer rooted at dir. An empty dir
// disables capture.
func NewArtifacts(dir string, logger *slog.Logger) *Artifacts {
	if logger == nil {
		logger = slog.Default()
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "id", "name", "data-header", "disabled").Globally()
	policy.AllowElements("button", "input", "table", "thead", "tbody", "tr", "th", "td")
	return &Artifacts{dir: dir, policy: policy, logger: logger}
}

// Capture writes <tag>.png and <tag>.html into the artifact directory.
// Failures are logged; diagnostics must never fail the attempt further.
func (a *Artifacts) Capture(ctx context.Context, s *Session, tag string) {
	if a == nil || a.dir == "" {
		return
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		a.logger.Warn("portal: artifact dir", "dir", a.dir, "error", err)
		return
	}

	if png, err := s.Screenshot(); err != nil {
		a.logger.Warn("portal: artifact screenshot", "tag", tag, "error", err)
	} else {
		path := filepath.Join(a.dir, tag+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			a.logger.Warn("portal: artifact write", "path", path, "error", err)
		}
	}

	if html, err := s.HTML(); err != nil {
		a.logger.Warn("portal: artifact html", "tag", tag, "error", err)
	} else {
		path := filepath.Join(a.dir, tag+".html")
		if err := os.WriteFile(path, []byte(a.sanitize(html)), 0o644); err != nil {
			a.logger.Warn("portal: artifact write", "path", path, "error", err)
		}
	}

	a.logger.Info("portal: diagnostic artifacts saved", "dir", a.dir, "tag", tag)
}

func (a *Artifacts) sanitize(html string) string {
	return a.policy.Sanitize(html)
}
