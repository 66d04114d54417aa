package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/gradewatch/grades"
	"github.com/hazyhaar/gradewatch/portal"
)

// DOMConfig lists the table selectors in fallback order; the portal renders
// different markup across variants.
type DOMConfig struct {
	TableSelectors []string `yaml:"table_selectors"`
}

func (c *DOMConfig) defaults() {
	if len(c.TableSelectors) == 0 {
		c.TableSelectors = []string{
			"#b22-Table table",
			"#b22-Table",
			"div.tau-Table-container table",
			`table.table[role="grid"]`,
		}
	}
}

// DOM is the secondary strategy: it waits for the grades table to render,
// clears the default filters, and walks the table rows.
type DOM struct {
	launcher  *portal.Launcher
	flow      *portal.Flow
	cfg       DOMConfig
	artifacts *portal.Artifacts
	logger    *slog.Logger
}

// NewDOM creates the DOM-table strategy.
func NewDOM(l *portal.Launcher, flow *portal.Flow, cfg DOMConfig, artifacts *portal.Artifacts, logger *slog.Logger) *DOM {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &DOM{launcher: l, flow: flow, cfg: cfg, artifacts: artifacts, logger: logger}
}

func (d *DOM) Name() string { return "dom" }

// Attempt opens an isolated session with its own login flow, independent of
// any earlier attempt's session state.
func (d *DOM) Attempt(ctx context.Context) ([]grades.RawRow, error) {
	sess, err := d.launcher.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: dom: %w", err)
	}
	defer sess.Close()

	err = d.flow.Drive(ctx, sess, "dom_no_table", func(context.Context) bool {
		return sess.HasAny(d.cfg.TableSelectors...)
	})
	if err != nil {
		return nil, fmt.Errorf("extract: dom: %w", err)
	}

	// The default filter widget restricts visible rows; clear it before
	// reading the table.
	d.flow.ClearFilters(ctx, sess)

	table, ok := sess.Find(d.cfg.TableSelectors...)
	if !ok {
		// Filter clearing re-rendered the container and the table vanished.
		d.artifacts.Capture(ctx, sess, "dom_table_lost")
		return nil, fmt.Errorf("extract: dom: table disappeared after filter clearing")
	}

	html, err := table.HTML()
	if err != nil {
		return nil, fmt.Errorf("extract: dom: table html: %w", err)
	}

	rows, err := ParseTable(html)
	if err != nil {
		return nil, fmt.Errorf("extract: dom: %w", err)
	}
	if len(rows) == 0 {
		d.artifacts.Capture(ctx, sess, "dom_no_rows")
	}

	d.logger.Info("extract: dom attempt done", "rows", len(rows))
	return rows, nil
}
