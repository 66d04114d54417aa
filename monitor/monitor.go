package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/gradewatch/extract"
	"github.com/hazyhaar/gradewatch/grades"
	"github.com/hazyhaar/gradewatch/notify"
)

// Store is the snapshot persistence boundary. Satisfied by cache.Store.
type Store interface {
	Read(ctx context.Context, key string) (grades.Snapshot, error)
	Write(ctx context.Context, key string, snap grades.Snapshot) error
}

// Deps bundles the orchestrator's collaborators. Strategies are tried in
// slice order; the first non-empty result wins.
type Deps struct {
	Strategies []extract.Strategy
	Store      Store
	Notifier   notify.Notifier
	Trigger    *notify.Trigger
	Catalog    grades.Catalog
	Logger     *slog.Logger
}

// Monitor runs grade-monitoring cycles.
type Monitor struct {
	cfg        *Config
	strategies []extract.Strategy
	store      Store
	notifier   notify.Notifier
	trigger    *notify.Trigger
	catalog    grades.Catalog
	logger     *slog.Logger
}

// New creates a Monitor.
func New(cfg *Config, deps Deps) *Monitor {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard{}
	}
	if deps.Catalog == nil {
		deps.Catalog = grades.Catalog{}
	}
	if deps.Trigger == nil {
		deps.Trigger = notify.NewTrigger("", deps.Logger)
	}
	return &Monitor{
		cfg:        cfg,
		strategies: deps.Strategies,
		store:      deps.Store,
		notifier:   deps.Notifier,
		trigger:    deps.Trigger,
		catalog:    deps.Catalog,
		logger:     deps.Logger,
	}
}

// Run executes cycles until the context is cancelled. A failed cycle has
// already been reported; the loop keeps going.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := m.RunCycle(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunCycle performs one full monitoring cycle. All failures are contained
// here: unexpected errors and panics are reported through the Notifier as
// critical alerts and never crash the host.
func (m *Monitor) RunCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor: cycle panic: %v", r)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Error("monitor: cycle failed", "error", err)
			if nerr := m.notifier.Send(ctx, notify.RenderCritical("monitoring cycle", err)); nerr != nil {
				m.logger.Error("monitor: critical alert delivery failed", "error", nerr)
			}
		}
	}()

	started := time.Now()
	m.logger.Info("monitor: cycle start")

	// Read once at cycle start; a broken cache must not block retrieval.
	previous, rerr := m.store.Read(ctx, m.cfg.Cache.Key)
	if rerr != nil {
		m.logger.Error("monitor: cache read failed, diffing against empty", "error", rerr)
		previous = grades.Snapshot{}
	}

	rows, source, aerr := m.extractWithFallback(ctx)
	if len(rows) == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(previous) > m.cfg.EmptyThreshold {
			// Data existed before and is gone now: likely a layout change
			// or a broken login, not a student without grades.
			if nerr := m.notifier.Send(ctx, notify.RenderNoRows()); nerr != nil {
				m.logger.Error("monitor: alert delivery failed", "error", nerr)
			}
			if aerr == nil {
				aerr = errors.New("all strategies returned zero rows")
			}
			return fmt.Errorf("monitor: empty result while cache holds %d records: %w",
				len(previous), aerr)
		}
		m.logger.Info("monitor: empty result with empty history, nothing to do",
			"extract_error", aerr)
		return nil
	}

	current := grades.Canonicalize(rows)

	if len(current) < len(previous) {
		// Soft warning only; disappearing rows are ambiguous and the diff
		// deliberately does not report them.
		m.logger.Warn("monitor: record count shrank",
			"previous", len(previous), "current", len(current))
		if nerr := m.notifier.Send(ctx, notify.RenderShrink(len(current), len(previous))); nerr != nil {
			m.logger.Error("monitor: warning delivery failed", "error", nerr)
		}
	}

	changes := grades.Diff(current, previous)
	if len(changes) > 0 {
		m.logger.Info("monitor: changes detected",
			"count", len(changes), "source", source)
		if nerr := m.notifier.Send(ctx, notify.RenderChanges(changes, m.catalog)); nerr != nil {
			m.logger.Error("monitor: notification delivery failed", "error", nerr)
		}
		m.trigger.Ping(ctx)
	} else {
		m.logger.Info("monitor: no changes vs cache", "records", len(current))
	}

	// Overwrite wholesale at cycle end. A failed write is loud: swallowing
	// it would make the next cycle re-detect and re-notify silently.
	if werr := m.store.Write(ctx, m.cfg.Cache.Key, current); werr != nil {
		return fmt.Errorf("monitor: %w", werr)
	}

	m.logger.Info("monitor: cycle done",
		"records", len(current), "changes", len(changes),
		"source", source, "elapsed", time.Since(started))
	return nil
}

// extractWithFallback tries each strategy in priority order inside its own
// isolated session. An empty or failed attempt falls through to the next;
// the joined errors come back only when nothing produced rows.
func (m *Monitor) extractWithFallback(ctx context.Context) ([]grades.RawRow, string, error) {
	var errs []error
	for _, strat := range m.strategies {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		rows, err := strat.Attempt(ctx)
		if err != nil {
			m.logger.Warn("monitor: extraction attempt failed",
				"strategy", strat.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", strat.Name(), err))
			continue
		}
		if len(rows) == 0 {
			m.logger.Warn("monitor: extraction attempt returned no rows",
				"strategy", strat.Name())
			continue
		}

		m.logger.Info("monitor: extraction succeeded",
			"strategy", strat.Name(), "rows", len(rows))
		return rows, strat.Name(), nil
	}
	return nil, "", errors.Join(errs...)
}
