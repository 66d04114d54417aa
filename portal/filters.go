package portal

import (
	"context"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// filterClearSelector matches the "remove filter tag" control of the
// portal's filter widget, which defaults to restricting visible rows.
const filterClearSelector = ".vscomp-value-tag-clear-button"

const (
	// filterRounds bounds how many re-location rounds run. Clearing one
	// filter can cause another to appear lazily, so one pass is not enough.
	filterRounds = 5
	// filterClickPause lets the table refresh between clicks.
	filterClickPause = 2 * time.Second
)

// ClearFilters repeatedly locates and clicks remove-filter controls until
// none remain or the round budget is exhausted. Individual click failures
// are tolerated; the table refresh re-renders the widget mid-round.
func (f *Flow) ClearFilters(ctx context.Context, s *Session) {
	log := f.cfg.Logger

	for round := 0; round < filterRounds; round++ {
		if ctx.Err() != nil {
			return
		}

		els, err := s.page.Context(ctx).Elements(filterClearSelector)
		if err != nil {
			log.Debug("portal: filter lookup failed", "error", err)
			return
		}
		if len(els) == 0 {
			if round == 0 {
				log.Info("portal: no active filters")
			}
			return
		}

		log.Info("portal: clearing filters", "count", len(els), "round", round+1)

		// Iterate backwards so DOM removals don't shift pending targets.
		for i := len(els) - 1; i >= 0; i-- {
			if err := els[i].Click(proto.InputMouseButtonLeft, 1); err != nil {
				log.Debug("portal: filter click failed", "index", i, "error", err)
				continue
			}
			select {
			case <-time.After(filterClickPause):
			case <-ctx.Done():
				return
			}
		}

		s.WaitQuiet(ctx, f.cfg.QuietWait)
	}

	log.Warn("portal: filter rounds exhausted, some filters may remain")
}
