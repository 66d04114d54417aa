// Package extract turns a live portal session into raw grade rows. Two
// strategies exist: interception of the portal's own data API call, and a
// DOM table walk. Each strategy owns an isolated session end-to-end; the
// orchestrator tries them in fixed priority order.
package extract

import (
	"context"

	"github.com/hazyhaar/gradewatch/grades"
)

// Strategy is one way of obtaining raw grade rows. Attempt drives its own
// browser session, including login, and must release it on all exit paths.
// A nil-error empty result means the portal genuinely showed no rows.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context) ([]grades.RawRow, error)
}
