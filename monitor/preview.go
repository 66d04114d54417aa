package monitor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hazyhaar/gradewatch/grades"
)

// Preview renders a snapshot as a human-readable listing for the CLI
// one-shot mode.
func Preview(snap grades.Snapshot, catalog grades.Catalog) string {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("=== Parsed grades ===\n")
	for _, key := range keys {
		rec := snap[key]
		title := rec.Course
		if title == "" {
			title = key
		}
		title = catalog.Name(title)

		fmt.Fprintf(&b, "%s  |  Grade: %s", title, rec.Grade)
		if rec.Moed != "" {
			fmt.Fprintf(&b, "  |  Moed: %s", rec.Moed)
		}
		if rec.Term != "" {
			fmt.Fprintf(&b, "  |  Term: %s", rec.Term)
		}
		if rec.Date != "" {
			fmt.Fprintf(&b, "  |  Date: %s", rec.Date)
		}
		if rec.NotebookAvailable {
			b.WriteString("  |  Notebook available")
		}
		b.WriteByte('\n')
	}
	b.WriteString("=== end ===\n")
	return b.String()
}
