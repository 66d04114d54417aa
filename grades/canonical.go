package grades

import (
	"fmt"
	"strings"
)

// Canonicalize folds raw rows into a snapshot with unique keys.
//
// The base key is the trimmed course name, falling back to the raw row text,
// then to a positional placeholder. An exam-sitting identifier, when
// present, is appended so the same course across sittings gets distinct
// keys. Remaining collisions are disambiguated by the record date when the
// competing records disagree on it, otherwise by a numeric suffix. The
// ladder keeps keys maximally stable across cycles for the common case so
// the diff sees updates rather than spurious add/remove pairs.
func Canonicalize(rows []RawRow) Snapshot {
	snap := make(Snapshot, len(rows))
	for _, row := range rows {
		rec := Record{
			Course:            strings.TrimSpace(row.Course),
			Grade:             strings.TrimSpace(row.Grade),
			Moed:              strings.TrimSpace(row.Moed),
			Term:              strings.TrimSpace(row.Term),
			Date:              strings.TrimSpace(row.Date),
			NotebookAvailable: row.NotebookAvailable,
			RawText:           row.RawText,
		}

		base := rec.Course
		if base == "" {
			base = strings.TrimSpace(row.RawText)
		}
		if base == "" {
			base = fmt.Sprintf("row_%d", len(snap))
		}
		if rec.Moed != "" {
			base = base + " | moed " + rec.Moed
		}

		key := base
		if prior, taken := snap[key]; taken {
			if rec.Date != "" && prior.Date != rec.Date {
				key = base + " | " + rec.Date
			}
		}
		// The date-suffixed key can itself be taken when three or more rows
		// share course, sitting and date. Fall through to numeric suffixes.
		if _, taken := snap[key]; taken {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s (%d)", base, n)
				if _, used := snap[candidate]; !used {
					key = candidate
					break
				}
			}
		}

		snap[key] = rec
	}
	return snap
}
