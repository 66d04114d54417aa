package notify

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/gradewatch/grades"
)

// RenderChanges formats one cycle's change set as a Telegram Markdown
// message: one line per new entry, one line per update describing which
// tracked fields (grade, notebook availability) changed.
func RenderChanges(changes grades.ChangeSet, catalog grades.Catalog) string {
	lines := []string{"🔔 *Grade Update!* 🔔"}

	for _, ch := range changes {
		name := ch.Current.Course
		if name == "" {
			name = ch.Key
		}
		name = catalog.Name(name)

		if ch.Previous == nil {
			grade := ch.Current.Grade
			if grade == "" {
				grade = "N/A"
			}
			lines = append(lines, fmt.Sprintf("• *%s* (New): %s", name, grade))
			continue
		}

		var details []string
		if ch.Previous.Grade != ch.Current.Grade {
			details = append(details, fmt.Sprintf("Grade changed from `%s` to *%s*",
				orNA(ch.Previous.Grade), orNA(ch.Current.Grade)))
		}
		if ch.Previous.NotebookAvailable != ch.Current.NotebookAvailable {
			status := "no longer available"
			if ch.Current.NotebookAvailable {
				status = "now available"
			}
			details = append(details, "Notebook is "+status)
		}

		if len(details) > 0 {
			lines = append(lines, fmt.Sprintf("• *%s*: %s", name, strings.Join(details, ", ")))
		} else {
			// A change outside the tracked fields (date, term, raw text).
			lines = append(lines, fmt.Sprintf("• *%s*: Updated (Grade: %s)",
				name, orNA(ch.Current.Grade)))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCritical formats an orchestrator-level failure alert.
func RenderCritical(scope string, err error) string {
	return fmt.Sprintf("🔴 Grade Notifier CRITICAL 🔴\n\n*%s* failed:\n\n```\n%v\n```", scope, err)
}

// RenderNoRows formats the alert sent when scraping finished but produced
// no rows while the cache says data should exist.
func RenderNoRows() string {
	return "🟡 Grade Notifier Alert 🟡\n\n" +
		"Scraping finished, but no grade rows were found.\n\n" +
		"This could be a login failure or a change in the site layout. " +
		"A diagnostic artifact has been saved."
}

// RenderShrink formats the soft warning for a shrinking record count.
func RenderShrink(current, previous int) string {
	return fmt.Sprintf("🟡 Grade Notifier Warning 🟡\n\n"+
		"Record count dropped from %d to %d. Possible partial data loss; "+
		"processing continued.", previous, current)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
