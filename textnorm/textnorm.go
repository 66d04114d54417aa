// Package textnorm normalises text scraped from the student portal:
// whitespace collapsing, source date formats, and localized column-header
// resolution. All functions are total; unparsable input degrades to the
// cleaned text instead of returning an error.
package textnorm

import (
	"strings"
	"time"
)

// Canonical field names produced by HeaderToKey.
const (
	FieldCourse = "course"
	FieldGrade  = "grade"
	FieldMoed   = "moed"
	FieldDate   = "date"
	FieldTerm   = "term"
)

// headerAliases maps canonical field names to localized header fragments.
// Matching is substring-based because the portal decorates headers with
// sort arrows and counts.
var headerAliases = []struct {
	key     string
	aliases []string
}{
	{FieldCourse, []string{"שם הקורס", "course"}},
	{FieldGrade, []string{"ציון", "grade"}},
	{FieldMoed, []string{"מועד", "moed", "sitting"}},
	{FieldDate, []string{"תאריך ושעה", "date"}},
	{FieldTerm, []string{"סוג", "type", "term"}},
}

// Normalize collapses non-breaking spaces and whitespace runs into single
// spaces and trims the ends. Empty input yields the empty string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// dateLayouts is the ordered list of source date formats. The first layout
// that parses wins. DD/MM before ISO: the portal table renders DD/MM/YYYY,
// the API renders ISO.
var dateLayouts = []struct {
	in  string
	out string
}{
	{"02/01/2006 15:04", "2006-01-02 15:04"},
	{"02/01/2006", "2006-01-02"},
	{"2006-01-02 15:04", "2006-01-02 15:04"},
	{"2006-01-02", "2006-01-02"},
}

// NormalizeDate converts a source-formatted date into ISO YYYY-MM-DD or
// YYYY-MM-DD HH:MM. Sentinel placeholders ("-", "--") yield the empty
// string. Input that matches no known layout is returned cleaned but
// otherwise unchanged, which makes the function idempotent.
func NormalizeDate(s string) string {
	clean := Normalize(s)
	if clean == "" || clean == "-" || clean == "--" {
		return ""
	}

	fields := strings.Fields(clean)
	datePart := fields[0]
	timePart := ""
	if len(fields) > 1 {
		timePart = fields[1]
	}

	// API timestamps arrive as 2006-01-02T15:04:05; keep the date only.
	if i := strings.IndexByte(datePart, 'T'); i > 0 {
		datePart = datePart[:i]
		timePart = ""
	}

	joined := datePart
	if timePart != "" {
		joined = datePart + " " + timePart
	}

	for _, l := range dateLayouts {
		if t, err := time.Parse(l.in, joined); err == nil {
			return t.Format(l.out)
		}
	}
	// Date part alone may still be valid when the time component is junk.
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.in, datePart); err == nil {
			return t.Format(l.out)
		}
	}
	return clean
}

// HeaderToKey resolves a raw column header against the alias table and
// returns the canonical field name. ok is false when nothing matches;
// callers must skip unmatched columns rather than fail the row.
func HeaderToKey(header string) (key string, ok bool) {
	h := Normalize(header)
	if h == "" {
		return "", false
	}
	lower := strings.ToLower(h)
	for _, entry := range headerAliases {
		for _, alias := range entry.aliases {
			if strings.Contains(h, alias) || strings.Contains(lower, alias) {
				return entry.key, true
			}
		}
	}
	return "", false
}
