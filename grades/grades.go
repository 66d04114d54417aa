// Package grades holds the canonical grade data model: raw extracted rows,
// comparison-ready records, per-cycle snapshots, and the diff between two
// snapshots. It is the meeting point of the two extraction strategies;
// everything here is plain data with deterministic transformations.
package grades

// RawRow is one grade entry as produced by an extractor, before key
// assignment. Rows are created fresh on every cycle and never persisted.
type RawRow struct {
	Course            string
	Grade             string
	Moed              string
	Term              string
	Date              string
	NotebookAvailable bool
	// RawText is the full row text, kept as a disambiguation fallback for
	// rows without a course name. The API path leaves it empty.
	RawText string
}

// Record is the normalized, comparison-ready form of a RawRow. Date, when
// non-empty, is ISO YYYY-MM-DD or YYYY-MM-DD HH:MM.
type Record struct {
	Course            string `json:"course"`
	Grade             string `json:"grade"`
	Moed              string `json:"moed"`
	Term              string `json:"term"`
	Date              string `json:"date"`
	NotebookAvailable bool   `json:"notebook_available"`
	RawText           string `json:"raw_text"`
}

// Snapshot maps canonical keys to records for one fetch cycle. Snapshots
// are immutable once built; a cache write replaces the previous snapshot
// wholesale.
type Snapshot map[string]Record

// ChangeEntry describes one key whose record is new or differs from the
// previous snapshot. Previous is nil for brand-new entries.
type ChangeEntry struct {
	Key      string
	Previous *Record
	Current  Record
}

// ChangeSet is the ordered list of changes for one cycle.
type ChangeSet []ChangeEntry
