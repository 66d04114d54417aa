package grades

import "sort"

// Diff compares the current snapshot against the previous one and returns
// one ChangeEntry per key that is new or whose record differs by full value
// equality. Entries are ordered by key for deterministic output.
//
// Keys present only in the previous snapshot are deliberately not reported:
// disappearing grade rows are rare and ambiguous, and are surfaced instead
// through the orchestrator's count-based data-loss warning.
func Diff(current, previous Snapshot) ChangeSet {
	keys := make([]string, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changes ChangeSet
	for _, key := range keys {
		cur := current[key]
		prev, ok := previous[key]
		if !ok {
			changes = append(changes, ChangeEntry{Key: key, Current: cur})
			continue
		}
		if prev != cur {
			prevCopy := prev
			changes = append(changes, ChangeEntry{Key: key, Previous: &prevCopy, Current: cur})
		}
	}
	return changes
}
