package grades

import "testing"

func TestDiffIdenticalSnapshotsEmpty(t *testing.T) {
	s1 := Snapshot{
		"Algebra":  {Course: "Algebra", Grade: "85"},
		"Calculus": {Course: "Calculus", Grade: "90", NotebookAvailable: true},
	}
	s2 := Snapshot{
		"Algebra":  {Course: "Algebra", Grade: "85"},
		"Calculus": {Course: "Calculus", Grade: "90", NotebookAvailable: true},
	}
	if changes := Diff(s2, s1); len(changes) != 0 {
		t.Errorf("got %d changes, want none: %+v", len(changes), changes)
	}
}

func TestDiffSingleFieldChange(t *testing.T) {
	prev := Snapshot{"Algebra": {Course: "Algebra", Grade: "85"}}
	cur := Snapshot{"Algebra": {Course: "Algebra", Grade: "90"}}

	changes := Diff(cur, prev)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	ch := changes[0]
	if ch.Key != "Algebra" {
		t.Errorf("key = %q, want Algebra", ch.Key)
	}
	if ch.Previous == nil || ch.Previous.Grade != "85" {
		t.Errorf("previous = %+v, want grade 85", ch.Previous)
	}
	if ch.Current.Grade != "90" {
		t.Errorf("current grade = %q, want 90", ch.Current.Grade)
	}
}

func TestDiffNewKey(t *testing.T) {
	prev := Snapshot{}
	cur := Snapshot{"Physics": {Course: "Physics", Grade: "77"}}

	changes := Diff(cur, prev)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	if changes[0].Previous != nil {
		t.Errorf("previous = %+v, want nil for a new entry", changes[0].Previous)
	}
}

// Disappeared keys are not reported; only the orchestrator's shrink warning
// surfaces them.
func TestDiffDisappearedKeyNotReported(t *testing.T) {
	prev := Snapshot{
		"Algebra": {Course: "Algebra", Grade: "85"},
		"History": {Course: "History", Grade: "70"},
	}
	cur := Snapshot{"Algebra": {Course: "Algebra", Grade: "85"}}

	if changes := Diff(cur, prev); len(changes) != 0 {
		t.Errorf("got %d changes, want none: %+v", len(changes), changes)
	}
}

func TestDiffGradeAndNotebookChange(t *testing.T) {
	prev := Snapshot{"Algebra": {Course: "Algebra", Grade: "85", NotebookAvailable: false}}
	cur := Snapshot{"Algebra": {Course: "Algebra", Grade: "90", NotebookAvailable: true}}

	changes := Diff(cur, prev)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	ch := changes[0]
	if ch.Previous.Grade != "85" || ch.Current.Grade != "90" {
		t.Errorf("grade transition %q -> %q, want 85 -> 90", ch.Previous.Grade, ch.Current.Grade)
	}
	if ch.Previous.NotebookAvailable || !ch.Current.NotebookAvailable {
		t.Errorf("notebook transition %v -> %v, want false -> true",
			ch.Previous.NotebookAvailable, ch.Current.NotebookAvailable)
	}
}
