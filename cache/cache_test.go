package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/gradewatch/grades"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "gradewatch.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadMissingKey(t *testing.T) {
	s := openTemp(t)
	snap, err := s.Read(context.Background(), "grades_cache")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("expected empty snapshot, got %v", snap)
	}
}

func TestWriteReadRoundtrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	in := grades.Snapshot{
		"Algebra": {Course: "Algebra", Grade: "85", Date: "2024-03-05"},
		"Physics | moed ב": {Course: "Physics", Moed: "ב", NotebookAvailable: true},
	}
	if err := s.Write(ctx, "grades_cache", in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := s.Read(ctx, "grades_cache")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d entries, want %d", len(out), len(in))
	}
	if out["Algebra"] != in["Algebra"] {
		t.Errorf("Algebra = %+v, want %+v", out["Algebra"], in["Algebra"])
	}
}

func TestWriteReplacesWholesale(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	first := grades.Snapshot{
		"A": {Course: "A", Grade: "1"},
		"B": {Course: "B", Grade: "2"},
	}
	second := grades.Snapshot{"C": {Course: "C", Grade: "3"}}

	if err := s.Write(ctx, "k", first); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "k", second); err != nil {
		t.Fatal(err)
	}

	out, err := s.Read(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d entries, want 1 (old document must be replaced)", len(out))
	}
	if _, ok := out["C"]; !ok {
		t.Errorf("missing key C, got %v", out)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	if err := s.Write(ctx, "dom", grades.Snapshot{"X": {Course: "X"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "api", grades.Snapshot{"Y": {Course: "Y"}}); err != nil {
		t.Fatal(err)
	}

	dom, err := s.Read(ctx, "dom")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := dom["X"]; !ok || len(dom) != 1 {
		t.Errorf("dom document corrupted: %v", dom)
	}
}
