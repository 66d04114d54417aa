package grades

import (
	"fmt"
	"testing"
)

func TestCanonicalizeStableKey(t *testing.T) {
	rows := []RawRow{
		{Course: "Algebra", Grade: "85", Moed: "א"},
		{Course: "Calculus", Grade: "90"},
	}
	snap := Canonicalize(rows)
	if len(snap) != 2 {
		t.Fatalf("got %d entries, want 2", len(snap))
	}
	if _, ok := snap["Algebra | moed א"]; !ok {
		t.Errorf("missing sitting-augmented key, keys: %v", keysOf(snap))
	}
	if _, ok := snap["Calculus"]; !ok {
		t.Errorf("missing plain course key, keys: %v", keysOf(snap))
	}
}

func TestCanonicalizeFallbackKeys(t *testing.T) {
	rows := []RawRow{
		{RawText: "some row text", Grade: "70"},
		{Grade: "60"},
	}
	snap := Canonicalize(rows)
	if _, ok := snap["some row text"]; !ok {
		t.Errorf("raw text fallback key missing, keys: %v", keysOf(snap))
	}
	if _, ok := snap["row_1"]; !ok {
		t.Errorf("positional fallback key missing, keys: %v", keysOf(snap))
	}
}

func TestCanonicalizeDateDisambiguation(t *testing.T) {
	rows := []RawRow{
		{Course: "Physics", Moed: "א", Date: "2024-01-10"},
		{Course: "Physics", Moed: "א", Date: "2024-02-20"},
	}
	snap := Canonicalize(rows)
	if len(snap) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(snap), keysOf(snap))
	}
	if _, ok := snap["Physics | moed א"]; !ok {
		t.Errorf("first row should keep the base key, keys: %v", keysOf(snap))
	}
	if _, ok := snap["Physics | moed א | 2024-02-20"]; !ok {
		t.Errorf("second row should be date-suffixed, keys: %v", keysOf(snap))
	}
}

func TestCanonicalizeNumericSuffix(t *testing.T) {
	rows := []RawRow{
		{Course: "Seminar", Date: "2024-01-10"},
		{Course: "Seminar", Date: "2024-01-10"},
		{Course: "Seminar", Date: "2024-01-10"},
	}
	snap := Canonicalize(rows)
	if len(snap) != 3 {
		t.Fatalf("got %d entries, want 3: %v", len(snap), keysOf(snap))
	}
	for _, key := range []string{"Seminar", "Seminar (2)", "Seminar (3)"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("missing key %q, keys: %v", key, keysOf(snap))
		}
	}
}

// Twelve well-formed rows with one duplicate course differing only by date
// must still yield twelve distinct keys.
func TestCanonicalizeTwelveRowsOneDuplicate(t *testing.T) {
	var rows []RawRow
	for i := 0; i < 11; i++ {
		rows = append(rows, RawRow{
			Course: fmt.Sprintf("Course %d", i),
			Grade:  "80",
			Date:   "2024-01-01",
		})
	}
	rows = append(rows, RawRow{Course: "Course 3", Grade: "80", Date: "2024-06-15"})

	snap := Canonicalize(rows)
	if len(snap) != 12 {
		t.Fatalf("got %d entries, want 12: %v", len(snap), keysOf(snap))
	}
	if _, ok := snap["Course 3 | 2024-06-15"]; !ok {
		t.Errorf("duplicate pair not disambiguated by date, keys: %v", keysOf(snap))
	}
}

func keysOf(s Snapshot) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
