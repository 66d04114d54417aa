package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"  hello   world  ", "hello world"},
		{"a b", "a b"},
		{"\t\n  x    y \n", "x y"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"05/03/2024", "2024-03-05"},
		{"05/03/2024 10:30", "2024-03-05 10:30"},
		{"2024-03-05", "2024-03-05"},
		{"2024-03-05 10:30", "2024-03-05 10:30"},
		{"-", ""},
		{"--", ""},
		{"", ""},
		{"  05/03/2024 10:30 ", "2024-03-05 10:30"},
		{"not a date", "not a date"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// ISO timestamps from the API carry a T separator; only the date survives.
func TestNormalizeDateISOTimeStripped(t *testing.T) {
	if got := NormalizeDate("2024-03-05T10:00:00"); got != "2024-03-05" {
		t.Errorf("NormalizeDate ISO = %q, want 2024-03-05", got)
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	inputs := []string{
		"05/03/2024", "05/03/2024 10:30", "2024-03-05T10:00:00",
		"-", "", "garbage value", "31/12/1999 23:59",
	}
	for _, in := range inputs {
		once := NormalizeDate(in)
		twice := NormalizeDate(once)
		if once != twice {
			t.Errorf("NormalizeDate not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestHeaderToKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"שם הקורס", FieldCourse, true},
		{" ציון ", FieldGrade, true},
		{"מועד", FieldMoed, true},
		{"תאריך ושעה", FieldDate, true},
		{"סוג", FieldTerm, true},
		{"Grade", FieldGrade, true},
		{"something else", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := HeaderToKey(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("HeaderToKey(%q) = %q,%v, want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
