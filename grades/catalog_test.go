package grades

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.json")
	data := `{
		"0366-1101": {"name": "Linear Algebra"},
		"0366-2102": {"name": "Calculus 2"},
		"0000-0000": {}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if got := cat.Name("03661101"); got != "Linear Algebra" {
		t.Errorf("Name(03661101) = %q", got)
	}
	if got := cat.Name("0366-2102"); got != "Calculus 2" {
		t.Errorf("Name with dashes = %q", got)
	}
	if got := cat.Name("9999"); got != "9999" {
		t.Errorf("unknown id should fall back to itself, got %q", got)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	cat, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(cat) != 0 {
		t.Errorf("expected empty catalog, got %v", cat)
	}
}
