package grades

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Catalog maps course identifiers to display names. Lookups for unknown
// identifiers fall back to the identifier itself.
type Catalog map[string]string

// LoadCatalog reads a JSON course catalog of the form
//
//	{"0366-1101": {"name": "Linear Algebra"}, ...}
//
// Identifiers are normalized by stripping dashes, matching how the API
// reports course numbers. A missing file is not an error; it yields an
// empty catalog.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Catalog{}, nil
		}
		return nil, fmt.Errorf("grades: read catalog: %w", err)
	}

	var raw map[string]struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("grades: parse catalog: %w", err)
	}

	cat := make(Catalog, len(raw))
	for id, info := range raw {
		if info.Name == "" {
			continue
		}
		cat[strings.ReplaceAll(id, "-", "")] = info.Name
	}
	return cat, nil
}

// Name resolves a course identifier to its display name.
func (c Catalog) Name(id string) string {
	if name, ok := c[strings.ReplaceAll(id, "-", "")]; ok {
		return name
	}
	return id
}
