package csvfile

import (
	"fmt"
	"strings"
)

// header resolves logical column names to positions.
type header map[string]int

func newHeader(row []string, aliases map[string][]string) header {
	byName := make(map[string]int, len(row))
	for i, name := range row {
		name = strings.TrimPrefix(name, "\ufeff")
		byName[strings.ToLower(strings.TrimSpace(name))] = i
	}

	h := make(header, len(aliases))
	for logical, names := range aliases {
		for _, name := range names {
			if i, ok := byName[strings.ToLower(name)]; ok {
				h[logical] = i
				break
			}
		}
	}
	return h
}

func (h header) require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

func (h header) get(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
