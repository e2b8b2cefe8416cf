package csvfile

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Day-first layouts come from
// football-data.co.uk season files, ISO ones from our own exports.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
	"02/01/2006",
	"02/01/06",
	"2/1/2006",
	"2/1/06",
}

// ParseDate parses a match date. Results are UTC.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
