package app

import (
	"net/url"
	"strings"
)

const dbApplicationName = "quiniela"

// NormalizeDBURL fills in connection parameters the match store relies on:
// application_name, so pipeline sessions are recognisable in pg_stat_activity,
// and disable_prepared_binary_result=yes when the toggle is on. Parameters
// already present are left alone. Both URL and key=value DSNs are accepted.
func NormalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	params := [][2]string{{"application_name", dbApplicationName}}
	if disablePreparedBinaryResult {
		params = append(params, [2]string{"disable_prepared_binary_result", "yes"})
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	if !strings.Contains(trimmed, "://") {
		return appendDSNParams(trimmed, params)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	changed := false
	for _, p := range params {
		if query.Get(p[0]) == "" {
			query.Set(p[0], p[1])
			changed = true
		}
	}
	if !changed {
		return raw
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func appendDSNParams(dsn string, params [][2]string) string {
	present := make(map[string]bool)
	for _, token := range strings.Fields(dsn) {
		if key, _, ok := strings.Cut(token, "="); ok {
			present[key] = true
		}
	}

	var b strings.Builder
	b.WriteString(dsn)
	for _, p := range params {
		if present[p[0]] {
			continue
		}
		b.WriteString(" ")
		b.WriteString(p[0])
		b.WriteString("=")
		b.WriteString(p[1])
	}
	return b.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
