package app

import (
	"strings"
	"testing"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "empty", query: "   ", want: ""},
		{name: "whitespace", query: "SELECT *\n\tFROM match_results\n WHERE id = $1", want: "SELECT * FROM match_results WHERE id = $1"},
		{
			name:  "batched values",
			query: "INSERT INTO match_results (a, b) VALUES ($1, $2),($3, $4), ($5, $6) ON CONFLICT DO NOTHING",
			want:  "INSERT INTO match_results (a, b) VALUES ($1, $2) /* x3 rows */ ON CONFLICT DO NOTHING",
		},
		{name: "single tuple untouched", query: "INSERT INTO t (a) VALUES ($1)", want: "INSERT INTO t (a) VALUES ($1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatDBQueryForTrace(tt.query); got != tt.want {
				t.Fatalf("formatDBQueryForTrace()=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestFormatDBQueryForTraceTruncates(t *testing.T) {
	t.Parallel()

	got := formatDBQueryForTrace("SELECT " + strings.Repeat("x", 1000))
	if len(got) != maxTracedQueryLength+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation: len=%d", len(got))
	}
}
