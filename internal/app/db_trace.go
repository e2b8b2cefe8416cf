package app

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// Batched match upserts repeat one placeholder tuple per record.
	queryValuesTupleRegex = regexp.MustCompile(`\((?:\$\d+, ?)*\$\d+\)(?:, ?\((?:\$\d+, ?)*\$\d+\))+`)
	queryTupleRegex       = regexp.MustCompile(`\((?:\$\d+, ?)*\$\d+\)`)
)

// formatDBQueryForTrace flattens whitespace, folds multi-row VALUES lists
// into their first tuple plus a row count and caps the length.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = queryValuesTupleRegex.ReplaceAllStringFunc(normalized, func(tuples string) string {
		all := queryTupleRegex.FindAllString(tuples, -1)
		return all[0] + " /* x" + strconv.Itoa(len(all)) + " rows */"
	})
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
