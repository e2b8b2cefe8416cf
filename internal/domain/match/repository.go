package match

import (
	"context"
	"time"
)

// Source loads raw match records from a backing store. Names may still be
// unnormalized and duplicates may be present.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

// Store persists match records, replacing any record with the same Key.
type Store interface {
	Upsert(ctx context.Context, records []Record) (int, error)
}

// PairLister returns every meeting between two teams in either orientation,
// ascending by date.
type PairLister interface {
	ByPair(a, b string) []Record
}

// BuildStats counts what cleaning did to the raw input of a Log.
type BuildStats struct {
	Input      int
	Duplicates int
	Invalid    int
}

// Log is the cleaned, deduplicated match history ordered ascending by date.
type Log interface {
	PairLister
	All() []Record
	// Between returns records with from <= date < to. A zero bound is open.
	Between(from, to time.Time) []Record
	Teams() []string
	Len() int
	Stats() BuildStats
}
