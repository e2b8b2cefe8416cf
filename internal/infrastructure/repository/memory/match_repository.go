package memory

import (
	"sort"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
)

// MatchRepository is the cleaned match log. It is immutable once built and
// safe for concurrent reads.
type MatchRepository struct {
	records []match.Record
	pairs   map[match.PairKey][]int
	teams   []string
	stats   match.BuildStats
}

// NewMatchRepository normalizes team names, keeps the last record seen for
// each (date, home, away) key, drops records that fail validation and sorts
// the rest ascending by date. Records on the same date keep ingestion order.
func NewMatchRepository(records []match.Record, normalizer *team.Normalizer) *MatchRepository {
	type slot struct {
		record match.Record
		keep   bool
	}

	stats := match.BuildStats{Input: len(records)}
	slots := make([]slot, 0, len(records))
	byKey := make(map[match.Key]int, len(records))

	for _, r := range records {
		r.HomeTeam = normalizer.Normalize(r.HomeTeam)
		r.AwayTeam = normalizer.Normalize(r.AwayTeam)
		if err := r.Validate(); err != nil {
			stats.Invalid++
			continue
		}

		key := r.Key()
		if prev, ok := byKey[key]; ok {
			slots[prev].keep = false
			stats.Duplicates++
		}
		byKey[key] = len(slots)
		slots = append(slots, slot{record: r, keep: true})
	}

	kept := make([]match.Record, 0, len(byKey))
	for _, s := range slots {
		if s.keep {
			kept = append(kept, s.record)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return match.Day(kept[i].Date).Before(match.Day(kept[j].Date))
	})

	repo := &MatchRepository{
		records: kept,
		pairs:   make(map[match.PairKey][]int),
		stats:   stats,
	}

	seen := make(map[string]struct{})
	for i, r := range kept {
		pk := match.NewPairKey(r.HomeTeam, r.AwayTeam)
		repo.pairs[pk] = append(repo.pairs[pk], i)
		for _, name := range [2]string{r.HomeTeam, r.AwayTeam} {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				repo.teams = append(repo.teams, name)
			}
		}
	}
	sort.Strings(repo.teams)

	return repo
}

func (r *MatchRepository) All() []match.Record {
	return append([]match.Record(nil), r.records...)
}

func (r *MatchRepository) Between(from, to time.Time) []match.Record {
	lo := 0
	if !from.IsZero() {
		start := match.Day(from)
		lo = sort.Search(len(r.records), func(i int) bool {
			return !match.Day(r.records[i].Date).Before(start)
		})
	}
	hi := len(r.records)
	if !to.IsZero() {
		end := match.Day(to)
		hi = sort.Search(len(r.records), func(i int) bool {
			return !match.Day(r.records[i].Date).Before(end)
		})
	}
	if lo >= hi {
		return nil
	}
	return append([]match.Record(nil), r.records[lo:hi]...)
}

func (r *MatchRepository) ByPair(a, b string) []match.Record {
	idx := r.pairs[match.NewPairKey(a, b)]
	if len(idx) == 0 {
		return nil
	}
	out := make([]match.Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.records[i])
	}
	return out
}

func (r *MatchRepository) Teams() []string {
	return append([]string(nil), r.teams...)
}

func (r *MatchRepository) Len() int {
	return len(r.records)
}

func (r *MatchRepository) Stats() match.BuildStats {
	return r.stats
}
