package features

import (
	"sort"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/match"
)

// HeadToHead summarises past meetings between two teams as of a date.
type HeadToHead struct {
	pairs match.PairLister
	cfg   Config
}

func NewHeadToHead(pairs match.PairLister, cfg Config) *HeadToHead {
	return &HeadToHead{pairs: pairs, cfg: cfg}
}

// Lookup computes the value for the given mode.
func (h *HeadToHead) Lookup(mode H2HMode, home, away string, ref time.Time) float64 {
	if mode == H2HModeFast {
		return h.FastPath(home, away, ref)
	}
	return h.Full(home, away, ref)
}

// Full returns the mean points home earned across meetings in either
// orientation inside the lookback window, or the neutral value when none.
func (h *HeadToHead) Full(home, away string, ref time.Time) float64 {
	meetings := h.window(home, away, ref)
	if len(meetings) == 0 {
		return h.cfg.H2HNeutral
	}

	total := 0
	for _, m := range meetings {
		if m.HomeTeam == home {
			total += match.Points(m.HomeScore, m.AwayScore)
		} else {
			total += match.Points(m.AwayScore, m.HomeScore)
		}
	}
	return float64(total) / float64(len(meetings))
}

// FastPath counts prior wins of home when hosting away, ignoring reversed
// fixtures. It is cheaper but not comparable with Full.
func (h *HeadToHead) FastPath(home, away string, ref time.Time) float64 {
	wins := 0
	for _, m := range h.window(home, away, ref) {
		if m.HomeTeam == home && m.AwayTeam == away && m.HomeScore > m.AwayScore {
			wins++
		}
	}
	return float64(wins)
}

// window returns meetings with from <= date < ref, where from is ref minus
// the lookback (unbounded when the lookback is 0).
func (h *HeadToHead) window(home, away string, ref time.Time) []match.Record {
	if h == nil || h.pairs == nil || home == away {
		return nil
	}
	meetings := h.pairs.ByPair(home, away)
	if len(meetings) == 0 {
		return nil
	}

	end := match.Day(ref)
	hi := sort.Search(len(meetings), func(i int) bool {
		return !match.Day(meetings[i].Date).Before(end)
	})
	lo := 0
	if h.cfg.H2HLookbackYears > 0 {
		start := end.AddDate(-h.cfg.H2HLookbackYears, 0, 0)
		lo = sort.Search(hi, func(i int) bool {
			return !match.Day(meetings[i].Date).Before(start)
		})
	}
	return meetings[lo:hi]
}
