package features

import (
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/match"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func onDay(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func rec(day int, home, away string, hs, as int) match.Record {
	return match.Record{Date: onDay(day), HomeTeam: home, AwayTeam: away, HomeScore: hs, AwayScore: as}
}

func intPtr(v int) *int { return &v }

// pairStub filters an in-memory slice; records must be sorted by date.
type pairStub []match.Record

func (p pairStub) ByPair(a, b string) []match.Record {
	var out []match.Record
	for _, r := range p {
		if (r.HomeTeam == a && r.AwayTeam == b) || (r.HomeTeam == b && r.AwayTeam == a) {
			out = append(out, r)
		}
	}
	return out
}
