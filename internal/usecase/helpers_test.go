package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
	"github.com/riskibarqy/quiniela/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func onDay(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

// seasonRecords is a small history with hand-checked features:
//
//	day 0  Girona 2-0 Getafe
//	day 7  Getafe 1-1 Sevilla
//	day 14 Sevilla 0-1 Girona
//	day 21 Girona FC 1-0 Getafe (alias spelling)
func seasonRecords() []match.Record {
	return []match.Record{
		{Date: onDay(0), HomeTeam: "Girona", AwayTeam: "Getafe", HomeScore: 2, AwayScore: 0},
		{Date: onDay(7), HomeTeam: "Getafe", AwayTeam: "Sevilla", HomeScore: 1, AwayScore: 1},
		{Date: onDay(14), HomeTeam: "Sevilla", AwayTeam: "Girona", HomeScore: 0, AwayScore: 1},
		{Date: onDay(21), HomeTeam: "Girona FC", AwayTeam: "Getafe", HomeScore: 1, AwayScore: 0},
	}
}

func testLogBuilder(normalizer *team.Normalizer) LogBuilder {
	return func(records []match.Record) match.Log {
		return memory.NewMatchRepository(records, normalizer)
	}
}

func newTestHistory(source match.Source, breaker *resilience.CircuitBreaker) *HistoryService {
	return NewHistoryService(
		source,
		testLogBuilder(team.DefaultNormalizer()),
		features.DefaultConfig(),
		breaker,
		nil,
		logging.NewNop(),
	)
}

type staticSource []match.Record

func (s staticSource) Load(_ context.Context) ([]match.Record, error) {
	return append([]match.Record(nil), s...), nil
}
