package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
)

func day(n int) time.Time {
	return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestMatchRepository_NormalizesDedupsAndSorts(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository([]match.Record{
		{Date: day(7), HomeTeam: "Betis ", AwayTeam: "Sevilla FC", HomeScore: 1, AwayScore: 1},
		{Date: day(0), HomeTeam: "Ath Madrid", AwayTeam: "Girona", HomeScore: 3, AwayScore: 0},
		// Same key as the first record after normalization; the later write wins.
		{Date: day(7).Add(20 * time.Hour), HomeTeam: "Real Betis", AwayTeam: "Sevilla", HomeScore: 2, AwayScore: 1},
		{Date: day(3), HomeTeam: "", AwayTeam: "Girona"},
	}, team.DefaultNormalizer())

	all := repo.All()
	if len(all) != 2 {
		t.Fatalf("unexpected record count: got=%d want=2", len(all))
	}
	if all[0].HomeTeam != "Atletico Madrid" {
		t.Fatalf("expected first record to be normalized and sorted first, got %q", all[0].HomeTeam)
	}
	if all[1].HomeScore != 2 {
		t.Fatalf("expected last write to win, got home score %d", all[1].HomeScore)
	}

	stats := repo.Stats()
	if stats.Input != 4 || stats.Duplicates != 1 || stats.Invalid != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMatchRepository_NoDuplicateKeys(t *testing.T) {
	t.Parallel()

	var input []match.Record
	for i := 0; i < 5; i++ {
		input = append(input, match.Record{Date: day(i % 2), HomeTeam: "Getafe", AwayTeam: "Girona", HomeScore: i})
	}
	repo := NewMatchRepository(input, team.DefaultNormalizer())

	seen := make(map[match.Key]struct{})
	for _, r := range repo.All() {
		if _, dup := seen[r.Key()]; dup {
			t.Fatalf("duplicate key %+v", r.Key())
		}
		seen[r.Key()] = struct{}{}
	}
	if repo.Len() != 2 {
		t.Fatalf("unexpected record count: got=%d want=2", repo.Len())
	}
}

func TestMatchRepository_Between(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository([]match.Record{
		{Date: day(0), HomeTeam: "Getafe", AwayTeam: "Girona"},
		{Date: day(5), HomeTeam: "Girona", AwayTeam: "Sevilla"},
		{Date: day(10), HomeTeam: "Sevilla", AwayTeam: "Getafe"},
	}, team.DefaultNormalizer())

	if got := len(repo.Between(day(0), day(10))); got != 2 {
		t.Fatalf("expected half-open range to exclude end, got %d", got)
	}
	if got := len(repo.Between(day(5), time.Time{})); got != 2 {
		t.Fatalf("expected open end, got %d", got)
	}
	if got := len(repo.Between(time.Time{}, time.Time{})); got != 3 {
		t.Fatalf("expected everything with open bounds, got %d", got)
	}
	if got := repo.Between(day(20), day(30)); got != nil {
		t.Fatalf("expected nil for empty range, got %v", got)
	}
}

func TestMatchRepository_ByPairIgnoresOrientation(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository([]match.Record{
		{Date: day(9), HomeTeam: "Sevilla", AwayTeam: "Betis"},
		{Date: day(1), HomeTeam: "Real Betis", AwayTeam: "Sevilla"},
		{Date: day(4), HomeTeam: "Sevilla", AwayTeam: "Girona"},
	}, team.DefaultNormalizer())

	meetings := repo.ByPair("Real Betis", "Sevilla")
	if len(meetings) != 2 {
		t.Fatalf("unexpected meeting count: got=%d want=2", len(meetings))
	}
	if !meetings[0].Date.Before(meetings[1].Date) {
		t.Fatalf("expected meetings ascending by date")
	}
	if got := len(repo.ByPair("Sevilla", "Real Betis")); got != 2 {
		t.Fatalf("expected same meetings in reverse order query, got %d", got)
	}

	teams := repo.Teams()
	if len(teams) != 3 || teams[0] != "Girona" {
		t.Fatalf("unexpected teams: %v", teams)
	}
}

func TestMatchRepository_EmptyInput(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(nil, team.DefaultNormalizer())
	if repo.Len() != 0 || len(repo.All()) != 0 || repo.ByPair("a", "b") != nil {
		t.Fatalf("expected empty repository")
	}
}

func TestFixtureRepository_ListReturnsCopy(t *testing.T) {
	t.Parallel()

	repo := NewFixtureRepository([]fixture.Fixture{{HomeTeam: "Getafe", AwayTeam: "Girona"}})
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	items[0].HomeTeam = "mutated"

	again, _ := repo.List(context.Background())
	if again[0].HomeTeam != "Getafe" {
		t.Fatalf("expected stored fixtures to be immutable through List")
	}
}
