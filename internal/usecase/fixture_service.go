package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/team"
)

type FixtureService struct {
	source     fixture.Source
	normalizer *team.Normalizer
}

func NewFixtureService(source fixture.Source, normalizer *team.Normalizer) *FixtureService {
	return &FixtureService{source: source, normalizer: normalizer}
}

// List returns the whole calendar with canonical team names, ordered by
// matchday then kickoff.
func (s *FixtureService) List(ctx context.Context) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.List")
	defer span.End()

	if s.source == nil {
		return nil, fmt.Errorf("%w: no fixture source configured", ErrDependencyUnavailable)
	}

	items, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(items))
	for _, f := range items {
		f.HomeTeam = s.normalizer.Normalize(f.HomeTeam)
		f.AwayTeam = s.normalizer.Normalize(f.AwayTeam)
		f.Status = fixture.NormalizeStatus(f.Status)
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Matchday != out[j].Matchday {
			return out[i].Matchday < out[j].Matchday
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

// ListUpcoming returns fixtures that have not started.
func (s *FixtureService) ListUpcoming(ctx context.Context) ([]fixture.Fixture, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := items[:0]
	for _, f := range items {
		if f.Phase() == fixture.PhaseUpcoming {
			out = append(out, f)
		}
	}
	return out, nil
}

// ListMatchday returns every fixture of one matchday, started or not.
func (s *FixtureService) ListMatchday(ctx context.Context, matchday int) ([]fixture.Fixture, error) {
	if matchday <= 0 {
		return nil, fmt.Errorf("%w: matchday must be positive", ErrInvalidInput)
	}

	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []fixture.Fixture
	for _, f := range items {
		if f.Matchday == matchday {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: matchday=%d", ErrNotFound, matchday)
	}
	return out, nil
}

// NextMatchday is the lowest matchday that still has an unstarted fixture.
func (s *FixtureService) NextMatchday(ctx context.Context) (int, error) {
	items, err := s.ListUpcoming(ctx)
	if err != nil {
		return 0, err
	}
	next := 0
	for _, f := range items {
		if f.Matchday > 0 && (next == 0 || f.Matchday < next) {
			next = f.Matchday
		}
	}
	if next == 0 {
		return 0, fmt.Errorf("%w: no upcoming matchday", ErrNotFound)
	}
	return next, nil
}
