package cache

import (
	"context"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	basecache "github.com/riskibarqy/quiniela/internal/platform/cache"
)

const (
	keyMatchAll    = "match:all"
	keyFixtureList = "fixture:list"
)

// MatchSource memoizes the raw history of next. Loads racing on an expired
// entry share one call to next.
type MatchSource struct {
	next  match.Source
	cache *basecache.Store[[]match.Record]
}

func NewMatchSource(next match.Source, cache *basecache.Store[[]match.Record]) *MatchSource {
	return &MatchSource{next: next, cache: cache}
}

func (s *MatchSource) Load(ctx context.Context) ([]match.Record, error) {
	items, err := s.cache.GetOrLoad(ctx, keyMatchAll, func(ctx context.Context) ([]match.Record, error) {
		items, err := s.next.Load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]match.Record(nil), items...), nil
}

// Invalidate drops the memoized history, e.g. after an ingest.
func (s *MatchSource) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, keyMatchAll)
}

// MatchStore invalidates a MatchSource whenever records are written through it.
type MatchStore struct {
	next   match.Store
	source *MatchSource
}

func NewMatchStore(next match.Store, source *MatchSource) *MatchStore {
	return &MatchStore{next: next, source: source}
}

func (s *MatchStore) Upsert(ctx context.Context, records []match.Record) (int, error) {
	n, err := s.next.Upsert(ctx, records)
	if s.source != nil {
		s.source.Invalidate(ctx)
	}
	return n, err
}

type FixtureSource struct {
	next  fixture.Source
	cache *basecache.Store[[]fixture.Fixture]
}

func NewFixtureSource(next fixture.Source, cache *basecache.Store[[]fixture.Fixture]) *FixtureSource {
	return &FixtureSource{next: next, cache: cache}
}

func (s *FixtureSource) List(ctx context.Context) ([]fixture.Fixture, error) {
	items, err := s.cache.GetOrLoad(ctx, keyFixtureList, func(ctx context.Context) ([]fixture.Fixture, error) {
		items, err := s.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]fixture.Fixture(nil), items...), nil
}
