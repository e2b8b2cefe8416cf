package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	fixturemock "github.com/riskibarqy/quiniela/internal/mocks/domain/fixture"
	matchmock "github.com/riskibarqy/quiniela/internal/mocks/domain/match"
	basecache "github.com/riskibarqy/quiniela/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestMatchSource_LoadsOnceWithinTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := matchmock.NewSource(t)
	records := []match.Record{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), HomeTeam: "Girona", AwayTeam: "Getafe"}}
	next.On("Load", mock.Anything).Return(records, nil).Once()

	source := NewMatchSource(next, basecache.NewStore[[]match.Record](time.Minute))
	for i := 0; i < 3; i++ {
		got, err := source.Load(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got) != 1 || got[0].HomeTeam != "Girona" {
			t.Fatalf("unexpected records: %+v", got)
		}
	}

	got, _ := source.Load(ctx)
	got[0].HomeTeam = "mutated"
	again, _ := source.Load(ctx)
	if again[0].HomeTeam != "Girona" {
		t.Fatalf("cached slice must not be shared with callers")
	}
}

func TestMatchSource_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := matchmock.NewSource(t)
	next.On("Load", mock.Anything).Return(nil, errors.New("db down")).Once()
	next.On("Load", mock.Anything).Return([]match.Record{}, nil).Once()

	source := NewMatchSource(next, basecache.NewStore[[]match.Record](time.Minute))
	if _, err := source.Load(ctx); err == nil {
		t.Fatalf("expected first load to fail")
	}
	if _, err := source.Load(ctx); err != nil {
		t.Fatalf("expected second load to succeed, got %v", err)
	}
}

func TestMatchStore_UpsertInvalidatesSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := matchmock.NewSource(t)
	next.On("Load", mock.Anything).Return([]match.Record{}, nil).Twice()

	store := matchmock.NewStore(t)
	store.On("Upsert", mock.Anything, mock.Anything).Return(2, nil).Once()

	source := NewMatchSource(next, basecache.NewStore[[]match.Record](time.Minute))
	writer := NewMatchStore(store, source)

	if _, err := source.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	n, err := writer.Upsert(ctx, []match.Record{{}, {}})
	if err != nil || n != 2 {
		t.Fatalf("unexpected upsert result: n=%d err=%v", n, err)
	}
	if _, err := source.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestFixtureSource_List(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := fixturemock.NewSource(t)
	next.On("List", mock.Anything).Return([]fixture.Fixture{{HomeTeam: "Sevilla", AwayTeam: "Valencia"}}, nil).Once()

	source := NewFixtureSource(next, basecache.NewStore[[]fixture.Fixture](time.Minute))
	for i := 0; i < 2; i++ {
		got, err := source.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("unexpected fixtures: %+v", got)
		}
	}
}
