package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
	matchmock "github.com/riskibarqy/quiniela/internal/mocks/domain/match"
	"github.com/riskibarqy/quiniela/internal/platform/cache"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
)

func TestHistoryService_State_NormalizesAndIndexes(t *testing.T) {
	t.Parallel()

	svc := newTestHistory(staticSource(seasonRecords()), nil)
	state, err := svc.State(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Degraded {
		t.Fatalf("did not expect degraded state")
	}
	if state.Log.Len() != 4 {
		t.Fatalf("unexpected log size: %d", state.Log.Len())
	}
	if got := state.Log.All()[3].HomeTeam; got != "Girona" {
		t.Fatalf("expected alias to be normalized, got %q", got)
	}
	if !state.Snapshots.Has("Sevilla") {
		t.Fatalf("expected Sevilla in snapshot index")
	}
	latest, _ := state.Snapshots.Latest("Girona")
	if latest.Matches != 3 {
		t.Fatalf("unexpected Girona match count: %d", latest.Matches)
	}
}

func TestHistoryService_SourceFailureYieldsEmptyHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := matchmock.NewSource(t)
	source.On("Load", mock.Anything).Return(nil, errors.New("file not found")).Twice()

	store := cache.NewStore[*HistoryState](time.Minute)
	svc := NewHistoryService(source, testLogBuilder(team.DefaultNormalizer()), features.DefaultConfig(), nil, store, logging.NewNop())

	for i := 0; i < 2; i++ {
		state, err := svc.State(ctx)
		if err != nil {
			t.Fatalf("degraded history must not error: %v", err)
		}
		if !state.Degraded || state.Log.Len() != 0 {
			t.Fatalf("expected empty degraded state, got degraded=%t len=%d", state.Degraded, state.Log.Len())
		}
	}
}

func TestHistoryService_CachesSuccessfulLoads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := matchmock.NewSource(t)
	source.On("Load", mock.Anything).Return(seasonRecords(), nil).Once()

	store := cache.NewStore[*HistoryState](time.Minute)
	svc := NewHistoryService(source, testLogBuilder(team.DefaultNormalizer()), features.DefaultConfig(), nil, store, logging.NewNop())

	first, err := svc.State(ctx)
	if err != nil {
		t.Fatalf("first state: %v", err)
	}
	second, err := svc.State(ctx)
	if err != nil {
		t.Fatalf("second state: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached state to be reused")
	}
}

func TestHistoryService_OpenBreakerSkipsSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := matchmock.NewSource(t)
	source.On("Load", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Hour,
		HalfOpenMaxReq:   1,
	})
	svc := newTestHistory(source, breaker)

	for i := 0; i < 3; i++ {
		state, err := svc.State(ctx)
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if !state.Degraded {
			t.Fatalf("expected degraded state on call %d", i)
		}
	}
	if breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("expected breaker to be open, got %s", breaker.State())
	}
}

func TestHistoryService_CancelledContextIsAnError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := matchmock.NewSource(t)
	source.On("Load", mock.Anything).Return(nil, context.Canceled).Once()

	svc := newTestHistory(source, nil)
	if _, err := svc.State(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

var _ match.Source = staticSource(nil)
