package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/platform/cache"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
)

const historyCacheKey = "history:state"

var errHistoryDegraded = errors.New("history degraded")

// LogBuilder cleans raw records into a match log.
type LogBuilder func(records []match.Record) match.Log

// HistoryState is everything derived from one load of the match history.
// It is immutable and shared between concurrent requests.
type HistoryState struct {
	Log       match.Log
	Snapshots *features.SnapshotIndex
	H2H       *features.HeadToHead
	LoadedAt  time.Time
	// Degraded is set when the source failed and the state is empty.
	Degraded bool
}

type HistoryService struct {
	source  match.Source
	build   LogBuilder
	cfg     features.Config
	breaker *resilience.CircuitBreaker
	cache   *cache.Store[*HistoryState]
	logger  *logging.Logger
	now     func() time.Time
}

// NewHistoryService wires the history pipeline. breaker and store may be
// nil, in which case every call reaches the source.
func NewHistoryService(
	source match.Source,
	build LogBuilder,
	cfg features.Config,
	breaker *resilience.CircuitBreaker,
	store *cache.Store[*HistoryState],
	logger *logging.Logger,
) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HistoryService{
		source:  source,
		build:   build,
		cfg:     cfg,
		breaker: breaker,
		cache:   store,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *HistoryService) Config() features.Config {
	return s.cfg
}

// State returns the current history. A failing source yields an empty,
// degraded state rather than an error; such states are not cached so the
// next call retries once the breaker allows it.
func (s *HistoryService) State(ctx context.Context) (*HistoryState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.State")
	defer span.End()

	var (
		state *HistoryState
		err   error
	)
	if s.cache == nil {
		state, err = s.load(ctx)
	} else {
		state, err = s.cache.GetOrLoad(ctx, historyCacheKey, s.load)
	}

	switch {
	case err == nil:
		return state, nil
	case errors.Is(err, errHistoryDegraded):
		return s.newState(nil, true), nil
	default:
		return nil, err
	}
}

// Invalidate forces the next State call to reload from the source.
func (s *HistoryService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, historyCacheKey)
	}
}

func (s *HistoryService) load(ctx context.Context) (*HistoryState, error) {
	var records []match.Record
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var loadErr error
		records, loadErr = s.source.Load(ctx)
		return loadErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("load match history: %w", ctxErr)
		}
		s.logger.WarnContext(ctx, "match history unavailable, continuing with empty history", "error", err)
		return nil, errHistoryDegraded
	}

	state := s.newState(records, false)
	s.logger.InfoContext(ctx, "match history loaded",
		"input_records", len(records),
		"records", state.Log.Len(),
		"duplicates", state.Log.Stats().Duplicates,
		"invalid", state.Log.Stats().Invalid,
		"teams", len(state.Log.Teams()),
	)
	return state, nil
}

func (s *HistoryService) newState(records []match.Record, degraded bool) *HistoryState {
	log := s.build(records)
	timelines := features.BuildTimelines(log.All())
	return &HistoryState{
		Log:       log,
		Snapshots: features.ComputeSnapshots(timelines, s.cfg),
		H2H:       features.NewHeadToHead(log, s.cfg),
		LoadedAt:  s.now(),
		Degraded:  degraded,
	}
}
