package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// TrainingInput narrows the output rows to From <= date < To. Zero bounds
// are open. Features always see the full history.
type TrainingInput struct {
	From time.Time
	To   time.Time
}

type TrainingService struct {
	history *HistoryService
	workers int
	logger  *logging.Logger
}

func NewTrainingService(history *HistoryService, logger *logging.Logger) *TrainingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TrainingService{
		history: history,
		workers: max(history.Config().Workers, 1),
		logger:  logger,
	}
}

// BuildDataset emits one labelled row per match in chronological order.
// Matches where either side has no prior history are counted in Dropped.
func (s *TrainingService) BuildDataset(ctx context.Context, input TrainingInput) (features.Dataset, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrainingService.BuildDataset")
	defer span.End()

	if !input.From.IsZero() && !input.To.IsZero() && !input.From.Before(input.To) {
		return features.Dataset{}, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	state, err := s.history.State(ctx)
	if err != nil {
		return features.Dataset{}, fmt.Errorf("load history state: %w", err)
	}

	records := state.Log.Between(input.From, input.To)
	rows := make([]features.TrainingRow, len(records))
	kept := make([]bool, len(records))

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return features.Dataset{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := range records {
		if ctx.Err() != nil {
			break
		}
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			rows[i], kept[i] = buildTrainingRow(state, records[i])
		}); err != nil {
			workers.Done()
			workers.Wait()
			return features.Dataset{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return features.Dataset{}, err
	}

	ds := features.Dataset{Rows: make([]features.TrainingRow, 0, len(records))}
	for i := range records {
		if !kept[i] {
			ds.Dropped++
			continue
		}
		ds.Rows = append(ds.Rows, rows[i])
	}

	span.SetAttributes(
		attribute.Int("matches.count", len(records)),
		attribute.Int("rows.count", len(ds.Rows)),
		attribute.Int("rows.dropped", ds.Dropped),
		attribute.Bool("history.degraded", state.Degraded),
	)
	s.logger.InfoContext(ctx, "training dataset built",
		"matches", len(records),
		"rows", len(ds.Rows),
		"dropped", ds.Dropped,
		"degraded", state.Degraded,
	)
	return ds, nil
}

func buildTrainingRow(state *HistoryState, r match.Record) (features.TrainingRow, bool) {
	home := state.Snapshots.AsOf(r.HomeTeam, r.Date)
	away := state.Snapshots.AsOf(r.AwayTeam, r.Date)
	if !home.HasHistory() || !away.HasHistory() {
		return features.TrainingRow{}, false
	}

	return features.TrainingRow{
		Date:     match.Day(r.Date),
		HomeTeam: r.HomeTeam,
		AwayTeam: r.AwayTeam,
		Features: features.NewVector(home, away, state.H2H.Full(r.HomeTeam, r.AwayTeam, r.Date)),
		Label:    r.Outcome(),
	}, true
}
