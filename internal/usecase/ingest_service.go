package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

type IngestResult struct {
	Read       int
	Kept       int
	Duplicates int
	Invalid    int
	Stored     int
}

// IngestService copies cleaned match history from one source into a store,
// typically CSV season files into Postgres.
type IngestService struct {
	source  match.Source
	store   match.Store
	build   LogBuilder
	history *HistoryService
	logger  *logging.Logger
}

func NewIngestService(source match.Source, store match.Store, build LogBuilder, history *HistoryService, logger *logging.Logger) *IngestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestService{source: source, store: store, build: build, history: history, logger: logger}
}

func (s *IngestService) Run(ctx context.Context) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestService.Run")
	defer span.End()

	if s.store == nil {
		return IngestResult{}, fmt.Errorf("%w: no match store configured", ErrDependencyUnavailable)
	}

	records, err := s.source.Load(ctx)
	if err != nil {
		return IngestResult{}, fmt.Errorf("load ingest source: %w", err)
	}

	log := s.build(records)
	cleaned := log.All()
	stored, err := s.store.Upsert(ctx, cleaned)
	if err != nil {
		return IngestResult{}, fmt.Errorf("store match records: %w", err)
	}
	if s.history != nil {
		s.history.Invalidate(ctx)
	}

	stats := log.Stats()
	result := IngestResult{
		Read:       len(records),
		Kept:       len(cleaned),
		Duplicates: stats.Duplicates,
		Invalid:    stats.Invalid,
		Stored:     stored,
	}
	s.logger.InfoContext(ctx, "match history ingested",
		"read", result.Read,
		"kept", result.Kept,
		"duplicates", result.Duplicates,
		"invalid", result.Invalid,
		"stored", result.Stored,
	)
	return result, nil
}
