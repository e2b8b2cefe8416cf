package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/quiniela/internal/config"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
	repocache "github.com/riskibarqy/quiniela/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/quiniela/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/quiniela/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/quiniela/internal/infrastructure/source/csvfile"
	"github.com/riskibarqy/quiniela/internal/interfaces/httpapi"
	"github.com/riskibarqy/quiniela/internal/platform/cache"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

// Components holds the wired feature pipeline shared by the CLI and the
// HTTP server.
type Components struct {
	Config     config.Config
	Normalizer *team.Normalizer
	History    *usecase.HistoryService
	Training   *usecase.TrainingService
	Inference  *usecase.InferenceService
	Fixtures   *usecase.FixtureService
	Snapshots  *usecase.SnapshotService
	Ingest     *usecase.IngestService

	closers []func() error
}

func Build(cfg config.Config, logger *logging.Logger) (*Components, error) {
	if logger == nil {
		logger = logging.Default()
	}

	normalizer, err := newNormalizer(cfg.TeamAliases)
	if err != nil {
		return nil, fmt.Errorf("build team normalizer: %w", err)
	}

	c := &Components{Config: cfg, Normalizer: normalizer}

	// CSV season files are always readable: they back the csv history
	// source and feed ingestion into Postgres.
	csvMatches := csvfile.NewMatchSource(cfg.HistoryCSVPaths, logger.Named("csv"))

	var (
		historySource match.Source = csvMatches.Since(cfg.HistorySince)
		store         match.Store
	)
	if cfg.DBURL != "" {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)

		store = postgres.NewMatchRepository(db)
		if cfg.HistorySource == config.HistorySourcePostgres {
			historySource = postgres.NewMatchRepository(db, postgres.WithHistorySince(cfg.HistorySince))
		}
	}

	var historyCache *cache.Store[*usecase.HistoryState]
	var fixtureSource fixture.Source
	if cfg.FixturesCSVPath != "" {
		fixtureSource = csvfile.NewFixtureSource(cfg.FixturesCSVPath, logger.Named("csv"))
	}

	if cfg.CacheEnabled {
		cachedHistory := repocache.NewMatchSource(historySource, cache.NewStore[[]match.Record](cfg.CacheTTL))
		if store != nil && cfg.HistorySource == config.HistorySourcePostgres {
			store = repocache.NewMatchStore(store, cachedHistory)
		}
		historySource = cachedHistory
		historyCache = cache.NewStore[*usecase.HistoryState](cfg.CacheTTL)
		if fixtureSource != nil {
			fixtureSource = repocache.NewFixtureSource(fixtureSource, cache.NewStore[[]fixture.Fixture](cfg.CacheTTL))
		}
	}

	build := func(records []match.Record) match.Log {
		return memory.NewMatchRepository(records, normalizer)
	}
	breaker := resilience.NewOptionalCircuitBreaker(resilience.NormalizeCircuitBreakerConfig(cfg.HistoryCircuit))

	c.History = usecase.NewHistoryService(historySource, build, cfg.Features, breaker, historyCache, logger.Named("history"))
	c.Training = usecase.NewTrainingService(c.History, logger.Named("training"))
	c.Inference = usecase.NewInferenceService(c.History, normalizer, logger.Named("inference"))
	c.Fixtures = usecase.NewFixtureService(fixtureSource, normalizer)
	c.Snapshots = usecase.NewSnapshotService(c.History, normalizer)
	c.Ingest = usecase.NewIngestService(csvMatches, store, build, c.History, logger.Named("ingest"))

	return c, nil
}

// Close releases every resource opened by Build.
func (c *Components) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func NewHTTPServer(c *Components, logger *logging.Logger) (*http.Server, error) {
	if c == nil {
		return nil, fmt.Errorf("components are required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	handler := httpapi.NewHandler(c.Training, c.Inference, c.Fixtures, c.Snapshots, c.Ingest, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, logger.Named("http"), c.Config.CORSAllowedOrigins, c.Config.InternalJobToken)

	server := &http.Server{
		Addr:         c.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  c.Config.ReadTimeout,
		WriteTimeout: c.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// newNormalizer layers configured aliases over the built-in table.
func newNormalizer(extra map[string]string) (*team.Normalizer, error) {
	aliases := team.DefaultAliases()
	for raw, canonical := range extra {
		aliases[raw] = canonical
	}
	return team.NewNormalizer(aliases)
}
