package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/quiniela/internal/config"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

const pprofStopTimeout = 5 * time.Second

// Options selects which telemetry a binary starts. Component tags traces and
// profiles so the API and the batch CLI can be told apart.
type Options struct {
	Component string
	Tracing   bool
	Pprof     bool
}

// Runtime owns the process-wide telemetry of one binary.
type Runtime struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiler    func() error
	pprof           *http.Server
}

// Start brings up tracing, profiling and the pprof listener as configured.
// Anything already started is torn down again when a later step fails.
func Start(cfg config.Config, logger *logging.Logger, opts Options) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{
		logger:          logger,
		shutdownTracing: func(context.Context) error { return nil },
		stopProfiler:    func() error { return nil },
	}

	if opts.Tracing {
		shutdown, err := InitUptrace(cfg, opts.Component, logger)
		if err != nil {
			return nil, fmt.Errorf("init uptrace: %w", err)
		}
		rt.shutdownTracing = shutdown
	}

	stop, err := InitPyroscope(cfg, opts.Component, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	rt.stopProfiler = stop

	if opts.Pprof {
		srv, err := StartPprofServer(cfg, logger)
		if err != nil {
			_ = rt.Shutdown(context.Background())
			return nil, fmt.Errorf("start pprof: %w", err)
		}
		rt.pprof = srv
	}

	return rt, nil
}

// Shutdown stops everything Start brought up, in reverse order.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	if err := StopPprofServer(r.pprof, r.logger, pprofStopTimeout); err != nil {
		errs = append(errs, fmt.Errorf("stop pprof: %w", err))
	}
	if err := r.stopProfiler(); err != nil {
		errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
	}
	if err := r.shutdownTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown uptrace: %w", err))
	}
	return errors.Join(errs...)
}
