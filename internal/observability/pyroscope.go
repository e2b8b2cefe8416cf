package observability

import (
	"context"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/quiniela/internal/config"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

// InitPyroscope starts continuous profiling when enabled. Profiles carry the
// component and the feature settings that change the cost of a run.
func InitPyroscope(cfg config.Config, component string, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              profileTags(cfg, component),
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
		"component", component,
		"upload_rate", cfg.PyroscopeUploadRate.String(),
	)

	return profiler.Stop, nil
}

func profileTags(cfg config.Config, component string) map[string]string {
	tags := map[string]string{
		"env":            cfg.AppEnv,
		"service":        cfg.ServiceName,
		"history_source": cfg.HistorySource,
		"h2h_mode":       string(cfg.Features.InferenceH2HMode),
	}
	if c := strings.TrimSpace(component); c != "" {
		tags["component"] = c
	}
	return tags
}

// ProfilePhase runs fn under a pyroscope "phase" label, so training assembly
// and history loading show up as separate flame graphs.
func ProfilePhase(ctx context.Context, phase string, fn func(context.Context)) {
	pyroscope.TagWrapper(ctx, pyroscope.Labels("phase", phase), fn)
}
