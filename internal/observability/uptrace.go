package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/quiniela/internal/config"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace configures global OpenTelemetry providers for Uptrace. The
// resource records where match history comes from, since spans for the same
// operation differ a lot between the CSV and Postgres sources.
func InitUptrace(cfg config.Config, component string, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return func(context.Context) error { return nil }, nil
	}

	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttributes(cfg, component)...),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"component", component,
	)

	return uptrace.Shutdown, nil
}

func resourceAttributes(cfg config.Config, component string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("quiniela.history_source", cfg.HistorySource),
		attribute.Bool("quiniela.cache_enabled", cfg.CacheEnabled),
	}
	if c := strings.TrimSpace(component); c != "" {
		attrs = append(attrs, attribute.String("quiniela.component", c))
	}
	return attrs
}
