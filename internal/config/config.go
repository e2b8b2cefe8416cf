package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
)

const (
	HistorySourceCSV      = "csv"
	HistorySourcePostgres = "postgres"
)

// Config stores runtime configuration for the CLI and the API server.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	CORSAllowedOrigins         []string
	InternalJobToken           string
	LogLevel                   logging.Level
	LogFormat                  logging.Format
	HistorySource              string
	HistoryCSVPaths            []string
	HistorySince               time.Time
	FixturesCSVPath            string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	HistoryCircuit             resilience.CircuitBreakerConfig
	Features                   features.Config
	TeamAliases                map[string]string
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(getEnv("APP_SERVICE_NAME", "quiniela-features")),
		ServiceVersion:     strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:          logging.ParseFormat(getEnv("APP_LOG_FORMAT", string(logging.FormatJSON))),
		HistoryCSVPaths:    splitCSV(getEnv("HISTORY_CSV_PATHS", "data/laliga_advanced_stats.csv")),
		FixturesCSVPath:    strings.TrimSpace(getEnv("FIXTURES_CSV_PATH", "data/laliga_fixtures.csv")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		PprofAddr:          getEnv("PPROF_ADDR", ":6060"),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}

	if cfg.ReadTimeout, err = time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if cfg.WriteTimeout, err = time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HistorySource = strings.ToLower(strings.TrimSpace(getEnv("HISTORY_SOURCE", HistorySourceCSV)))
	switch cfg.HistorySource {
	case HistorySourceCSV:
		if len(cfg.HistoryCSVPaths) == 0 {
			return Config{}, fmt.Errorf("HISTORY_CSV_PATHS is required when HISTORY_SOURCE=csv")
		}
	case HistorySourcePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when HISTORY_SOURCE=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid HISTORY_SOURCE %q: valid values are %s, %s", cfg.HistorySource, HistorySourceCSV, HistorySourcePostgres)
	}

	if raw := strings.TrimSpace(getEnv("HISTORY_SINCE", "")); raw != "" {
		if cfg.HistorySince, err = time.Parse(time.DateOnly, raw); err != nil {
			return Config{}, fmt.Errorf("parse HISTORY_SINCE: %w", err)
		}
	}

	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")); err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	if cfg.CacheEnabled, err = strconv.ParseBool(getEnv("CACHE_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "5m")); err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	if cfg.HistoryCircuit, err = loadCircuit("HISTORY_CIRCUIT"); err != nil {
		return Config{}, err
	}

	if cfg.Features, err = loadFeatures(); err != nil {
		return Config{}, err
	}

	if cfg.TeamAliases, err = parseAliasMap(getEnv("TEAM_ALIAS_MAP", "")); err != nil {
		return Config{}, fmt.Errorf("parse TEAM_ALIAS_MAP: %w", err)
	}

	pprofDefault := "false"
	if appEnv == EnvDev {
		pprofDefault = "true"
	}
	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", pprofDefault)); err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if err := loadPyroscope(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultCircuitBreakerConfig()
	out := defaults

	var err error
	if out.Enabled, err = strconv.ParseBool(getEnv(prefix+"_ENABLED", strconv.FormatBool(defaults.Enabled))); err != nil {
		return out, fmt.Errorf("parse %s_ENABLED: %w", prefix, err)
	}
	if out.FailureThreshold, err = getEnvAsInt(prefix+"_FAILURE_COUNT", defaults.FailureThreshold); err != nil {
		return out, fmt.Errorf("parse %s_FAILURE_COUNT: %w", prefix, err)
	}
	if out.FailureThreshold < 1 {
		return out, fmt.Errorf("%s_FAILURE_COUNT must be >= 1", prefix)
	}
	if out.OpenTimeout, err = time.ParseDuration(getEnv(prefix+"_OPEN_TIMEOUT", defaults.OpenTimeout.String())); err != nil {
		return out, fmt.Errorf("parse %s_OPEN_TIMEOUT: %w", prefix, err)
	}
	if out.OpenTimeout <= 0 {
		return out, fmt.Errorf("%s_OPEN_TIMEOUT must be > 0", prefix)
	}
	if out.HalfOpenMaxReq, err = getEnvAsInt(prefix+"_HALF_OPEN_MAX_REQ", defaults.HalfOpenMaxReq); err != nil {
		return out, fmt.Errorf("parse %s_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if out.HalfOpenMaxReq < 1 {
		return out, fmt.Errorf("%s_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}
	return out, nil
}

func loadFeatures() (features.Config, error) {
	cfg := features.DefaultConfig()

	ints := []struct {
		key string
		dst *int
	}{
		{"FEATURE_EMA_SPAN", &cfg.EMASpan},
		{"FEATURE_FORM_WINDOW", &cfg.FormWindow},
		{"FEATURE_REST_DEFAULT_DAYS", &cfg.RestDefaultDays},
		{"FEATURE_REST_MIN_DAYS", &cfg.RestMinDays},
		{"FEATURE_REST_MAX_DAYS", &cfg.RestMaxDays},
		{"FEATURE_H2H_LOOKBACK_YEARS", &cfg.H2HLookbackYears},
		{"FEATURE_INFERENCE_REST_DAYS", &cfg.InferenceRestDays},
		{"FEATURE_WORKERS", &cfg.Workers},
	}
	for _, item := range ints {
		value, err := getEnvAsInt(item.key, *item.dst)
		if err != nil {
			return features.Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}

	neutral, err := strconv.ParseFloat(getEnv("FEATURE_H2H_NEUTRAL", strconv.FormatFloat(cfg.H2HNeutral, 'f', -1, 64)), 64)
	if err != nil {
		return features.Config{}, fmt.Errorf("parse FEATURE_H2H_NEUTRAL: %w", err)
	}
	cfg.H2HNeutral = neutral

	mode, err := features.ParseH2HMode(strings.ToLower(strings.TrimSpace(getEnv("FEATURE_INFERENCE_H2H_MODE", string(cfg.InferenceH2HMode)))))
	if err != nil {
		return features.Config{}, fmt.Errorf("parse FEATURE_INFERENCE_H2H_MODE: %w", err)
	}
	cfg.InferenceH2HMode = mode

	if err := cfg.Validate(); err != nil {
		return features.Config{}, err
	}
	return cfg, nil
}

func loadPyroscope(cfg *Config) error {
	var err error
	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseAliasMap reads "Alias:Canonical,Other Alias:Canonical" pairs.
func parseAliasMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected alias:canonical", item)
		}

		alias := strings.TrimSpace(segments[0])
		canonical := strings.TrimSpace(segments[1])
		if alias == "" || canonical == "" {
			return nil, fmt.Errorf("empty alias or canonical name in item %q", item)
		}
		out[alias] = canonical
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
