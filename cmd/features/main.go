package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/quiniela/internal/app"
	"github.com/riskibarqy/quiniela/internal/config"
	"github.com/riskibarqy/quiniela/internal/observability"
	idgen "github.com/riskibarqy/quiniela/internal/platform/id"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *runEnv, args []string) error
}

var commands = []command{
	{name: "training", summary: "build the labelled training table", run: runTraining},
	{name: "upcoming", summary: "build feature rows for scheduled fixtures", run: runUpcoming},
	{name: "snapshot", summary: "print a team's rolling state", run: runSnapshot},
	{name: "ingest", summary: "copy CSV history into Postgres", run: runIngest},
}

// runEnv is what every subcommand receives.
type runEnv struct {
	components *app.Components
	logger     *logging.Logger
	stdout     io.Writer
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cmd, ok := findCommand(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	runID, err := idgen.NewUUIDGenerator().NewID()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate run id: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the data, so logs go to stderr.
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr}).With(
		"service", cfg.ServiceName,
		"command", cmd.name,
		"run_id", runID,
	)
	logging.SetDefault(logger)

	code := execute(cmd, cfg, logger)
	_ = logger.Sync()
	os.Exit(code)
}

func execute(cmd command, cfg config.Config, logger *logging.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(cfg, logger, observability.Options{Component: "features"})
	if err != nil {
		logger.Error("start observability", "error", err)
		return 1
	}
	defer func() { _ = telemetry.Shutdown(context.Background()) }()

	components, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() { _ = components.Close() }()

	started := time.Now()
	env := &runEnv{components: components, logger: logger, stdout: os.Stdout}
	var runErr error
	observability.ProfilePhase(ctx, cmd.name, func(ctx context.Context) {
		runErr = cmd.run(ctx, env, os.Args[2:])
	})
	if err := runErr; err != nil {
		logger.Error("command failed", "error", err, "duration_ms", time.Since(started).Milliseconds())
		return 1
	}

	logger.Info("command finished", "duration_ms", time.Since(started).Milliseconds())
	return 0
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: features <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "run 'features <command> -h' for command flags")
}
