package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/infrastructure/export"
	"github.com/riskibarqy/quiniela/internal/infrastructure/source/csvfile"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

const (
	formatCSV  = "csv"
	formatJSON = "json"
)

func runTraining(ctx context.Context, env *runEnv, args []string) error {
	fs := flag.NewFlagSet("training", flag.ContinueOnError)
	from := fs.String("from", "", "first match date to emit, inclusive")
	to := fs.String("to", "", "last match date to emit, exclusive")
	format := fs.String("format", formatCSV, "output format: csv or json")
	out := fs.String("out", "", "output file (stdout when empty)")
	split := fs.Float64("split", 0, "train fraction for a chronological holdout; the holdout goes to <out>.holdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}

	input := usecase.TrainingInput{}
	var err error
	if input.From, err = parseOptionalDate(*from); err != nil {
		return fmt.Errorf("parse -from: %w", err)
	}
	if input.To, err = parseOptionalDate(*to); err != nil {
		return fmt.Errorf("parse -to: %w", err)
	}

	ds, err := env.components.Training.BuildDataset(ctx, input)
	if err != nil {
		return err
	}

	if *split <= 0 {
		return writeTo(*out, env.stdout, func(w io.Writer) error {
			return writeDataset(w, *format, ds)
		})
	}

	if *out == "" {
		return errors.New("-split requires -out")
	}
	train, holdout, err := features.SplitChronological(ds.Rows, *split)
	if err != nil {
		return err
	}
	holdoutOut := holdoutPath(*out)
	env.logger.InfoContext(ctx, "training split", "train_rows", len(train), "holdout_rows", len(holdout), "holdout_path", holdoutOut)

	if err := writeTo(*out, env.stdout, func(w io.Writer) error {
		return writeDataset(w, *format, features.Dataset{Rows: train, Dropped: ds.Dropped})
	}); err != nil {
		return err
	}
	return writeTo(holdoutOut, env.stdout, func(w io.Writer) error {
		return writeDataset(w, *format, features.Dataset{Rows: holdout})
	})
}

func runUpcoming(ctx context.Context, env *runEnv, args []string) error {
	fs := flag.NewFlagSet("upcoming", flag.ContinueOnError)
	matchday := fs.Int("matchday", 0, "only this matchday (all unstarted fixtures when 0)")
	includeStarted := fs.Bool("include-started", false, "keep live, finished and cancelled fixtures")
	mode := fs.String("h2h-mode", "", "head-to-head mode: full or fast (config default when empty)")
	format := fs.String("format", formatCSV, "output format: csv or json")
	out := fs.String("out", "", "output file (stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := checkFormat(*format); err != nil {
		return err
	}

	var (
		fixtures []fixture.Fixture
		err      error
	)
	if *matchday > 0 {
		fixtures, err = env.components.Fixtures.ListMatchday(ctx, *matchday)
	} else {
		fixtures, err = env.components.Fixtures.ListUpcoming(ctx)
	}
	if err != nil {
		return err
	}

	set, err := env.components.Inference.BuildUpcoming(ctx, fixtures, usecase.InferenceOptions{
		IncludeStarted: *includeStarted,
		H2HMode:        features.H2HMode(strings.ToLower(strings.TrimSpace(*mode))),
	})
	if err != nil {
		return err
	}
	for _, ex := range set.Excluded {
		env.logger.WarnContext(ctx, "fixture excluded",
			"matchday", ex.Fixture.Matchday,
			"home_team", ex.Fixture.HomeTeam,
			"away_team", ex.Fixture.AwayTeam,
			"reason", ex.Reason,
			"team", ex.Team,
		)
	}
	env.logger.InfoContext(ctx, "upcoming features built", "rows", len(set.Rows), "excluded", len(set.Excluded))

	return writeTo(*out, env.stdout, func(w io.Writer) error {
		if *format == formatJSON {
			return export.WriteJSON(w, export.NewUpcomingDocument(set))
		}
		return export.WriteUpcomingCSV(w, set)
	})
}

func runSnapshot(ctx context.Context, env *runEnv, args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	teamName := fs.String("team", "", "team name, any known spelling")
	date := fs.String("date", "", "state entering this date (latest when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*teamName) == "" {
		return errors.New("-team is required")
	}

	at, err := parseOptionalDate(*date)
	if err != nil {
		return fmt.Errorf("parse -date: %w", err)
	}

	snapshot, err := env.components.Snapshots.TeamSnapshot(ctx, *teamName, at)
	if err != nil {
		return err
	}
	return export.WriteJSON(env.stdout, export.NewSnapshotEntry(snapshot))
}

func runIngest(ctx context.Context, env *runEnv, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := env.components.Ingest.Run(ctx)
	if err != nil {
		return err
	}
	env.logger.InfoContext(ctx, "ingest finished",
		"read", res.Read,
		"kept", res.Kept,
		"duplicates", res.Duplicates,
		"invalid", res.Invalid,
		"stored", res.Stored,
	)
	return nil
}

func writeDataset(w io.Writer, format string, ds features.Dataset) error {
	if format == formatJSON {
		return export.WriteJSON(w, export.NewTrainingDocument(ds))
	}
	return export.WriteTrainingCSV(w, ds)
}

// writeTo renders into path, or into stdout when path is empty.
func writeTo(path string, stdout io.Writer, render func(io.Writer) error) (err error) {
	if path == "" {
		return render(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return render(f)
}

// holdoutPath turns "train.csv" into "train.holdout.csv".
func holdoutPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".holdout" + ext
}

func checkFormat(format string) error {
	switch format {
	case formatCSV, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format %q: valid values are %s, %s", format, formatCSV, formatJSON)
	}
}

func parseOptionalDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return csvfile.ParseDate(raw)
}
