package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type InferenceOptions struct {
	// IncludeStarted keeps live, finished and cancelled fixtures.
	IncludeStarted bool
	// H2HMode overrides the configured mode when set.
	H2HMode features.H2HMode
}

type InferenceService struct {
	history    *HistoryService
	normalizer *team.Normalizer
	logger     *logging.Logger
	now        func() time.Time
}

func NewInferenceService(history *HistoryService, normalizer *team.Normalizer, logger *logging.Logger) *InferenceService {
	if logger == nil {
		logger = logging.Default()
	}
	return &InferenceService{
		history:    history,
		normalizer: normalizer,
		logger:     logger,
		now:        time.Now,
	}
}

// BuildUpcoming produces one feature row per predictable fixture, using each
// team's state after every known match. Every input fixture ends up either
// in Rows or in Excluded, in input order.
func (s *InferenceService) BuildUpcoming(ctx context.Context, fixtures []fixture.Fixture, opts InferenceOptions) (features.UpcomingSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InferenceService.BuildUpcoming",
		attribute.Int("fixtures.count", len(fixtures)),
		attribute.Bool("fixtures.include_started", opts.IncludeStarted),
	)
	defer span.End()

	cfg := s.history.Config()
	mode := opts.H2HMode
	if mode == "" {
		mode = cfg.InferenceH2HMode
	}
	mode, err := features.ParseH2HMode(string(mode))
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidInput, err)
		recordSpanError(span, err)
		return features.UpcomingSet{}, err
	}

	state, err := s.history.State(ctx)
	if err != nil {
		return features.UpcomingSet{}, fmt.Errorf("load history state: %w", err)
	}

	set := features.UpcomingSet{Rows: make([]features.UpcomingRow, 0, len(fixtures))}
	for _, f := range fixtures {
		f.HomeTeam = s.normalizer.Normalize(f.HomeTeam)
		f.AwayTeam = s.normalizer.Normalize(f.AwayTeam)
		f.Status = fixture.NormalizeStatus(f.Status)

		if !opts.IncludeStarted && f.Phase() != fixture.PhaseUpcoming {
			set.Excluded = append(set.Excluded, features.Exclusion{Fixture: f, Reason: features.ExclusionStarted})
			continue
		}

		home, ok := state.Snapshots.Latest(f.HomeTeam)
		if !ok {
			set.Excluded = append(set.Excluded, features.Exclusion{Fixture: f, Reason: features.ExclusionUnknownTeam, Team: f.HomeTeam})
			continue
		}
		away, ok := state.Snapshots.Latest(f.AwayTeam)
		if !ok {
			set.Excluded = append(set.Excluded, features.Exclusion{Fixture: f, Reason: features.ExclusionUnknownTeam, Team: f.AwayTeam})
			continue
		}

		ref := f.KickoffAt
		if f.Phase() != fixture.PhaseUpcoming && !ref.IsZero() {
			// Started fixtures may already sit in history; use the state entering kickoff.
			home = state.Snapshots.AsOf(f.HomeTeam, ref)
			away = state.Snapshots.AsOf(f.AwayTeam, ref)
		} else {
			if ref.IsZero() {
				ref = s.now()
			}
			home.Date, away.Date = match.Day(ref), match.Day(ref)
			home.RestDays, away.RestDays = cfg.InferenceRestDays, cfg.InferenceRestDays
		}

		h2h := state.H2H.Lookup(mode, f.HomeTeam, f.AwayTeam, ref)
		set.Rows = append(set.Rows, features.UpcomingRow{
			Fixture:  f,
			Features: features.NewVector(home, away, h2h),
		})
	}

	span.SetAttributes(
		attribute.String("h2h.mode", string(mode)),
		attribute.Int("rows.count", len(set.Rows)),
		attribute.Int("excluded.count", len(set.Excluded)),
	)
	if len(set.Excluded) > 0 {
		s.logger.WarnContext(ctx, "fixtures excluded from inference", "excluded", len(set.Excluded), "rows", len(set.Rows))
	}
	return set, nil
}

// Prediction is a model's class probabilities attached to its fixture.
type Prediction struct {
	Fixture fixture.Fixture
	// Probabilities are indexed by match.Outcome.
	Probabilities [3]float64
	Pick          match.Outcome
}

// ZipPredictions pairs model output rows with the fixtures they were computed
// for. probs must have exactly one row per set.Rows entry.
func ZipPredictions(set features.UpcomingSet, probs [][]float64) ([]Prediction, error) {
	if len(probs) != len(set.Rows) {
		return nil, crerr.AssertionFailedf("prediction rows (%d) do not match fixture rows (%d)", len(probs), len(set.Rows))
	}

	out := make([]Prediction, len(probs))
	for i, p := range probs {
		if len(p) != 3 {
			return nil, fmt.Errorf("%w: prediction row %d has %d classes, expected 3", ErrInvalidInput, i, len(p))
		}
		pred := Prediction{Fixture: set.Rows[i].Fixture}
		copy(pred.Probabilities[:], p)
		for o := match.OutcomeDraw; o <= match.OutcomeAway; o++ {
			if pred.Probabilities[o] > pred.Probabilities[pred.Pick] {
				pred.Pick = o
			}
		}
		out[i] = pred
	}
	return out, nil
}
