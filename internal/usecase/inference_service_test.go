package usecase

import (
	"context"
	"errors"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upcomingFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{Matchday: 5, HomeTeam: "Girona FC", AwayTeam: "Sevilla FC", KickoffAt: onDay(30), Status: "timed"},
		{Matchday: 5, HomeTeam: "Santander", AwayTeam: "Girona", KickoffAt: onDay(30), Status: fixture.StatusScheduled},
		{Matchday: 4, HomeTeam: "Getafe", AwayTeam: "Sevilla", KickoffAt: onDay(28), Status: fixture.StatusFinished, RealResult: "1-0"},
	}
}

func newTestInference() *InferenceService {
	normalizer := team.DefaultNormalizer()
	return NewInferenceService(newTestHistory(staticSource(seasonRecords()), nil), normalizer, logging.NewNop())
}

func TestInferenceService_BuildUpcoming(t *testing.T) {
	t.Parallel()

	set, err := newTestInference().BuildUpcoming(context.Background(), upcomingFixtures(), InferenceOptions{})
	require.NoError(t, err)

	require.Len(t, set.Rows, 1)
	row := set.Rows[0]
	assert.Equal(t, "Girona", row.Fixture.HomeTeam)
	assert.Equal(t, "Sevilla", row.Fixture.AwayTeam)
	assert.Equal(t, fixture.StatusTimed, row.Fixture.Status)

	// Latest state includes the most recent match of each side.
	assert.Equal(t, 3, row.Features.Home.Matches)
	assert.InDelta(t, 3.0, row.Features.Home.AvgPoints, 1e-9)
	assert.InDelta(t, 0.4, row.Features.Away.AvgPoints, 1e-9)
	assert.Equal(t, 7, row.Features.Home.RestDays)
	assert.Equal(t, 7, row.Features.Away.RestDays)
	assert.Zero(t, row.Features.DiffRest)
	// Girona won 1-0 at Sevilla; full mode credits the away win.
	assert.InDelta(t, 3.0, row.Features.H2H, 1e-9)

	require.Len(t, set.Excluded, 2)
	assert.Equal(t, features.ExclusionUnknownTeam, set.Excluded[0].Reason)
	assert.Equal(t, "Racing Santander", set.Excluded[0].Team)
	assert.Equal(t, features.ExclusionStarted, set.Excluded[1].Reason)

	assert.Len(t, set.Matrix(), len(set.Fixtures()))
}

func TestInferenceService_BuildUpcoming_FastModeAndIncludeStarted(t *testing.T) {
	t.Parallel()

	set, err := newTestInference().BuildUpcoming(context.Background(), upcomingFixtures(), InferenceOptions{
		IncludeStarted: true,
		H2HMode:        features.H2HModeFast,
	})
	require.NoError(t, err)

	require.Len(t, set.Rows, 2)
	// No prior Girona home wins against Sevilla.
	assert.Zero(t, set.Rows[0].Features.H2H)
	assert.Equal(t, "Getafe", set.Rows[1].Fixture.HomeTeam)
	require.Len(t, set.Excluded, 1)
	assert.Equal(t, features.ExclusionUnknownTeam, set.Excluded[0].Reason)
}

func TestInferenceService_BuildUpcoming_StartedFixtureUsesEnteringState(t *testing.T) {
	t.Parallel()

	played := []fixture.Fixture{
		{Matchday: 4, HomeTeam: "Girona FC", AwayTeam: "Getafe", KickoffAt: onDay(21), Status: fixture.StatusFinished, RealResult: "1-0"},
	}
	set, err := newTestInference().BuildUpcoming(context.Background(), played, InferenceOptions{IncludeStarted: true})
	require.NoError(t, err)
	require.Len(t, set.Rows, 1)

	// The day-21 result itself is in history and must not be counted.
	row := set.Rows[0]
	assert.Equal(t, 2, row.Features.Home.Matches)
	assert.InDelta(t, 3.0, row.Features.Home.AvgPoints, 1e-9)
	assert.Equal(t, 2, row.Features.Away.Matches)
	assert.Equal(t, 7, row.Features.Home.RestDays)
	assert.Equal(t, 14, row.Features.Away.RestDays)
	assert.True(t, row.Features.Home.Date.Equal(match.Day(onDay(21))))
}

func TestInferenceService_BuildUpcoming_InvalidMode(t *testing.T) {
	t.Parallel()

	_, err := newTestInference().BuildUpcoming(context.Background(), nil, InferenceOptions{H2HMode: "slow"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestZipPredictions(t *testing.T) {
	t.Parallel()

	set := features.UpcomingSet{Rows: []features.UpcomingRow{
		{Fixture: fixture.Fixture{HomeTeam: "Girona", AwayTeam: "Sevilla"}},
		{Fixture: fixture.Fixture{HomeTeam: "Getafe", AwayTeam: "Valencia"}},
	}}

	preds, err := ZipPredictions(set, [][]float64{{0.5, 0.3, 0.2}, {0.2, 0.3, 0.5}})
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "Girona", preds[0].Fixture.HomeTeam)
	assert.Equal(t, match.OutcomeHome, preds[0].Pick)
	assert.Equal(t, match.OutcomeAway, preds[1].Pick)

	_, err = ZipPredictions(set, [][]float64{{1, 0, 0}})
	require.Error(t, err)
	assert.True(t, crerr.HasAssertionFailure(err))

	_, err = ZipPredictions(set, [][]float64{{1, 0}, {0, 1, 0}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
