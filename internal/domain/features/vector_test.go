package features

import (
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVector_Differentials(t *testing.T) {
	t.Parallel()

	home := Snapshot{Team: "Sevilla", Matches: 4, AvgPoints: 2.0, AvgAttackPower: 10, RestDays: 7, FormStreak: 6}
	away := Snapshot{Team: "Cadiz", Matches: 4, AvgPoints: 0.5, AvgAttackPower: 12.5, RestDays: 3}

	v := NewVector(home, away, 1.25)
	assert.InDelta(t, 1.5, v.DiffPoints, eps)
	assert.InDelta(t, -2.5, v.DiffAttack, eps)
	assert.InDelta(t, 4.0, v.DiffRest, eps)

	values := v.Values()
	names := ColumnNames()
	require.Len(t, values, len(names))
	assert.Equal(t, "home_avg_points", names[0])
	assert.Equal(t, 2.0, values[0])
	assert.Equal(t, "home_form_streak", names[4])
	assert.Equal(t, 6.0, values[4])
	assert.Equal(t, "h2h_value", names[12])
	assert.Equal(t, 1.25, values[12])
	assert.Equal(t, "diff_rest", names[len(names)-1])
}

func TestUpcomingSet_ProjectionsStayAligned(t *testing.T) {
	t.Parallel()

	set := UpcomingSet{Rows: []UpcomingRow{
		{Fixture: fixture.Fixture{HomeTeam: "Sevilla", AwayTeam: "Cadiz", KickoffAt: time.Now()}},
		{Fixture: fixture.Fixture{HomeTeam: "Getafe", AwayTeam: "Girona"}},
	}}

	assert.Len(t, set.Matrix(), 2)
	fixtures := set.Fixtures()
	require.Len(t, fixtures, 2)
	assert.Equal(t, "Getafe", fixtures[1].HomeTeam)
}

func TestDataset_Labels(t *testing.T) {
	t.Parallel()

	d := Dataset{Rows: []TrainingRow{{Label: match.OutcomeHome}, {Label: match.OutcomeDraw}, {Label: match.OutcomeAway}}}
	assert.Equal(t, []int{0, 1, 2}, d.Labels())
	assert.Len(t, d.Matrix(), 3)
}

func TestSplitChronological(t *testing.T) {
	t.Parallel()

	rows := make([]TrainingRow, 20)
	for i := range rows {
		rows[i] = TrainingRow{Date: onDay(i)}
	}

	train, holdout, err := SplitChronological(rows, 0.85)
	require.NoError(t, err)
	assert.Len(t, train, 17)
	assert.Len(t, holdout, 3)
	assert.True(t, train[len(train)-1].Date.Before(holdout[0].Date))

	_, _, err = SplitChronological(rows, 0)
	assert.Error(t, err)
	_, _, err = SplitChronological(rows, 1.2)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.RestMaxDays = 1
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.RestDefaultDays = 30
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.InferenceH2HMode = "sometimes"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.EMASpan = 0
	assert.Error(t, bad.Validate())
}

func TestParseH2HMode(t *testing.T) {
	t.Parallel()

	mode, err := ParseH2HMode("")
	require.NoError(t, err)
	assert.Equal(t, H2HModeFull, mode)

	mode, err = ParseH2HMode("fast")
	require.NoError(t, err)
	assert.Equal(t, H2HModeFast, mode)

	_, err = ParseH2HMode("slow")
	assert.Error(t, err)
}
