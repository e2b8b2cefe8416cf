package features

import (
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
)

// Vector is the model input for one match. Column order is fixed by
// ColumnNames and Values.
type Vector struct {
	Home       Snapshot
	Away       Snapshot
	H2H        float64
	DiffPoints float64
	DiffAttack float64
	DiffRest   float64
}

func NewVector(home, away Snapshot, h2h float64) Vector {
	return Vector{
		Home:       home,
		Away:       away,
		H2H:        h2h,
		DiffPoints: home.AvgPoints - away.AvgPoints,
		DiffAttack: home.AvgAttackPower - away.AvgAttackPower,
		DiffRest:   float64(home.RestDays - away.RestDays),
	}
}

var snapshotColumns = []string{
	"avg_points",
	"avg_goals_for",
	"avg_goals_against",
	"avg_attack_power",
	"form_streak",
	"rest_days",
}

// ColumnNames lists the feature columns in Values order.
func ColumnNames() []string {
	out := make([]string, 0, 2*len(snapshotColumns)+4)
	for _, c := range snapshotColumns {
		out = append(out, "home_"+c)
	}
	for _, c := range snapshotColumns {
		out = append(out, "away_"+c)
	}
	return append(out, "h2h_value", "diff_points", "diff_attack", "diff_rest")
}

func (v Vector) Values() []float64 {
	out := make([]float64, 0, 2*len(snapshotColumns)+4)
	out = appendSnapshot(out, v.Home)
	out = appendSnapshot(out, v.Away)
	return append(out, v.H2H, v.DiffPoints, v.DiffAttack, v.DiffRest)
}

func appendSnapshot(dst []float64, s Snapshot) []float64 {
	return append(dst,
		s.AvgPoints,
		s.AvgGoalsFor,
		s.AvgGoalsAgainst,
		s.AvgAttackPower,
		float64(s.FormStreak),
		float64(s.RestDays),
	)
}

// TrainingRow is one labelled historical match.
type TrainingRow struct {
	Date     time.Time
	HomeTeam string
	AwayTeam string
	Features Vector
	Label    match.Outcome
}

// Dataset is the chronological training table.
type Dataset struct {
	Rows []TrainingRow
	// Dropped counts matches skipped because a side had no prior history.
	Dropped int
}

func (d Dataset) Matrix() [][]float64 {
	out := make([][]float64, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = r.Features.Values()
	}
	return out
}

func (d Dataset) Labels() []int {
	out := make([]int, len(d.Rows))
	for i, r := range d.Rows {
		out[i] = int(r.Label)
	}
	return out
}

// UpcomingRow keeps a fixture and its features together so the model output
// can never be zipped onto the wrong match.
type UpcomingRow struct {
	Fixture  fixture.Fixture
	Features Vector
}

const (
	ExclusionUnknownTeam = "unknown_team"
	ExclusionStarted     = "started"
)

type Exclusion struct {
	Fixture fixture.Fixture
	Reason  string
	Team    string
}

type UpcomingSet struct {
	Rows     []UpcomingRow
	Excluded []Exclusion
}

func (s UpcomingSet) Matrix() [][]float64 {
	out := make([][]float64, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Features.Values()
	}
	return out
}

func (s UpcomingSet) Fixtures() []fixture.Fixture {
	out := make([]fixture.Fixture, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Fixture
	}
	return out
}
