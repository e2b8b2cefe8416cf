package export

import (
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
)

// TrainingDocument is the JSON shape of a training dataset.
type TrainingDocument struct {
	Columns []string           `json:"columns"`
	Rows    []TrainingRowEntry `json:"rows"`
	Dropped int                `json:"dropped"`
}

type TrainingRowEntry struct {
	Date     string    `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Features []float64 `json:"features"`
	Label    int       `json:"label"`
	Result   string    `json:"result"`
}

func NewTrainingDocument(ds features.Dataset) TrainingDocument {
	rows := make([]TrainingRowEntry, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		rows = append(rows, TrainingRowEntry{
			Date:     r.Date.Format(time.DateOnly),
			HomeTeam: r.HomeTeam,
			AwayTeam: r.AwayTeam,
			Features: r.Features.Values(),
			Label:    int(r.Label),
			Result:   r.Label.Symbol(),
		})
	}
	return TrainingDocument{Columns: features.ColumnNames(), Rows: rows, Dropped: ds.Dropped}
}

type FixtureEntry struct {
	Matchday   int    `json:"matchday"`
	KickoffAt  string `json:"kickoff_at,omitempty"`
	Status     string `json:"status"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	RealResult string `json:"real_result,omitempty"`
}

// UpcomingDocument is the JSON shape of an inference batch. Rows and
// Excluded together cover every requested fixture.
type UpcomingDocument struct {
	Columns  []string           `json:"columns"`
	Rows     []UpcomingRowEntry `json:"rows"`
	Excluded []ExclusionEntry   `json:"excluded"`
}

type UpcomingRowEntry struct {
	Fixture  FixtureEntry `json:"fixture"`
	Features []float64    `json:"features"`
}

type ExclusionEntry struct {
	Fixture FixtureEntry `json:"fixture"`
	Reason  string       `json:"reason"`
	Team    string       `json:"team,omitempty"`
}

func NewUpcomingDocument(set features.UpcomingSet) UpcomingDocument {
	rows := make([]UpcomingRowEntry, 0, len(set.Rows))
	for _, r := range set.Rows {
		rows = append(rows, UpcomingRowEntry{Fixture: NewFixtureEntry(r.Fixture), Features: r.Features.Values()})
	}
	excluded := make([]ExclusionEntry, 0, len(set.Excluded))
	for _, e := range set.Excluded {
		excluded = append(excluded, ExclusionEntry{Fixture: NewFixtureEntry(e.Fixture), Reason: e.Reason, Team: e.Team})
	}
	return UpcomingDocument{Columns: features.ColumnNames(), Rows: rows, Excluded: excluded}
}

// SnapshotEntry renders a team's entering state.
type SnapshotEntry struct {
	Team            string  `json:"team"`
	Date            string  `json:"date,omitempty"`
	Matches         int     `json:"matches"`
	AvgPoints       float64 `json:"avg_points"`
	AvgGoalsFor     float64 `json:"avg_goals_for"`
	AvgGoalsAgainst float64 `json:"avg_goals_against"`
	AvgAttackPower  float64 `json:"avg_attack_power"`
	FormStreak      int     `json:"form_streak"`
	RestDays        int     `json:"rest_days"`
}

func NewSnapshotEntry(s features.Snapshot) SnapshotEntry {
	entry := SnapshotEntry{
		Team:            s.Team,
		Matches:         s.Matches,
		AvgPoints:       s.AvgPoints,
		AvgGoalsFor:     s.AvgGoalsFor,
		AvgGoalsAgainst: s.AvgGoalsAgainst,
		AvgAttackPower:  s.AvgAttackPower,
		FormStreak:      s.FormStreak,
		RestDays:        s.RestDays,
	}
	if !s.Date.IsZero() {
		entry.Date = s.Date.Format(time.DateOnly)
	}
	return entry
}

func NewFixtureEntry(f fixture.Fixture) FixtureEntry {
	entry := FixtureEntry{
		Matchday:   f.Matchday,
		Status:     f.Status,
		HomeTeam:   f.HomeTeam,
		AwayTeam:   f.AwayTeam,
		RealResult: f.RealResult,
	}
	if !f.KickoffAt.IsZero() {
		entry.KickoffAt = f.KickoffAt.UTC().Format(time.RFC3339)
	}
	return entry
}
