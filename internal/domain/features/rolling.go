package features

import (
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/sourcegraph/conc/iter"
)

// Snapshot is a team's entering state: what was known about it before a
// given date. Matches is the number of prior events aggregated.
type Snapshot struct {
	Team            string
	Date            time.Time
	Matches         int
	AvgPoints       float64
	AvgGoalsFor     float64
	AvgGoalsAgainst float64
	AvgAttackPower  float64
	FormStreak      int
	RestDays        int
}

func (s Snapshot) HasHistory() bool {
	return s.Matches > 0
}

// TeamHistory pairs a team's events with the entering snapshot of each.
// Entering[i] aggregates only events dated strictly before Events[i].
type TeamHistory struct {
	Team     string
	Events   []TeamEvent
	Entering []Snapshot
	// Latest aggregates every known event.
	Latest Snapshot
}

// ewma is a bias-adjusted exponential moving average: each new value has
// weight 1 and older values decay geometrically, normalised by the weight sum.
type ewma struct {
	decay float64
	num   float64
	den   float64
}

func (e *ewma) push(x float64) {
	e.num = e.num*e.decay + x
	e.den = e.den*e.decay + 1
}

func (e ewma) value() float64 {
	if e.den == 0 {
		return 0
	}
	return e.num / e.den
}

type accumulator struct {
	points       ewma
	goalsFor     ewma
	goalsAgainst ewma
	attack       ewma
	window       []int
	next         int
	matches      int
}

func newAccumulator(cfg Config) *accumulator {
	decay := cfg.emaDecay()
	return &accumulator{
		points:       ewma{decay: decay},
		goalsFor:     ewma{decay: decay},
		goalsAgainst: ewma{decay: decay},
		attack:       ewma{decay: decay},
		window:       make([]int, 0, max(cfg.FormWindow, 0)),
	}
}

func (a *accumulator) push(ev TeamEvent) {
	a.points.push(float64(ev.Points))
	a.goalsFor.push(float64(ev.GoalsFor))
	a.goalsAgainst.push(float64(ev.GoalsAgainst))
	a.attack.push(ev.AttackPower)

	switch {
	case cap(a.window) == 0:
	case len(a.window) < cap(a.window):
		a.window = append(a.window, ev.Points)
	default:
		a.window[a.next] = ev.Points
		a.next = (a.next + 1) % len(a.window)
	}
	a.matches++
}

func (a *accumulator) snapshot(team string, date time.Time, restDays int) Snapshot {
	streak := 0
	for _, p := range a.window {
		streak += p
	}
	return Snapshot{
		Team:            team,
		Date:            date,
		Matches:         a.matches,
		AvgPoints:       a.points.value(),
		AvgGoalsFor:     a.goalsFor.value(),
		AvgGoalsAgainst: a.goalsAgainst.value(),
		AvgAttackPower:  a.attack.value(),
		FormStreak:      streak,
		RestDays:        restDays,
	}
}

// ColdSnapshot is the entering state of a team with no prior events.
func ColdSnapshot(team string, date time.Time, cfg Config) Snapshot {
	return Snapshot{Team: team, Date: date, RestDays: cfg.RestDefaultDays}
}

// ComputeTeamHistory walks one team's events in date order. Same-day events
// share an entering state so nothing from date D leaks into a snapshot at D.
func ComputeTeamHistory(team string, events []TeamEvent, cfg Config) TeamHistory {
	acc := newAccumulator(cfg)
	entering := make([]Snapshot, len(events))

	folded := 0
	for i, ev := range events {
		for folded < i && events[folded].Date.Before(ev.Date) {
			acc.push(events[folded])
			folded++
		}
		rest := cfg.RestDefaultDays
		if folded > 0 {
			rest = cfg.clampRest(daysBetween(events[folded-1].Date, ev.Date))
		}
		entering[i] = acc.snapshot(team, ev.Date, rest)
	}
	for ; folded < len(events); folded++ {
		acc.push(events[folded])
	}

	return TeamHistory{
		Team:     team,
		Events:   events,
		Entering: entering,
		Latest:   acc.snapshot(team, time.Time{}, cfg.RestDefaultDays),
	}
}

// SnapshotIndex answers entering-state queries for every team.
type SnapshotIndex struct {
	cfg   Config
	teams map[string]TeamHistory
}

// ComputeSnapshots computes every team's history concurrently; teams are
// independent so the result does not depend on scheduling.
func ComputeSnapshots(timelines Timelines, cfg Config) *SnapshotIndex {
	teams := timelines.Teams()
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	mapper := iter.Mapper[string, TeamHistory]{MaxGoroutines: workers}
	histories := mapper.Map(teams, func(team *string) TeamHistory {
		return ComputeTeamHistory(*team, timelines[*team], cfg)
	})

	idx := &SnapshotIndex{cfg: cfg, teams: make(map[string]TeamHistory, len(histories))}
	for _, h := range histories {
		idx.teams[h.Team] = h
	}
	return idx
}

// AsOf returns the team's entering state for a match on date: aggregates of
// events strictly before the date, rest days since the last one. Unknown
// teams get a cold snapshot.
func (x *SnapshotIndex) AsOf(team string, date time.Time) Snapshot {
	day := match.Day(date)
	h, ok := x.teams[team]
	if !ok || len(h.Events) == 0 {
		return ColdSnapshot(team, day, x.cfg)
	}

	i := sort.Search(len(h.Events), func(i int) bool {
		return !h.Events[i].Date.Before(day)
	})

	var snap Snapshot
	if i < len(h.Events) {
		snap = h.Entering[i]
	} else {
		snap = h.Latest
	}
	snap.Date = day
	snap.RestDays = x.cfg.RestDefaultDays
	if i > 0 {
		snap.RestDays = x.cfg.clampRest(daysBetween(h.Events[i-1].Date, day))
	}
	return snap
}

// Latest returns the state after every known event.
func (x *SnapshotIndex) Latest(team string) (Snapshot, bool) {
	h, ok := x.teams[team]
	if !ok {
		return Snapshot{}, false
	}
	return h.Latest, true
}

func (x *SnapshotIndex) History(team string) (TeamHistory, bool) {
	h, ok := x.teams[team]
	return h, ok
}

func (x *SnapshotIndex) Has(team string) bool {
	_, ok := x.teams[team]
	return ok
}

func (x *SnapshotIndex) Teams() []string {
	out := make([]string, 0, len(x.teams))
	for team := range x.teams {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}

func (x *SnapshotIndex) Config() Config {
	return x.cfg
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
