package features

import (
	"sort"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/match"
)

const (
	attackWeightGoal         = 3.0
	attackWeightShotOnTarget = 1.0
	attackWeightShotOff      = 0.5
	attackWeightCorner       = 0.7
)

// TeamEvent is one team's view of one match.
type TeamEvent struct {
	Date         time.Time
	Team         string
	Opponent     string
	IsHome       bool
	GoalsFor     int
	GoalsAgainst int
	Points       int
	AttackPower  float64
	// HasStats is false when the source reported no shots or corners.
	HasStats bool
}

// Timelines holds each team's events ascending by date.
type Timelines map[string][]TeamEvent

// AttackPower scores offensive output. Missing stats count as zero.
func AttackPower(goalsFor int, s match.SideStats) float64 {
	shots := deref(s.Shots)
	onTarget := deref(s.ShotsOnTarget)
	offTarget := shots - onTarget
	if offTarget < 0 {
		offTarget = 0
	}
	return attackWeightGoal*float64(goalsFor) +
		attackWeightShotOnTarget*float64(onTarget) +
		attackWeightShotOff*float64(offTarget) +
		attackWeightCorner*float64(deref(s.Corners))
}

// BuildTimelines emits a home and an away event for every record and groups
// them per team. Events on the same date keep their input order.
func BuildTimelines(records []match.Record) Timelines {
	out := make(Timelines)
	for _, r := range records {
		day := match.Day(r.Date)
		out[r.HomeTeam] = append(out[r.HomeTeam], TeamEvent{
			Date:         day,
			Team:         r.HomeTeam,
			Opponent:     r.AwayTeam,
			IsHome:       true,
			GoalsFor:     r.HomeScore,
			GoalsAgainst: r.AwayScore,
			Points:       match.Points(r.HomeScore, r.AwayScore),
			AttackPower:  AttackPower(r.HomeScore, r.Home),
			HasStats:     r.Home.HasAttackStats(),
		})
		out[r.AwayTeam] = append(out[r.AwayTeam], TeamEvent{
			Date:         day,
			Team:         r.AwayTeam,
			Opponent:     r.HomeTeam,
			IsHome:       false,
			GoalsFor:     r.AwayScore,
			GoalsAgainst: r.HomeScore,
			Points:       match.Points(r.AwayScore, r.HomeScore),
			AttackPower:  AttackPower(r.AwayScore, r.Away),
			HasStats:     r.Away.HasAttackStats(),
		})
	}

	for team, events := range out {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Date.Before(events[j].Date)
		})
		out[team] = events
	}
	return out
}

// Teams lists the teams with at least one event, sorted.
func (t Timelines) Teams() []string {
	out := make([]string, 0, len(t))
	for team := range t {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
