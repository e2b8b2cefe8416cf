package fixture

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Provider statuses. Feeds disagree on spelling, so classification goes
// through ClassifyStatus rather than comparing against these directly.
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusLive      = "LIVE"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Phase is where a fixture is in its lifecycle. Only PhaseUpcoming fixtures
// can receive pre-match features.
type Phase string

const (
	PhaseUpcoming  Phase = "upcoming"
	PhaseLive      Phase = "live"
	PhaseFinished  Phase = "finished"
	PhaseCancelled Phase = "cancelled"
)

// Fixture is a scheduled match whose outcome is not used for features.
type Fixture struct {
	Matchday  int
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    string
	// RealResult is the score line once played ("2-1"), kept for display.
	RealResult string
}

// Phase classifies f.Status.
func (f Fixture) Phase() Phase {
	return ClassifyStatus(f.Status)
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// ClassifyStatus maps football-data.org and API-Football style statuses to
// a phase. Unrecognised values count as upcoming.
func ClassifyStatus(status string) Phase {
	switch NormalizeStatus(status) {
	case StatusLive, StatusInPlay, StatusPaused, "HT", "1H", "2H", "ET":
		return PhaseLive
	case StatusFinished, "FT", "AET", "PEN", "AWARDED":
		return PhaseFinished
	case StatusCancelled, StatusPostponed, "SUSPENDED", "ABANDONED":
		return PhaseCancelled
	default:
		return PhaseUpcoming
	}
}

// ParseResult reads a score line such as "2-1", "2 - 1" or "2:1".
func ParseResult(raw string) (home, away int, err error) {
	value := strings.TrimSpace(raw)
	sep := strings.IndexAny(value, "-:")
	if sep <= 0 {
		return 0, 0, fmt.Errorf("invalid result %q", raw)
	}

	home, err = strconv.Atoi(strings.TrimSpace(value[:sep]))
	if err != nil || home < 0 {
		return 0, 0, fmt.Errorf("invalid home goals in result %q", raw)
	}
	away, err = strconv.Atoi(strings.TrimSpace(value[sep+1:]))
	if err != nil || away < 0 {
		return 0, 0, fmt.Errorf("invalid away goals in result %q", raw)
	}
	return home, away, nil
}

// FormatResult renders goals the way RealResult stores them.
func FormatResult(home, away int) string {
	return strconv.Itoa(home) + "-" + strconv.Itoa(away)
}
