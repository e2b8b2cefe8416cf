package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Outcome is the full-time result from the home side's perspective.
type Outcome int

const (
	OutcomeHome Outcome = iota
	OutcomeDraw
	OutcomeAway
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHome:
		return "home"
	case OutcomeDraw:
		return "draw"
	case OutcomeAway:
		return "away"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Symbol renders the outcome the way quiniela slips do: 1, X or 2.
func (o Outcome) Symbol() string {
	switch o {
	case OutcomeHome:
		return "1"
	case OutcomeDraw:
		return "X"
	default:
		return "2"
	}
}

const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Points awarded to a side scoring goalsFor against goalsAgainst.
func Points(goalsFor, goalsAgainst int) int {
	switch {
	case goalsFor > goalsAgainst:
		return PointsWin
	case goalsFor == goalsAgainst:
		return PointsDraw
	default:
		return PointsLoss
	}
}

// SideStats holds optional per-side technical stats. A nil field was not
// reported by the source.
type SideStats struct {
	Shots         *int `validate:"omitempty,gte=0"`
	ShotsOnTarget *int `validate:"omitempty,gte=0"`
	Corners       *int `validate:"omitempty,gte=0"`
	YellowCards   *int `validate:"omitempty,gte=0"`
	RedCards      *int `validate:"omitempty,gte=0"`
}

// HasAttackStats reports whether any stat feeding the attack score exists.
func (s SideStats) HasAttackStats() bool {
	return s.Shots != nil || s.ShotsOnTarget != nil || s.Corners != nil
}

// Record is one completed match.
type Record struct {
	Date      time.Time `validate:"required"`
	HomeTeam  string    `validate:"required"`
	AwayTeam  string    `validate:"required,nefield=HomeTeam"`
	HomeScore int       `validate:"gte=0"`
	AwayScore int       `validate:"gte=0"`
	Home      SideStats
	Away      SideStats
}

// Key is the natural identity of a match: calendar date plus both teams.
type Key struct {
	Date     time.Time
	HomeTeam string
	AwayTeam string
}

func (r Record) Key() Key {
	return Key{Date: Day(r.Date), HomeTeam: r.HomeTeam, AwayTeam: r.AwayTeam}
}

func (r Record) Outcome() Outcome {
	switch {
	case r.HomeScore > r.AwayScore:
		return OutcomeHome
	case r.HomeScore == r.AwayScore:
		return OutcomeDraw
	default:
		return OutcomeAway
	}
}

// Involves reports whether team played in the match.
func (r Record) Involves(team string) bool {
	return r.HomeTeam == team || r.AwayTeam == team
}

var recordValidator = validator.New()

func (r Record) Validate() error {
	if err := recordValidator.Struct(r); err != nil {
		return fmt.Errorf("invalid match record %s %s-%s: %w", r.Date.Format(time.DateOnly), r.HomeTeam, r.AwayTeam, err)
	}
	return nil
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PairKey is the orientation-free identity of two teams.
type PairKey struct {
	A string
	B string
}

func NewPairKey(a, b string) PairKey {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}
