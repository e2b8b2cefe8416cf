package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/team"
)

// SnapshotService answers point-in-time questions about single teams and
// pairs, mainly for debugging feature values.
type SnapshotService struct {
	history    *HistoryService
	normalizer *team.Normalizer
}

func NewSnapshotService(history *HistoryService, normalizer *team.Normalizer) *SnapshotService {
	return &SnapshotService{history: history, normalizer: normalizer}
}

// Teams lists canonical names present in the history.
func (s *SnapshotService) Teams(ctx context.Context) ([]string, error) {
	state, err := s.history.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history state: %w", err)
	}
	return state.Snapshots.Teams(), nil
}

// TeamSnapshot returns the entering state of teamName for a match on date,
// or its latest state when date is zero.
func (s *SnapshotService) TeamSnapshot(ctx context.Context, teamName string, date time.Time) (features.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.TeamSnapshot")
	defer span.End()

	name := s.normalizer.Normalize(teamName)
	if strings.TrimSpace(name) == "" {
		return features.Snapshot{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	state, err := s.history.State(ctx)
	if err != nil {
		return features.Snapshot{}, fmt.Errorf("load history state: %w", err)
	}
	if !state.Snapshots.Has(name) {
		return features.Snapshot{}, fmt.Errorf("%w: team=%s", ErrNotFound, name)
	}

	if date.IsZero() {
		snap, _ := state.Snapshots.Latest(name)
		return snap, nil
	}
	return state.Snapshots.AsOf(name, date), nil
}

type HeadToHeadResult struct {
	HomeTeam string
	AwayTeam string
	Date     time.Time
	Mode     features.H2HMode
	Value    float64
	// Meetings counts every prior meeting, ignoring the lookback window.
	Meetings int
}

// HeadToHead evaluates the h2h feature for a pairing as of date.
func (s *SnapshotService) HeadToHead(ctx context.Context, home, away string, date time.Time, mode features.H2HMode) (HeadToHeadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.HeadToHead")
	defer span.End()

	home, away = s.normalizer.Normalize(home), s.normalizer.Normalize(away)
	if home == "" || away == "" {
		return HeadToHeadResult{}, fmt.Errorf("%w: home and away are required", ErrInvalidInput)
	}
	if home == away {
		return HeadToHeadResult{}, fmt.Errorf("%w: home and away must differ", ErrInvalidInput)
	}
	if date.IsZero() {
		return HeadToHeadResult{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	mode, err := features.ParseH2HMode(string(mode))
	if err != nil {
		return HeadToHeadResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	state, err := s.history.State(ctx)
	if err != nil {
		return HeadToHeadResult{}, fmt.Errorf("load history state: %w", err)
	}

	meetings := 0
	for _, m := range state.Log.ByPair(home, away) {
		if m.Date.Before(date) {
			meetings++
		}
	}

	return HeadToHeadResult{
		HomeTeam: home,
		AwayTeam: away,
		Date:     date,
		Mode:     mode,
		Value:    state.H2H.Lookup(mode, home, away, date),
		Meetings: meetings,
	}, nil
}
