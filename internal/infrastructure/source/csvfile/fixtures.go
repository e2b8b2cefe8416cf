package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

var fixtureColumns = map[string][]string{
	"matchday":    {"matchday", "round"},
	"kickoff":     {"utc_date", "kickoff_at", "date"},
	"status":      {"status"},
	"home_team":   {"home_team", "hometeam"},
	"away_team":   {"away_team", "awayteam"},
	"real_result": {"real_result", "result"},
}

// FixtureSource reads a season calendar CSV with columns matchday,
// utc_date, date_str, status, home_team, away_team and real_result.
type FixtureSource struct {
	path   string
	logger *logging.Logger
}

func NewFixtureSource(path string, logger *logging.Logger) *FixtureSource {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureSource{path: path, logger: logger}
}

func (s *FixtureSource) List(ctx context.Context) ([]fixture.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures file: %w", err)
	}
	defer f.Close()

	return s.read(ctx, f)
}

func (s *FixtureSource) read(ctx context.Context, r io.Reader) ([]fixture.Fixture, error) {
	reader := newReader(r)
	head, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read fixtures header: %w", err)
	}
	h := newHeader(head, fixtureColumns)
	if err := h.require("kickoff", "home_team", "away_team"); err != nil {
		return nil, fmt.Errorf("fixtures file %s: %w", s.path, err)
	}

	var out []fixture.Fixture
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.WarnContext(ctx, "fixture row skipped", "path", s.path, "line", line, "error", err)
			continue
		}
		if isBlank(row) {
			continue
		}

		item, err := parseFixtureRow(h, row)
		if err != nil {
			s.logger.WarnContext(ctx, "fixture row skipped", "path", s.path, "line", line, "error", err)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func parseFixtureRow(h header, row []string) (fixture.Fixture, error) {
	home := h.get(row, "home_team")
	away := h.get(row, "away_team")
	if home == "" || away == "" {
		return fixture.Fixture{}, fmt.Errorf("missing team name")
	}

	kickoff, err := ParseDate(h.get(row, "kickoff"))
	if err != nil {
		return fixture.Fixture{}, err
	}

	matchday := 0
	if raw := h.get(row, "matchday"); raw != "" {
		matchday, err = strconv.Atoi(raw)
		if err != nil {
			return fixture.Fixture{}, fmt.Errorf("invalid matchday %q", raw)
		}
	}

	// Unparseable score lines are dropped; the result is display-only.
	result := ""
	if homeGoals, awayGoals, err := fixture.ParseResult(h.get(row, "real_result")); err == nil {
		result = fixture.FormatResult(homeGoals, awayGoals)
	}

	return fixture.Fixture{
		Matchday:   matchday,
		HomeTeam:   home,
		AwayTeam:   away,
		KickoffAt:  kickoff,
		Status:     fixture.NormalizeStatus(h.get(row, "status")),
		RealResult: result,
	}, nil
}
