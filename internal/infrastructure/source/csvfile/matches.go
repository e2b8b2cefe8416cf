package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
)

// ErrNoReadableFile is returned when none of the configured files could be read.
var ErrNoReadableFile = crerr.New("no readable match file")

const (
	colDate         = "date"
	colHomeTeam     = "home_team"
	colAwayTeam     = "away_team"
	colHomeScore    = "home_score"
	colAwayScore    = "away_score"
	colHomeShots    = "home_shots"
	colAwayShots    = "away_shots"
	colHomeOnTarget = "home_shots_on_target"
	colAwayOnTarget = "away_shots_on_target"
	colHomeCorners  = "home_corners"
	colAwayCorners  = "away_corners"
	colHomeYellow   = "home_yellow"
	colAwayYellow   = "away_yellow"
	colHomeRed      = "home_red"
	colAwayRed      = "away_red"
)

// matchColumns accepts both our snake_case export and football-data.co.uk
// season files.
var matchColumns = map[string][]string{
	colDate:         {"date"},
	colHomeTeam:     {"home_team", "hometeam", "home"},
	colAwayTeam:     {"away_team", "awayteam", "away"},
	colHomeScore:    {"home_score", "fthg", "hg"},
	colAwayScore:    {"away_score", "ftag", "ag"},
	colHomeShots:    {"home_shots", "hs"},
	colAwayShots:    {"away_shots", "as"},
	colHomeOnTarget: {"home_shots_on_target", "hst"},
	colAwayOnTarget: {"away_shots_on_target", "ast"},
	colHomeCorners:  {"home_corners", "hc"},
	colAwayCorners:  {"away_corners", "ac"},
	colHomeYellow:   {"home_yellow", "hy"},
	colAwayYellow:   {"away_yellow", "ay"},
	colHomeRed:      {"home_red", "hr"},
	colAwayRed:      {"away_red", "ar"},
}

// MatchSource reads completed matches from one or more CSV files, one per
// season typically. Rows that cannot be parsed are skipped with a warning;
// rows without a full-time score are dropped and counted in one warning per file.
type MatchSource struct {
	paths  []string
	since  time.Time
	logger *logging.Logger
}

func NewMatchSource(paths []string, logger *logging.Logger) *MatchSource {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchSource{paths: append([]string(nil), paths...), logger: logger}
}

// Since returns a copy of s that drops matches played before day. A zero day
// keeps everything.
func (s *MatchSource) Since(day time.Time) *MatchSource {
	cp := *s
	cp.since = match.Day(day)
	return &cp
}

func (s *MatchSource) Load(ctx context.Context) ([]match.Record, error) {
	var (
		out      []match.Record
		readable int
	)
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := s.loadFile(ctx, path)
		if err != nil {
			s.logger.WarnContext(ctx, "match file skipped", "path", path, "error", err)
			continue
		}
		readable++
		for _, r := range records {
			if s.since.IsZero() || !r.Date.Before(s.since) {
				out = append(out, r)
			}
		}
	}

	if readable == 0 {
		return nil, crerr.Wrapf(ErrNoReadableFile, "checked %d path(s)", len(s.paths))
	}
	return out, nil
}

func (s *MatchSource) loadFile(ctx context.Context, path string) ([]match.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match file: %w", err)
	}
	defer f.Close()

	return s.read(ctx, path, f)
}

func (s *MatchSource) read(ctx context.Context, path string, r io.Reader) ([]match.Record, error) {
	reader := newReader(r)
	head, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := newHeader(head, matchColumns)
	if err := h.require(colDate, colHomeTeam, colAwayTeam, colHomeScore, colAwayScore); err != nil {
		return nil, err
	}

	var (
		out      []match.Record
		skipped  int
		unplayed int
	)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			s.logger.WarnContext(ctx, "match row skipped", "path", path, "line", line, "error", err)
			continue
		}
		if isBlank(row) {
			continue
		}

		record, played, err := parseMatchRow(h, row)
		if err != nil {
			skipped++
			s.logger.WarnContext(ctx, "match row skipped", "path", path, "line", line, "error", err)
			continue
		}
		if !played {
			unplayed++
			continue
		}
		out = append(out, record)
	}

	if unplayed > 0 {
		s.logger.WarnContext(ctx, "match rows without score dropped", "path", path, "count", unplayed)
	}
	s.logger.DebugContext(ctx, "match file loaded",
		"path", path,
		"records", len(out),
		"skipped", skipped,
		"unplayed", unplayed,
	)
	return out, nil
}

func parseMatchRow(h header, row []string) (match.Record, bool, error) {
	homeScore, homeOK, err := parseCount(h.get(row, colHomeScore))
	if err != nil {
		return match.Record{}, false, fmt.Errorf("home score: %w", err)
	}
	awayScore, awayOK, err := parseCount(h.get(row, colAwayScore))
	if err != nil {
		return match.Record{}, false, fmt.Errorf("away score: %w", err)
	}
	if !homeOK || !awayOK {
		return match.Record{}, false, nil
	}

	date, err := ParseDate(h.get(row, colDate))
	if err != nil {
		return match.Record{}, false, err
	}

	record := match.Record{
		Date:      date,
		HomeTeam:  h.get(row, colHomeTeam),
		AwayTeam:  h.get(row, colAwayTeam),
		HomeScore: *homeScore,
		AwayScore: *awayScore,
	}

	stats := []struct {
		column string
		dst    **int
	}{
		{colHomeShots, &record.Home.Shots},
		{colAwayShots, &record.Away.Shots},
		{colHomeOnTarget, &record.Home.ShotsOnTarget},
		{colAwayOnTarget, &record.Away.ShotsOnTarget},
		{colHomeCorners, &record.Home.Corners},
		{colAwayCorners, &record.Away.Corners},
		{colHomeYellow, &record.Home.YellowCards},
		{colAwayYellow, &record.Away.YellowCards},
		{colHomeRed, &record.Home.RedCards},
		{colAwayRed, &record.Away.RedCards},
	}
	for _, st := range stats {
		v, _, err := parseCount(h.get(row, st.column))
		if err != nil {
			return match.Record{}, false, fmt.Errorf("%s: %w", st.column, err)
		}
		*st.dst = v
	}

	if err := record.Validate(); err != nil {
		return match.Record{}, false, err
	}
	return record, true, nil
}

// parseCount reads a non-negative integer. Empty and NaN cells are absent.
// Integral floats ("5.0") are accepted since spreadsheet exports produce them.
func parseCount(raw string) (*int, bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "nan") || value == "-" {
		return nil, false, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return &n, true, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) {
		return nil, false, fmt.Errorf("not an integer: %q", raw)
	}
	n := int(f)
	return &n, true, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false
	return reader
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
