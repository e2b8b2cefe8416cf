package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
)

// WriteTrainingCSV writes one row per training example: identity columns,
// the feature columns in model order, then the numeric label.
func WriteTrainingCSV(w io.Writer, ds features.Dataset) error {
	cw := csv.NewWriter(w)

	header := append([]string{"date", "home_team", "away_team"}, features.ColumnNames()...)
	header = append(header, "label")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write training header: %w", err)
	}

	for _, r := range ds.Rows {
		row := make([]string, 0, len(header))
		row = append(row, r.Date.Format(time.DateOnly), r.HomeTeam, r.AwayTeam)
		row = appendFloats(row, r.Features.Values())
		row = append(row, strconv.Itoa(int(r.Label)))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write training row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush training csv: %w", err)
	}
	return nil
}

// WriteUpcomingCSV writes one row per predictable fixture. Excluded
// fixtures are not part of the table.
func WriteUpcomingCSV(w io.Writer, set features.UpcomingSet) error {
	cw := csv.NewWriter(w)

	header := append([]string{"matchday", "kickoff_at", "status", "home_team", "away_team"}, features.ColumnNames()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write upcoming header: %w", err)
	}

	for _, r := range set.Rows {
		entry := NewFixtureEntry(r.Fixture)
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(entry.Matchday), entry.KickoffAt, entry.Status, entry.HomeTeam, entry.AwayTeam)
		row = appendFloats(row, r.Features.Values())
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write upcoming row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush upcoming csv: %w", err)
	}
	return nil
}

func appendFloats(dst []string, values []float64) []string {
	for _, v := range values {
		dst = append(dst, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return dst
}
