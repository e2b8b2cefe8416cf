package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	qb "github.com/riskibarqy/quiniela/internal/platform/querybuilder"
)

// upsertBatchSize keeps a single statement well under the 65535 bind
// parameter limit of the wire protocol.
const upsertBatchSize = 500

type MatchRepository struct {
	db    *sqlx.DB
	since time.Time
	now   func() time.Time
}

type MatchRepositoryOption func(*MatchRepository)

// WithHistorySince limits Load to matches played on or after day. Upserts
// are unaffected.
func WithHistorySince(day time.Time) MatchRepositoryOption {
	return func(r *MatchRepository) {
		r.since = match.Day(day)
	}
}

func NewMatchRepository(db *sqlx.DB, opts ...MatchRepositoryOption) *MatchRepository {
	r := &MatchRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MatchRepository) Load(ctx context.Context) ([]match.Record, error) {
	query, args, err := selectMatchesQuery(r.since)
	if err != nil {
		return nil, fmt.Errorf("build select match results query: %w", err)
	}

	var rows []matchResultTableModel
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if isBindParameterMismatch(err) {
		rows = nil
		err = r.db.SelectContext(ctx, &rows, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("select match results: %w", err)
	}

	return toRecords(rows), nil
}

func (r *MatchRepository) Upsert(ctx context.Context, records []match.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert match results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ingestedAt := r.now().UTC()
	var affected int
	for start := 0; start < len(records); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(records))

		query, args, err := upsertMatchesQuery(records[start:end], ingestedAt)
		if err != nil {
			return 0, fmt.Errorf("build upsert match results query: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("upsert match results batch %d-%d: %w", start, end, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("read upsert rows affected: %w", err)
		}
		affected += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert match results: %w", err)
	}
	return affected, nil
}

func selectMatchesQuery(since time.Time) (string, []any, error) {
	columns := append(append([]string(nil), matchKeyColumns...), matchValueColumns...)
	builder := qb.Select(columns...).From(matchResultsTable)
	if !since.IsZero() {
		builder.Where(qb.Gte("match_date", since))
	}
	return builder.OrderBy("match_date", "home_team", "away_team").ToSQL()
}

func upsertMatchesQuery(records []match.Record, ingestedAt time.Time) (string, []any, error) {
	columns := append(append([]string(nil), matchKeyColumns...), matchValueColumns...)
	builder := qb.InsertInto(matchResultsTable).Columns(columns...)
	for _, record := range records {
		builder.Values(insertValues(record, ingestedAt)...)
	}
	return builder.OnConflictUpdate(matchKeyColumns, matchValueColumns...).ToSQL()
}

func toRecords(rows []matchResultTableModel) []match.Record {
	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out
}
