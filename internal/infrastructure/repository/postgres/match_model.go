package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/match"
)

const matchResultsTable = "match_results"

var matchKeyColumns = []string{"match_date", "home_team", "away_team"}

var matchValueColumns = []string{
	"home_score",
	"away_score",
	"home_shots",
	"away_shots",
	"home_shots_on_target",
	"away_shots_on_target",
	"home_corners",
	"away_corners",
	"home_yellow",
	"away_yellow",
	"home_red",
	"away_red",
	"ingested_at",
}

type matchResultTableModel struct {
	MatchDate         time.Time     `db:"match_date"`
	HomeTeam          string        `db:"home_team"`
	AwayTeam          string        `db:"away_team"`
	HomeScore         int           `db:"home_score"`
	AwayScore         int           `db:"away_score"`
	HomeShots         sql.NullInt64 `db:"home_shots"`
	AwayShots         sql.NullInt64 `db:"away_shots"`
	HomeShotsOnTarget sql.NullInt64 `db:"home_shots_on_target"`
	AwayShotsOnTarget sql.NullInt64 `db:"away_shots_on_target"`
	HomeCorners       sql.NullInt64 `db:"home_corners"`
	AwayCorners       sql.NullInt64 `db:"away_corners"`
	HomeYellow        sql.NullInt64 `db:"home_yellow"`
	AwayYellow        sql.NullInt64 `db:"away_yellow"`
	HomeRed           sql.NullInt64 `db:"home_red"`
	AwayRed           sql.NullInt64 `db:"away_red"`
	IngestedAt        time.Time     `db:"ingested_at"`
}

func (m matchResultTableModel) record() match.Record {
	return match.Record{
		Date:      match.Day(m.MatchDate),
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Home: match.SideStats{
			Shots:         nullInt(m.HomeShots),
			ShotsOnTarget: nullInt(m.HomeShotsOnTarget),
			Corners:       nullInt(m.HomeCorners),
			YellowCards:   nullInt(m.HomeYellow),
			RedCards:      nullInt(m.HomeRed),
		},
		Away: match.SideStats{
			Shots:         nullInt(m.AwayShots),
			ShotsOnTarget: nullInt(m.AwayShotsOnTarget),
			Corners:       nullInt(m.AwayCorners),
			YellowCards:   nullInt(m.AwayYellow),
			RedCards:      nullInt(m.AwayRed),
		},
	}
}

// insertValues returns values in matchKeyColumns then matchValueColumns order.
func insertValues(r match.Record, ingestedAt time.Time) []any {
	return []any{
		match.Day(r.Date),
		r.HomeTeam,
		r.AwayTeam,
		r.HomeScore,
		r.AwayScore,
		toNullInt(r.Home.Shots),
		toNullInt(r.Away.Shots),
		toNullInt(r.Home.ShotsOnTarget),
		toNullInt(r.Away.ShotsOnTarget),
		toNullInt(r.Home.Corners),
		toNullInt(r.Away.Corners),
		toNullInt(r.Home.YellowCards),
		toNullInt(r.Away.YellowCards),
		toNullInt(r.Home.RedCards),
		toNullInt(r.Away.RedCards),
		ingestedAt,
	}
}
