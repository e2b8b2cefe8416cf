package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/infrastructure/export"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

type fixtureRequest struct {
	Matchday  int    `json:"matchday" validate:"gte=0"`
	KickoffAt string `json:"kickoff_at"`
	Status    string `json:"status" validate:"max=32"`
	HomeTeam  string `json:"home_team" validate:"required,max=100"`
	AwayTeam  string `json:"away_team" validate:"required,max=100,nefield=HomeTeam"`
}

type upcomingFeaturesRequest struct {
	Fixtures       []fixtureRequest `json:"fixtures" validate:"required,min=1,max=500,dive"`
	IncludeStarted bool             `json:"include_started"`
	H2HMode        string           `json:"h2h_mode" validate:"omitempty,oneof=full fast"`
}

// predictionsRequest repeats the fixture batch so the server can rebuild the
// exact row order the probabilities were computed for.
type predictionsRequest struct {
	Fixtures       []fixtureRequest `json:"fixtures" validate:"required,min=1,max=500,dive"`
	IncludeStarted bool             `json:"include_started"`
	H2HMode        string           `json:"h2h_mode" validate:"omitempty,oneof=full fast"`
	Probabilities  [][]float64      `json:"probabilities" validate:"required,dive,len=3,dive,gte=0,lte=1"`
}

func (r fixtureRequest) toFixture() (fixture.Fixture, error) {
	f := fixture.Fixture{
		Matchday: r.Matchday,
		HomeTeam: strings.TrimSpace(r.HomeTeam),
		AwayTeam: strings.TrimSpace(r.AwayTeam),
		Status:   fixture.NormalizeStatus(r.Status),
	}
	raw := strings.TrimSpace(r.KickoffAt)
	if raw == "" {
		return f, nil
	}
	kickoff, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		kickoff, err = time.Parse(time.DateOnly, raw)
	}
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("%w: kickoff_at %q is not RFC3339", usecase.ErrInvalidInput, raw)
	}
	f.KickoffAt = kickoff.UTC()
	return f, nil
}

func toFixtures(items []fixtureRequest) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(items))
	for i, item := range items {
		f, err := item.toFixture()
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

type fixtureListDTO struct {
	Fixtures []export.FixtureEntry `json:"fixtures"`
}

func fixturesToDTO(items []fixture.Fixture) fixtureListDTO {
	out := make([]export.FixtureEntry, 0, len(items))
	for _, f := range items {
		out = append(out, export.NewFixtureEntry(f))
	}
	return fixtureListDTO{Fixtures: out}
}

type nextMatchdayDTO struct {
	Matchday int                   `json:"matchday"`
	Fixtures []export.FixtureEntry `json:"fixtures"`
}

type probabilitiesDTO struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

type predictionDTO struct {
	Fixture       export.FixtureEntry `json:"fixture"`
	Probabilities probabilitiesDTO    `json:"probabilities"`
	Pick          string              `json:"pick"`
}

type predictionsDTO struct {
	Predictions []predictionDTO         `json:"predictions"`
	Excluded    []export.ExclusionEntry `json:"excluded"`
}

func predictionsToDTO(preds []usecase.Prediction, set features.UpcomingSet) predictionsDTO {
	items := make([]predictionDTO, 0, len(preds))
	for _, p := range preds {
		items = append(items, predictionDTO{
			Fixture: export.NewFixtureEntry(p.Fixture),
			Probabilities: probabilitiesDTO{
				Home: p.Probabilities[0],
				Draw: p.Probabilities[1],
				Away: p.Probabilities[2],
			},
			Pick: p.Pick.Symbol(),
		})
	}
	return predictionsDTO{Predictions: items, Excluded: export.NewUpcomingDocument(set).Excluded}
}

type headToHeadDTO struct {
	HomeTeam string  `json:"home_team"`
	AwayTeam string  `json:"away_team"`
	Date     string  `json:"date"`
	Mode     string  `json:"mode"`
	Value    float64 `json:"value"`
	Meetings int     `json:"meetings"`
}

func headToHeadToDTO(res usecase.HeadToHeadResult) headToHeadDTO {
	return headToHeadDTO{
		HomeTeam: res.HomeTeam,
		AwayTeam: res.AwayTeam,
		Date:     res.Date.Format(time.DateOnly),
		Mode:     string(res.Mode),
		Value:    res.Value,
		Meetings: res.Meetings,
	}
}

type ingestResultDTO struct {
	Read       int `json:"read"`
	Kept       int `json:"kept"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	Stored     int `json:"stored"`
}
