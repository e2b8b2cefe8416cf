package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/domain/fixture"
	"github.com/riskibarqy/quiniela/internal/domain/match"
	"github.com/riskibarqy/quiniela/internal/domain/team"
	"github.com/riskibarqy/quiniela/internal/infrastructure/export"
	"github.com/riskibarqy/quiniela/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobToken = "secret-token"

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type staticSource []match.Record

func (s staticSource) Load(_ context.Context) ([]match.Record, error) {
	return append([]match.Record(nil), s...), nil
}

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	normalizer := team.DefaultNormalizer()
	records := staticSource{
		{Date: day0, HomeTeam: "Girona", AwayTeam: "Getafe", HomeScore: 2, AwayScore: 0},
		{Date: day0.AddDate(0, 0, 7), HomeTeam: "Getafe", AwayTeam: "Sevilla", HomeScore: 1, AwayScore: 1},
		{Date: day0.AddDate(0, 0, 14), HomeTeam: "Sevilla", AwayTeam: "Girona", HomeScore: 0, AwayScore: 1},
		{Date: day0.AddDate(0, 0, 21), HomeTeam: "Girona FC", AwayTeam: "Getafe", HomeScore: 1, AwayScore: 0},
	}
	build := func(r []match.Record) match.Log { return memory.NewMatchRepository(r, normalizer) }
	history := usecase.NewHistoryService(records, build, features.DefaultConfig(), nil, nil, logging.NewNop())

	fixtures := memory.NewFixtureRepository([]fixture.Fixture{
		{Matchday: 20, HomeTeam: "Sevilla FC", AwayTeam: "Girona", KickoffAt: day0.AddDate(0, 1, 0), Status: fixture.StatusScheduled},
		{Matchday: 19, HomeTeam: "Getafe", AwayTeam: "Girona", KickoffAt: day0.AddDate(0, 0, 28), Status: fixture.StatusFinished, RealResult: "0-2"},
	})

	handler := NewHandler(
		usecase.NewTrainingService(history, logging.NewNop()),
		usecase.NewInferenceService(history, normalizer, logging.NewNop()),
		usecase.NewFixtureService(fixtures, normalizer),
		usecase.NewSnapshotService(history, normalizer),
		nil,
		logging.NewNop(),
	)
	return NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
}

func serve(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	rec := serve(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope[map[string]string](t, rec)
	assert.Equal(t, "ok", body.Data["status"])
}

func TestHandler_GetTrainingFeatures(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	t.Run("json", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/v1/features/training", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeEnvelope[export.TrainingDocument](t, rec)
		assert.Equal(t, features.ColumnNames(), body.Data.Columns)
		require.Len(t, body.Data.Rows, 2)
		assert.Equal(t, 2, body.Data.Dropped)
		assert.Equal(t, "2024-01-15", body.Data.Rows[0].Date)
		assert.Equal(t, "2", body.Data.Rows[0].Result)
		for _, row := range body.Data.Rows {
			assert.Len(t, row.Features, len(body.Data.Columns))
		}
	})

	t.Run("csv", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/v1/features/training?format=csv", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "date,home_team,away_team,home_avg_points"))
		assert.True(t, strings.HasSuffix(lines[0], ",label"))
	})

	t.Run("range filter", func(t *testing.T) {
		rec := serve(t, router, http.MethodGet, "/v1/features/training?from=2024-01-20&to=2024-02-01", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeEnvelope[export.TrainingDocument](t, rec)
		require.Len(t, body.Data.Rows, 1)
		assert.Equal(t, "2024-01-22", body.Data.Rows[0].Date)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, target := range []string{
			"/v1/features/training?format=xml",
			"/v1/features/training?from=yesterday",
			"/v1/features/training?from=2024-02-01&to=2024-01-01",
		} {
			rec := serve(t, router, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func TestHandler_BuildUpcomingFeatures(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	t.Run("pairs rows and exclusions", func(t *testing.T) {
		payload := `{"fixtures":[
			{"matchday":20,"kickoff_at":"2024-02-01T20:00:00Z","home_team":"Girona FC","away_team":"Sevilla"},
			{"matchday":20,"home_team":"Athletic Club","away_team":"Getafe"},
			{"matchday":19,"status":"FINISHED","home_team":"Getafe","away_team":"Girona"}
		]}`
		rec := serve(t, router, http.MethodPost, "/v1/features/upcoming", payload)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeEnvelope[export.UpcomingDocument](t, rec)
		require.Len(t, body.Data.Rows, 1)
		assert.Equal(t, "Girona", body.Data.Rows[0].Fixture.HomeTeam)
		assert.Len(t, body.Data.Rows[0].Features, len(features.ColumnNames()))

		require.Len(t, body.Data.Excluded, 2)
		assert.Equal(t, features.ExclusionUnknownTeam, body.Data.Excluded[0].Reason)
		assert.NotEmpty(t, body.Data.Excluded[0].Team)
		assert.Equal(t, features.ExclusionStarted, body.Data.Excluded[1].Reason)
	})

	t.Run("include started", func(t *testing.T) {
		payload := `{"include_started":true,"fixtures":[{"status":"FINISHED","home_team":"Getafe","away_team":"Girona"}]}`
		rec := serve(t, router, http.MethodPost, "/v1/features/upcoming", payload)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeEnvelope[export.UpcomingDocument](t, rec)
		assert.Len(t, body.Data.Rows, 1)
		assert.Empty(t, body.Data.Excluded)
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		for _, payload := range []string{
			`not json`,
			`{"fixtures":[]}`,
			`{"fixtures":[{"home_team":"Girona","away_team":"Girona"}]}`,
			`{"h2h_mode":"slow","fixtures":[{"home_team":"Girona","away_team":"Getafe"}]}`,
			`{"fixtures":[{"kickoff_at":"tomorrow","home_team":"Girona","away_team":"Getafe"}]}`,
		} {
			rec := serve(t, router, http.MethodPost, "/v1/features/upcoming", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
		}
	})
}

func TestHandler_GetScheduledUpcomingFeatures(t *testing.T) {
	t.Parallel()

	rec := serve(t, newTestRouter(t), http.MethodGet, "/v1/features/upcoming?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "20,2024-02-01T00:00:00Z,SCHEDULED,Sevilla,Girona,"))
}

func TestHandler_ZipPredictions(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	fixtures := `"fixtures":[
		{"home_team":"Girona","away_team":"Sevilla"},
		{"home_team":"Athletic Club","away_team":"Getafe"}
	]`

	rec := serve(t, router, http.MethodPost, "/v1/predictions", `{`+fixtures+`,"probabilities":[[0.2,0.3,0.5]]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope[predictionsDTO](t, rec)
	require.Len(t, body.Data.Predictions, 1)
	assert.Equal(t, "Girona", body.Data.Predictions[0].Fixture.HomeTeam)
	assert.Equal(t, "2", body.Data.Predictions[0].Pick)
	assert.InDelta(t, 0.5, body.Data.Predictions[0].Probabilities.Away, 1e-9)
	require.Len(t, body.Data.Excluded, 1)

	rec = serve(t, router, http.MethodPost, "/v1/predictions", `{`+fixtures+`,"probabilities":[[0.2,0.3,0.5],[0.1,0.1,0.8]]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodPost, "/v1/predictions", `{`+fixtures+`,"probabilities":[[0.5,0.5]]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Fixtures(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/v1/fixtures/upcoming", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	upcoming := decodeEnvelope[fixtureListDTO](t, rec)
	require.Len(t, upcoming.Data.Fixtures, 1)
	assert.Equal(t, "Sevilla", upcoming.Data.Fixtures[0].HomeTeam)

	rec = serve(t, router, http.MethodGet, "/v1/fixtures/matchdays/19", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	played := decodeEnvelope[fixtureListDTO](t, rec)
	require.Len(t, played.Data.Fixtures, 1)
	assert.Equal(t, "0-2", played.Data.Fixtures[0].RealResult)

	rec = serve(t, router, http.MethodGet, "/v1/fixtures/matchdays/next", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	next := decodeEnvelope[nextMatchdayDTO](t, rec)
	assert.Equal(t, 20, next.Data.Matchday)
	assert.Len(t, next.Data.Fixtures, 1)

	rec = serve(t, router, http.MethodGet, "/v1/fixtures/matchdays/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodGet, "/v1/fixtures/matchdays/38", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Teams(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/v1/teams", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	teams := decodeEnvelope[map[string][]string](t, rec)
	assert.ElementsMatch(t, []string{"Getafe", "Girona", "Sevilla"}, teams.Data["teams"])

	rec = serve(t, router, http.MethodGet, "/v1/teams/Sevilla%20FC/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	latest := decodeEnvelope[export.SnapshotEntry](t, rec)
	assert.Equal(t, "Sevilla", latest.Data.Team)
	assert.Equal(t, 2, latest.Data.Matches)

	rec = serve(t, router, http.MethodGet, "/v1/teams/Sevilla/snapshot?date=2024-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cold := decodeEnvelope[export.SnapshotEntry](t, rec)
	assert.Equal(t, 0, cold.Data.Matches)
	assert.Equal(t, 7, cold.Data.RestDays)

	rec = serve(t, router, http.MethodGet, "/v1/teams/Athletic%20Club/snapshot", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetHeadToHead(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/v1/h2h?home=Girona&away=Getafe&date=2024-01-23", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	full := decodeEnvelope[headToHeadDTO](t, rec)
	assert.Equal(t, "full", full.Data.Mode)
	assert.InDelta(t, 3.0, full.Data.Value, 1e-9)
	assert.Equal(t, 2, full.Data.Meetings)

	rec = serve(t, router, http.MethodGet, "/v1/h2h?home=Getafe&away=Girona&date=2024-01-23&mode=fast", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fast := decodeEnvelope[headToHeadDTO](t, rec)
	assert.InDelta(t, 0.0, fast.Data.Value, 1e-9)

	rec = serve(t, router, http.MethodGet, "/v1/h2h?home=Girona&away=Getafe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodGet, "/v1/h2h?home=Girona&away=Getafe&date=2024-01-23&mode=slow", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RunIngestJob(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodPost, "/v1/internal/jobs/ingest", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/ingest", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireInternalJobToken_NotConfigured(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Internal-Job-Token", "anything")
	rec := httptest.NewRecorder()

	RequireInternalJobToken("", next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecoverPanic(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope[any](t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL", body.Error.Status)
}
