package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerFeatureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/features/training", handler.GetTrainingFeatures)
	mux.HandleFunc("POST /v1/features/upcoming", handler.BuildUpcomingFeatures)
	mux.HandleFunc("GET /v1/features/upcoming", handler.GetScheduledUpcomingFeatures)
	mux.HandleFunc("POST /v1/predictions", handler.ZipPredictions)
}

func registerFixtureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures/upcoming", handler.ListUpcomingFixtures)
	mux.HandleFunc("GET /v1/fixtures/matchdays/next", handler.GetNextMatchday)
	mux.HandleFunc("GET /v1/fixtures/matchdays/{matchday}", handler.ListMatchdayFixtures)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{team}/snapshot", handler.GetTeamSnapshot)
	mux.HandleFunc("GET /v1/h2h", handler.GetHeadToHead)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/ingest", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestJob)))
}
