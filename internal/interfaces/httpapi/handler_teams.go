package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/infrastructure/export"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.snapshotService.Teams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string][]string{"teams": teams})
}

// GetTeamSnapshot returns the team's state entering ?date, or after its
// last known match when date is omitted.
func (h *Handler) GetTeamSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSnapshot")
	defer span.End()

	teamName := strings.TrimSpace(r.PathValue("team"))
	date, err := parseDateParam(r, "date")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.snapshotService.TeamSnapshot(ctx, teamName, date)
	if err != nil {
		h.logger.WarnContext(ctx, "get team snapshot failed", "team", teamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, export.NewSnapshotEntry(snapshot))
}

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	query := r.URL.Query()
	date, err := parseDateParam(r, "date")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	mode, err := features.ParseH2HMode(strings.ToLower(strings.TrimSpace(query.Get("mode"))))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	res, err := h.snapshotService.HeadToHead(ctx, query.Get("home"), query.Get("away"), date, mode)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, headToHeadToDTO(res))
}
