package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/quiniela/internal/usecase"
)

func (h *Handler) ListUpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingFixtures")
	defer span.End()

	fixtures, err := h.fixtureService.ListUpcoming(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(fixtures))
}

func (h *Handler) ListMatchdayFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchdayFixtures")
	defer span.End()

	raw := strings.TrimSpace(r.PathValue("matchday"))
	matchday, err := strconv.Atoi(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: matchday must be an integer, got %q", usecase.ErrInvalidInput, raw))
		return
	}

	fixtures, err := h.fixtureService.ListMatchday(ctx, matchday)
	if err != nil {
		h.logger.WarnContext(ctx, "list matchday fixtures failed", "matchday", matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(fixtures))
}

func (h *Handler) GetNextMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNextMatchday")
	defer span.End()

	matchday, err := h.fixtureService.NextMatchday(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve next matchday failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.ListMatchday(ctx, matchday)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nextMatchdayDTO{
		Matchday: matchday,
		Fixtures: fixturesToDTO(fixtures).Fixtures,
	})
}
