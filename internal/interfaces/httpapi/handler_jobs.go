package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/quiniela/internal/usecase"
)

func (h *Handler) RunIngestJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestJob")
	defer span.End()

	if h.ingestService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	res, err := h.ingestService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingest job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "ingest job finished", "read", res.Read, "kept", res.Kept, "stored", res.Stored)
	writeSuccess(ctx, w, http.StatusOK, ingestResultDTO{
		Read:       res.Read,
		Kept:       res.Kept,
		Duplicates: res.Duplicates,
		Invalid:    res.Invalid,
		Stored:     res.Stored,
	})
}
