package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/quiniela/internal/domain/features"
	"github.com/riskibarqy/quiniela/internal/infrastructure/export"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

func (h *Handler) GetTrainingFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTrainingFeatures")
	defer span.End()

	format, err := parseFormatParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(formatAttribute(format))
	from, err := parseDateParam(r, "from")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	ds, err := h.trainingService.BuildDataset(ctx, usecase.TrainingInput{From: from, To: to})
	if err != nil {
		h.logger.WarnContext(ctx, "build training dataset failed", "from", from, "to", to, "error", err)
		writeError(ctx, w, err)
		return
	}

	if format == formatCSV {
		err := writeCSV(ctx, w, "training.csv", func(out io.Writer) error {
			return export.WriteTrainingCSV(out, ds)
		})
		if err != nil {
			h.logger.ErrorContext(ctx, "render training csv failed", "error", err)
			writeError(ctx, w, err)
		}
		return
	}

	writeSuccess(ctx, w, http.StatusOK, export.NewTrainingDocument(ds))
}

func (h *Handler) BuildUpcomingFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuildUpcomingFeatures")
	defer span.End()

	format, err := parseFormatParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(formatAttribute(format))

	var req upcomingFeaturesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	fixtures, err := toFixtures(req.Fixtures)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	set, err := h.inferenceService.BuildUpcoming(ctx, fixtures, usecase.InferenceOptions{
		IncludeStarted: req.IncludeStarted,
		H2HMode:        features.H2HMode(req.H2HMode),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "build upcoming features failed", "fixtures", len(fixtures), "error", err)
		writeError(ctx, w, err)
		return
	}

	h.writeUpcoming(ctx, w, format, set)
}

// GetScheduledUpcomingFeatures builds features for the configured fixture
// source's not-yet-started fixtures.
func (h *Handler) GetScheduledUpcomingFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScheduledUpcomingFeatures")
	defer span.End()

	format, err := parseFormatParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(formatAttribute(format))
	mode, err := features.ParseH2HMode(r.URL.Query().Get("h2h_mode"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	fixtures, err := h.fixtureService.ListUpcoming(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	set, err := h.inferenceService.BuildUpcoming(ctx, fixtures, usecase.InferenceOptions{H2HMode: mode})
	if err != nil {
		h.logger.WarnContext(ctx, "build upcoming features failed", "fixtures", len(fixtures), "error", err)
		writeError(ctx, w, err)
		return
	}

	h.writeUpcoming(ctx, w, format, set)
}

// ZipPredictions attaches model probabilities to the fixtures they belong
// to. Probabilities must follow the row order of the feature batch built
// from the same request body.
func (h *Handler) ZipPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ZipPredictions")
	defer span.End()

	var req predictionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	fixtures, err := toFixtures(req.Fixtures)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	set, err := h.inferenceService.BuildUpcoming(ctx, fixtures, usecase.InferenceOptions{
		IncludeStarted: req.IncludeStarted,
		H2HMode:        features.H2HMode(req.H2HMode),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(req.Probabilities) != len(set.Rows) {
		writeError(ctx, w, fmt.Errorf("%w: got %d probability rows for %d predictable fixtures", usecase.ErrInvalidInput, len(req.Probabilities), len(set.Rows)))
		return
	}

	preds, err := usecase.ZipPredictions(set, req.Probabilities)
	if err != nil {
		h.logger.ErrorContext(ctx, "zip predictions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTO(preds, set))
}

func (h *Handler) writeUpcoming(ctx context.Context, w http.ResponseWriter, format string, set features.UpcomingSet) {
	if format == formatCSV {
		err := writeCSV(ctx, w, "upcoming.csv", func(out io.Writer) error {
			return export.WriteUpcomingCSV(out, set)
		})
		if err != nil {
			h.logger.ErrorContext(ctx, "render upcoming csv failed", "error", err)
			writeError(ctx, w, err)
		}
		return
	}

	writeSuccess(ctx, w, http.StatusOK, export.NewUpcomingDocument(set))
}

func decodeBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
