package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

type Handler struct {
	trainingService  *usecase.TrainingService
	inferenceService *usecase.InferenceService
	fixtureService   *usecase.FixtureService
	snapshotService  *usecase.SnapshotService
	ingestService    *usecase.IngestService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	trainingService *usecase.TrainingService,
	inferenceService *usecase.InferenceService,
	fixtureService *usecase.FixtureService,
	snapshotService *usecase.SnapshotService,
	ingestService *usecase.IngestService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		trainingService:  trainingService,
		inferenceService: inferenceService,
		fixtureService:   fixtureService,
		snapshotService:  snapshotService,
		ingestService:    ingestService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseDateParam accepts a calendar date or an RFC3339 timestamp. An absent
// parameter yields the zero time.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD or RFC3339, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return t.UTC(), nil
}

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

func parseFormatParam(r *http.Request) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch raw {
	case "", formatJSON:
		return formatJSON, nil
	case formatCSV:
		return formatCSV, nil
	default:
		return "", fmt.Errorf("%w: format must be json or csv, got %q", usecase.ErrInvalidInput, raw)
	}
}
