package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/render"

	apierrors "trialpulse/internal/errors"
	"trialpulse/internal/dataprocessing"
	"trialpulse/internal/services"
	v1 "trialpulse/pkg/contracts/api/v1"
	"trialpulse/pkg/contracts/domain"
)

// AnalyzeHandler handles analysis upload requests.
type AnalyzeHandler struct {
	service        *services.AnalysisService
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(service *services.AnalysisService, logger *slog.Logger, maxUploadBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:        service,
		logger:         logger.With(slog.String("handler", "analyze")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Analyze handles POST /api/analyze. The request is multipart form data
// with a "file" part (.csv or .xlsx) and an optional "options" part
// carrying JSON-encoded run options.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrPayloadTooLarge))
			return
		}
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrMissingFile))
		return
	}
	defer file.Close()

	var table *dataprocessing.Table
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		table, err = dataprocessing.ReadCSV(file)
	case ".xlsx":
		table, err = dataprocessing.ReadXLSX(file)
	default:
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrUnsupportedFile))
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "upload decode failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	opts, apiErr := parseOptions(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	run, err := h.service.Analyze(ctx, table, opts)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(mapAnalysisError(err)))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, run.Report)
}

// Latest handles GET /api/runs/latest.
func (h *AnalyzeHandler) Latest(w http.ResponseWriter, r *http.Request) {
	report := h.service.LatestReport()
	if report == nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrRunNotFound))
		return
	}
	render.JSON(w, r, report)
}

// parseOptions decodes the optional "options" form field.
func parseOptions(r *http.Request) (services.AnalyzeOptions, *apierrors.APIError) {
	raw := r.FormValue("options")
	if raw == "" {
		return services.AnalyzeOptions{}, nil
	}
	var req v1.AnalyzeOptionsRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return services.AnalyzeOptions{}, apierrors.ErrValidation("options", "options must be valid JSON")
	}
	return services.AnalyzeOptions{
		AgeEdges:  req.AgeEdges,
		AgeLabels: req.AgeLabels,
	}, nil
}

// mapAnalysisError maps pipeline errors onto API errors.
func mapAnalysisError(err error) *apierrors.APIError {
	var schemaErr *domain.SchemaError
	if errors.As(err, &schemaErr) {
		return apierrors.SchemaErrorResponse(schemaErr.Missing)
	}

	var emptyErr *domain.EmptyWorkingSetError
	if errors.As(err, &emptyErr) {
		return apierrors.EmptyWorkingSetResponse(emptyErr.InvalidRecords)
	}

	if strings.Contains(err.Error(), "invalid age buckets") || strings.Contains(err.Error(), "invalid options") {
		return apierrors.ErrValidation("options", err.Error())
	}

	return apierrors.ErrAnalysisExecution(err)
}
