package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
	"github.com/zengjun200211-svg/douyindata/internal/services"
	"github.com/zengjun200211-svg/douyindata/pkg/contracts/domain"
)

// artifactContentTypes maps artifact extensions to download content types.
var artifactContentTypes = map[string]string{
	".png":  "image/png",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ReportHandler handles report generation and artifact downloads.
type ReportHandler struct {
	service  ReportServiceInterface
	progress services.ProgressFunc
	validate *validator.Validate
	logger   *slog.Logger
}

// NewReportHandler creates a report handler. progress receives pipeline
// updates and may be nil.
func NewReportHandler(service ReportServiceInterface, progress services.ProgressFunc, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:  service,
		progress: progress,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "report_handler")),
	}
}

// Routes returns the report routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/", h.Generate)
	r.Get("/{id}/download/{name}", h.Download)
	return r
}

// GenerateRequest selects the report date range, bounds inclusive.
type GenerateRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

// GenerateResponse lists the produced artifacts with their download URLs.
type GenerateResponse struct {
	ID        string            `json:"id"`
	Charts    []string          `json:"charts"`
	Deck      string            `json:"deck"`
	Doc       string            `json:"doc"`
	Downloads map[string]string `json:"downloads"`
}

// Generate handles POST /api/reports
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apperrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, apperrors.ErrValidation("from/to", "dates must be YYYY-MM-DD"))
		return
	}

	from, _ := time.Parse(domain.DateLayout, req.From)
	to, _ := time.Parse(domain.DateLayout, req.To)
	if to.Before(from) {
		h.renderError(w, r, apperrors.ErrValidation("to", "must not be before from"))
		return
	}

	artifacts, err := h.service.Generate(r.Context(), from, to, h.progress)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	resp := GenerateResponse{
		ID:        artifacts.ID,
		Charts:    artifacts.Charts,
		Deck:      artifacts.Deck,
		Doc:       artifacts.Doc,
		Downloads: make(map[string]string),
	}
	for _, name := range append(append([]string{}, artifacts.Charts...), artifacts.Deck, artifacts.Doc) {
		resp.Downloads[name] = fmt.Sprintf("/api/reports/%s/download/%s", artifacts.ID, name)
	}
	render.JSON(w, r, resp)
}

// Download handles GET /api/reports/{id}/download/{name}
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "name")

	path, err := h.service.ArtifactPath(id, name)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		h.renderError(w, r, apperrors.ErrNotFound)
		return
	}

	contentType, ok := artifactContentTypes[filepath.Ext(name)]
	if !ok {
		h.renderError(w, r, apperrors.ErrNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (h *ReportHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apperrors.FromError(err)
	h.logger.WarnContext(r.Context(), "report request failed",
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("error", apiErr.Message))
	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
