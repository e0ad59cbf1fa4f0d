package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/zengjun200211-svg/douyindata/internal/dataset"
	apperrors "github.com/zengjun200211-svg/douyindata/internal/errors"
)

// DataHandler handles dataset loading and remapping requests.
type DataHandler struct {
	service        DataServiceInterface
	sampleOpts     dataset.SampleOptions
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDataHandler creates a data handler.
func NewDataHandler(service DataServiceInterface, sampleOpts dataset.SampleOptions, maxUploadBytes int64, logger *slog.Logger) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:        service,
		sampleOpts:     sampleOpts,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "data_handler")),
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetStatus)
	r.Post("/sample", h.LoadSample)
	r.Post("/upload", h.Upload)
	r.Post("/mapping", h.ApplyMapping)
	return r
}

// GetStatus handles GET /api/data
func (h *DataHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Status())
}

// LoadSample handles POST /api/data/sample
func (h *DataHandler) LoadSample(w http.ResponseWriter, r *http.Request) {
	status := h.service.LoadSample(h.sampleOpts)
	render.JSON(w, r, status)
}

// Upload handles POST /api/data/upload with a multipart "file" part.
func (h *DataHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, r, apperrors.ErrValidation("file", "multipart file part is required"))
		return
	}
	defer file.Close()

	status, err := h.service.LoadUpload(file, header.Filename)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

// MappingRequest remaps uploaded column names onto canonical ones.
type MappingRequest struct {
	Mapping map[string]string `json:"mapping" validate:"required,min=1"`
}

// ApplyMapping handles POST /api/data/mapping
func (h *DataHandler) ApplyMapping(w http.ResponseWriter, r *http.Request) {
	var req MappingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apperrors.ErrInvalidRequest)
		return
	}
	if len(req.Mapping) == 0 {
		h.renderError(w, r, apperrors.ErrValidation("mapping", "mapping must not be empty"))
		return
	}

	status, err := h.service.ApplyMapping(req.Mapping)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

func (h *DataHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apperrors.FromError(err)
	h.logger.WarnContext(r.Context(), "data request failed",
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("error", apiErr.Message))
	if renderErr := render.Render(w, r, apiErr); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
