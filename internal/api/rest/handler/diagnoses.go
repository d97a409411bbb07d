package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"coffee-diagnosis/internal/api/rest/response"
	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/infrastructure/storage"
)

const (
	maxUploadSize = 20 << 20
	maxImageSize  = 15 << 20
)

// DiagnosisService defines the operations the diagnosis handlers depend on.
type DiagnosisService interface {
	Analyze(ctx context.Context, req *entity.PhotoAnalysisRequest) (*entity.Diagnosis, error)
	List(ctx context.Context) ([]entity.Diagnosis, error)
	Get(ctx context.Context, id string) (*entity.Diagnosis, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id string) (string, error)
}

// Diagnoses groups the /api/v1/diagnoses handlers.
type Diagnoses struct {
	svc      DiagnosisService
	inFlight *InFlight
}

func NewDiagnoses(svc DiagnosisService, inFlight *InFlight) *Diagnoses {
	if inFlight == nil {
		inFlight = NewInFlight()
	}
	return &Diagnoses{svc: svc, inFlight: inFlight}
}

// Create handles POST /api/v1/diagnoses (multipart/form-data).
func (h *Diagnoses) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Body must be multipart/form-data", nil)
		return
	}

	req, err := parseAnalysisRequest(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	if !h.inFlight.TryAcquire(req.TechnicianName) {
		response.Error(w, http.StatusConflict, "ANALYSIS_IN_PROGRESS",
			"An analysis for this technician is already in progress", nil)
		return
	}
	defer h.inFlight.Release(req.TechnicianName)

	diagnosis, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		writeAnalysisError(w, r, err)
		return
	}

	response.Created(w, toDiagnosisResponse(diagnosis))
}

// List handles GET /api/v1/diagnoses.
func (h *Diagnoses) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("list diagnoses", "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
		return
	}

	data := make([]diagnosisResponse, 0, len(items))
	for i := range items {
		data = append(data, toDiagnosisResponse(&items[i]))
	}
	response.Collection(w, data, response.CollectionMeta{Total: len(data)})
}

// Get handles GET /api/v1/diagnoses/{id}.
func (h *Diagnoses) Get(w http.ResponseWriter, r *http.Request) {
	diagnosis, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	response.JSON(w, toDiagnosisResponse(diagnosis))
}

// Delete handles DELETE /api/v1/diagnoses/{id}. A missing id is not an error.
func (h *Diagnoses) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("delete diagnosis", "id", chi.URLParam(r, "id"), "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
		return
	}
	response.NoContent(w)
}

// Export handles GET /api/v1/diagnoses/{id}/export.
func (h *Diagnoses) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	text, err := h.svc.Export(r.Context(), id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	response.Text(w, fmt.Sprintf("diagnostico-%s.txt", id), text)
}

func parseAnalysisRequest(r *http.Request) (*entity.PhotoAnalysisRequest, error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, errors.New("image is required")
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return nil, errors.New("image could not be read")
	}
	if len(image) > maxImageSize {
		return nil, fmt.Errorf("image must not exceed %d MB", maxImageSize>>20)
	}

	totalPlants, err := strconv.Atoi(strings.TrimSpace(r.FormValue("total_plants")))
	if err != nil {
		return nil, errors.New("total_plants must be an integer")
	}

	req := &entity.PhotoAnalysisRequest{
		Image:          image,
		ParcelName:     strings.TrimSpace(r.FormValue("parcel_name")),
		PlantNumber:    strings.TrimSpace(r.FormValue("plant_number")),
		TechnicianName: strings.TrimSpace(r.FormValue("technician_name")),
		TotalPlants:    totalPlants,
	}
	if notes := strings.TrimSpace(r.FormValue("notes")); notes != "" {
		req.Notes = &notes
	}
	return req, nil
}

func writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidRequest):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, entity.ErrEmptyClassification):
		response.Error(w, http.StatusUnprocessableEntity, "EMPTY_CLASSIFICATION",
			"The classifier returned no usable findings for this image", nil)
	case errors.Is(err, entity.ErrInferenceFailed):
		response.Error(w, http.StatusBadGateway, "INFERENCE_FAILED",
			"The image could not be analyzed", nil)
	case errors.Is(err, entity.ErrModelUnavailable):
		response.Error(w, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE",
			"The classification model is not available", nil)
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		slog.Info("analysis cancelled by client", "path", r.URL.Path)
	default:
		slog.Error("analyze photo", "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Diagnosis not found", nil)
		return
	}
	slog.Error("get diagnosis", "error", err)
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
}

type diagnosisResponse struct {
	ID             string               `json:"id"`
	ParcelName     string               `json:"parcel_name"`
	PlantNumber    string               `json:"plant_number"`
	TechnicianName string               `json:"technician_name"`
	DiagnosisText  string               `json:"diagnosis_text"`
	Date           string               `json:"date"`
	OverallHealth  string               `json:"overall_health"`
	Deficiencies   []deficiencyResponse `json:"deficiencies"`
	Findings       []findingResponse    `json:"findings"`
	Notes          *string              `json:"notes"`
	HasImage       bool                 `json:"has_image"`
}

type deficiencyResponse struct {
	ID              string  `json:"id"`
	Nutrient        string  `json:"nutrient"`
	Severity        string  `json:"severity"`
	PlantsAffected  int     `json:"plants_affected"`
	Percentage      float64 `json:"percentage"`
	Recommendations string  `json:"recommendations"`
}

type findingResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
	Nutrient   *string `json:"nutrient,omitempty"`
	Severity   string  `json:"severity"`
}

func toDiagnosisResponse(d *entity.Diagnosis) diagnosisResponse {
	resp := diagnosisResponse{
		ID:             d.ID,
		ParcelName:     d.ParcelName,
		PlantNumber:    d.PlantNumber,
		TechnicianName: d.TechnicianName,
		DiagnosisText:  d.DiagnosisText,
		Date:           d.Date.UTC().Format(time.RFC3339),
		OverallHealth:  string(d.OverallHealth),
		Deficiencies:   make([]deficiencyResponse, 0, len(d.Deficiencies)),
		Findings:       make([]findingResponse, 0, len(d.Findings)),
		Notes:          d.Notes,
		HasImage:       len(d.Image) > 0,
	}
	for _, def := range d.Deficiencies {
		resp.Deficiencies = append(resp.Deficiencies, deficiencyResponse{
			ID:              def.ID,
			Nutrient:        string(def.Nutrient),
			Severity:        string(def.Severity),
			PlantsAffected:  def.PlantsAffected,
			Percentage:      def.Percentage,
			Recommendations: def.Recommendations,
		})
	}
	for _, f := range d.Findings {
		finding := findingResponse{
			Label:      f.Identifier,
			Confidence: f.Confidence,
			Category:   string(f.Category),
			Severity:   string(f.Severity),
		}
		if f.HasNutrient() {
			n := string(*f.Nutrient)
			finding.Nutrient = &n
		}
		resp.Findings = append(resp.Findings, finding)
	}
	return resp
}
