package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"ontoserver/internal/domain"
	"ontoserver/internal/service"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// OntologyHandler serves the ontology API
type OntologyHandler struct {
	svc    *service.OntologyService
	logger logrus.FieldLogger
}

// NewOntologyHandler creates a new ontology handler
func NewOntologyHandler(svc *service.OntologyService, logger logrus.FieldLogger) *OntologyHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OntologyHandler{svc: svc, logger: logger}
}

// Register adds the ontology and snapshot routes to mux
func (h *OntologyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ontology", h.ListClassSummaries)
	mux.HandleFunc("GET /api/ontology/{$}", h.GetDescriptor)

	// Classes
	mux.HandleFunc("GET /api/ontology/classes", h.ListClasses)
	mux.HandleFunc("POST /api/ontology/classes", h.CreateClass)
	mux.HandleFunc("GET /api/ontology/classes/{uniqueName}", h.GetClass)
	mux.HandleFunc("DELETE /api/ontology/classes/{uniqueName}", h.DeleteClass)

	// Object properties
	mux.HandleFunc("GET /api/ontology/object-properties", h.ListObjectProperties)
	mux.HandleFunc("POST /api/ontology/object-properties", h.CreateObjectProperty)
	mux.HandleFunc("GET /api/ontology/object-properties/{uniqueName}", h.GetObjectProperty)
	mux.HandleFunc("DELETE /api/ontology/object-properties/{uniqueName}", h.DeleteObjectProperty)

	// Data properties
	mux.HandleFunc("GET /api/ontology/data-properties", h.ListDataProperties)
	mux.HandleFunc("POST /api/ontology/data-properties", h.CreateDataProperty)
	mux.HandleFunc("GET /api/ontology/data-properties/{uniqueName}", h.GetDataProperty)
	mux.HandleFunc("DELETE /api/ontology/data-properties/{uniqueName}", h.DeleteDataProperty)

	// Individuals
	mux.HandleFunc("GET /api/ontology/individuals", h.ListIndividuals)
	mux.HandleFunc("POST /api/ontology/individuals", h.CreateIndividual)
	mux.HandleFunc("GET /api/ontology/individuals/{uniqueName}", h.GetIndividual)
	mux.HandleFunc("DELETE /api/ontology/individuals/{uniqueName}", h.DeleteIndividual)

	// Documents
	mux.HandleFunc("POST /api/ontology/file/upload", h.UploadFile)
	mux.HandleFunc("GET /api/ontology/file/download", h.DownloadFile)
	mux.HandleFunc("GET /api/ontology/formats", h.ListFormats)
	mux.HandleFunc("POST /api/ontology/apply", h.ApplyChanges)

	// Snapshots
	mux.HandleFunc("GET /api/snapshots", h.ListSnapshots)
	mux.HandleFunc("POST /api/snapshots", h.CreateSnapshot)
	mux.HandleFunc("GET /api/snapshots/{id}", h.GetSnapshot)
	mux.HandleFunc("DELETE /api/snapshots/{id}", h.DeleteSnapshot)
	mux.HandleFunc("POST /api/snapshots/{id}/restore", h.RestoreSnapshot)

	mux.HandleFunc("GET /health", h.Health)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetDescriptor returns the loaded ontology's name and base namespace
func (h *OntologyHandler) GetDescriptor(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Descriptor(), http.StatusOK)
}

// ListClassSummaries returns every class with its parent and comment
func (h *OntologyHandler) ListClassSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ClassSummaries()
	if err != nil {
		h.writeServiceError(w, "Failed to list classes", err)
		return
	}
	h.writeJSON(w, summaries, http.StatusOK)
}

// Health reports liveness along with the loaded ontology name
func (h *OntologyHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{
		"status":   "ok",
		"ontology": h.svc.Descriptor().UniqueName,
	}, http.StatusOK)
}

// Helper methods

func (h *OntologyHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := jsonDecoder(w, r).Decode(v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func jsonDecoder(w http.ResponseWriter, r *http.Request) *json.Decoder {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func (h *OntologyHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Warn("failed to encode JSON response")
	}
}

func (h *OntologyHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	h.writeJSON(w, ErrorResponse{
		Error:   error,
		Details: details,
	}, statusCode)
}

// writeServiceError maps error classes to status codes
func (h *OntologyHandler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error(msg)
	}
	h.writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	if errors.Is(err, service.ErrSnapshotsDisabled) {
		return http.StatusServiceUnavailable
	}
	class, ok := domain.Classify(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch class {
	case domain.ErrorInvalid:
		return http.StatusBadRequest
	case domain.ErrorNotFound:
		return http.StatusNotFound
	case domain.ErrorTranslation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
