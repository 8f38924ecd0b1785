package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
)

// maxUploadBytes caps ontology document uploads
const maxUploadBytes = 32 << 20

// UploadFile replaces the flat model with an uploaded document. The format
// comes from the "format" field or, failing that, the file name.
func (h *OntologyHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, "Invalid upload", err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Missing file", err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := r.FormValue("format")
	if format == "" {
		c, err := h.svc.Codecs().ForPath(header.Filename)
		if err != nil {
			h.writeServiceError(w, "Unknown document format", err)
			return
		}
		format = c.Format()
	}

	desc, err := h.svc.Load(r.Context(), file, format)
	if err != nil {
		h.writeServiceError(w, "Failed to load ontology", err)
		return
	}

	h.logger.WithField("action", "ontology_upload").
		WithField("file", header.Filename).
		WithField("format", format).
		Info("ontology uploaded")
	h.writeJSON(w, desc, http.StatusOK)
}

// DownloadFile serializes the ontology. Query parameters: format (default
// from config) and fresh, which builds the document from the flat model alone.
func (h *OntologyHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	fresh := false
	if v := query.Get("fresh"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, "Invalid fresh parameter", err.Error(), http.StatusBadRequest)
			return
		}
		fresh = parsed
	}

	// Buffer so a failed export can still produce an error response
	var buf bytes.Buffer
	c, err := h.svc.Save(r.Context(), &buf, query.Get("format"), fresh)
	if err != nil {
		h.writeServiceError(w, "Failed to export ontology", err)
		return
	}

	filename := h.svc.Descriptor().UniqueName
	if exts := c.Extensions(); len(exts) > 0 {
		filename += exts[0]
	}
	w.Header().Set("Content-Type", c.MediaType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WithError(err).Warn("failed to write ontology download")
	}
}

// ListFormats returns the supported document formats
func (h *OntologyHandler) ListFormats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Codecs().Formats(), http.StatusOK)
}

// ApplyResponse reports the result of applying flat model changes
type ApplyResponse struct {
	AxiomsAdded int `json:"axiomsAdded"`
}

// ApplyChanges writes the flat model into the live formal model
func (h *OntologyHandler) ApplyChanges(w http.ResponseWriter, r *http.Request) {
	added, err := h.svc.ApplyChanges(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to apply changes", err)
		return
	}
	h.writeJSON(w, ApplyResponse{AxiomsAdded: added}, http.StatusOK)
}
