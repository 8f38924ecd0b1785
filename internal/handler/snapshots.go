package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// SnapshotRequest is the optional body of a snapshot creation
type SnapshotRequest struct {
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
}

// ListSnapshots returns stored snapshots, newest first
func (h *OntologyHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.ListSnapshots(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list snapshots", err)
		return
	}
	h.writeJSON(w, snaps, http.StatusOK)
}

// CreateSnapshot stores the current flat model
func (h *OntologyHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SnapshotRequest
	if err := decodeOptional(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := h.svc.SaveSnapshot(r.Context(), req.Name, req.Format)
	if err != nil {
		h.writeServiceError(w, "Failed to save snapshot", err)
		return
	}
	h.writeJSON(w, snap, http.StatusCreated)
}

// GetSnapshot returns the stored document of a snapshot
func (h *OntologyHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetSnapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get snapshot", err)
		return
	}

	contentType := "application/octet-stream"
	if c, err := h.svc.Codecs().Lookup(snap.Format); err == nil {
		contentType = c.MediaType()
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", snap.Name+"."+snap.Format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(snap.Content); err != nil {
		h.logger.WithError(err).Warn("failed to write snapshot")
	}
}

// RestoreSnapshot loads a snapshot, replacing the flat model
func (h *OntologyHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	desc, err := h.svc.RestoreSnapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "Failed to restore snapshot", err)
		return
	}
	h.writeJSON(w, desc, http.StatusOK)
}

// DeleteSnapshot removes a snapshot
func (h *OntologyHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSnapshot(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, "Failed to delete snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeOptional decodes a JSON body, treating an empty body as zero values
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := jsonDecoder(w, r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
