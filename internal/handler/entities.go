package handler

import (
	"net/http"

	"ontoserver/internal/domain"
)

// ListClasses returns all classes
func (h *OntologyHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.svc.ListClasses()
	if err != nil {
		h.writeServiceError(w, "Failed to list classes", err)
		return
	}
	h.writeJSON(w, classes, http.StatusOK)
}

// GetClass returns a single class
func (h *OntologyHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	class, err := h.svc.GetClass(r.PathValue("uniqueName"))
	if err != nil {
		h.writeServiceError(w, "Failed to get class", err)
		return
	}
	h.writeJSON(w, class, http.StatusOK)
}

// CreateClass adds a class
func (h *OntologyHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var class domain.Class
	if !h.decode(w, r, &class) {
		return
	}
	if err := h.svc.AddClass(&class); err != nil {
		h.writeServiceError(w, "Failed to create class", err)
		return
	}
	h.writeJSON(w, class, http.StatusCreated)
}

// DeleteClass removes a class
func (h *OntologyHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveClass(r.PathValue("uniqueName")); err != nil {
		h.writeServiceError(w, "Failed to delete class", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListObjectProperties returns all object properties
func (h *OntologyHandler) ListObjectProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.ListObjectProperties()
	if err != nil {
		h.writeServiceError(w, "Failed to list object properties", err)
		return
	}
	h.writeJSON(w, props, http.StatusOK)
}

// GetObjectProperty returns a single object property
func (h *OntologyHandler) GetObjectProperty(w http.ResponseWriter, r *http.Request) {
	prop, err := h.svc.GetObjectProperty(r.PathValue("uniqueName"))
	if err != nil {
		h.writeServiceError(w, "Failed to get object property", err)
		return
	}
	h.writeJSON(w, prop, http.StatusOK)
}

// CreateObjectProperty adds an object property
func (h *OntologyHandler) CreateObjectProperty(w http.ResponseWriter, r *http.Request) {
	var prop domain.ObjectProperty
	if !h.decode(w, r, &prop) {
		return
	}
	if err := h.svc.AddObjectProperty(&prop); err != nil {
		h.writeServiceError(w, "Failed to create object property", err)
		return
	}
	h.writeJSON(w, prop, http.StatusCreated)
}

// DeleteObjectProperty removes an object property
func (h *OntologyHandler) DeleteObjectProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveObjectProperty(r.PathValue("uniqueName")); err != nil {
		h.writeServiceError(w, "Failed to delete object property", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDataProperties returns all data properties
func (h *OntologyHandler) ListDataProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.ListDataProperties()
	if err != nil {
		h.writeServiceError(w, "Failed to list data properties", err)
		return
	}
	h.writeJSON(w, props, http.StatusOK)
}

// GetDataProperty returns a single data property
func (h *OntologyHandler) GetDataProperty(w http.ResponseWriter, r *http.Request) {
	prop, err := h.svc.GetDataProperty(r.PathValue("uniqueName"))
	if err != nil {
		h.writeServiceError(w, "Failed to get data property", err)
		return
	}
	h.writeJSON(w, prop, http.StatusOK)
}

// CreateDataProperty adds a data property
func (h *OntologyHandler) CreateDataProperty(w http.ResponseWriter, r *http.Request) {
	var prop domain.DataProperty
	if !h.decode(w, r, &prop) {
		return
	}
	if err := h.svc.AddDataProperty(&prop); err != nil {
		h.writeServiceError(w, "Failed to create data property", err)
		return
	}
	h.writeJSON(w, prop, http.StatusCreated)
}

// DeleteDataProperty removes a data property
func (h *OntologyHandler) DeleteDataProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveDataProperty(r.PathValue("uniqueName")); err != nil {
		h.writeServiceError(w, "Failed to delete data property", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListIndividuals returns all individuals
func (h *OntologyHandler) ListIndividuals(w http.ResponseWriter, r *http.Request) {
	individuals, err := h.svc.ListIndividuals()
	if err != nil {
		h.writeServiceError(w, "Failed to list individuals", err)
		return
	}
	h.writeJSON(w, individuals, http.StatusOK)
}

// GetIndividual returns a single individual
func (h *OntologyHandler) GetIndividual(w http.ResponseWriter, r *http.Request) {
	individual, err := h.svc.GetIndividual(r.PathValue("uniqueName"))
	if err != nil {
		h.writeServiceError(w, "Failed to get individual", err)
		return
	}
	h.writeJSON(w, individual, http.StatusOK)
}

// CreateIndividual adds an individual
func (h *OntologyHandler) CreateIndividual(w http.ResponseWriter, r *http.Request) {
	var individual domain.Individual
	if !h.decode(w, r, &individual) {
		return
	}
	if err := h.svc.AddIndividual(&individual); err != nil {
		h.writeServiceError(w, "Failed to create individual", err)
		return
	}
	h.writeJSON(w, individual, http.StatusCreated)
}

// DeleteIndividual removes an individual
func (h *OntologyHandler) DeleteIndividual(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveIndividual(r.PathValue("uniqueName")); err != nil {
		h.writeServiceError(w, "Failed to delete individual", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
