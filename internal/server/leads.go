package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/validator"
)

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.repo.GetLeads(r.Context())
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to fetch leads")
		return
	}
	respondJSON(w, http.StatusOK, leads)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.repo.GetLead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to fetch lead")
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var lead model.Lead
	if err := decodeJSON(r, &lead); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create lead")
		return
	}

	// Server-managed fields are never client-writable.
	lead.ID = ""
	lead.UserID = tenant.MustFromContext(ctx)
	lead.CreatedAt = time.Time{}
	lead.UpdatedAt = time.Time{}

	if err := validator.Validate(&lead); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create lead")
		return
	}

	if err := s.repo.CreateLead(ctx, &lead); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to create lead")
		return
	}
	respondJSON(w, http.StatusCreated, lead)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update lead")
		return
	}
	updates, err := buildUpdates(body, leadFields)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update lead")
		return
	}

	lead, err := s.repo.UpdateLead(r.Context(), chi.URLParam(r, "leadID"), updates)
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to update lead")
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteLead(r.Context(), chi.URLParam(r, "leadID")); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to delete lead")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
