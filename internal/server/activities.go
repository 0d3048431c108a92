package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/validator"
)

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.repo.GetActivities(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to fetch activities")
		return
	}
	respondJSON(w, http.StatusOK, activities)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leadID := chi.URLParam(r, "leadID")

	// The parent lead must exist for the caller before anything is appended.
	if _, err := s.repo.GetLead(ctx, leadID); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to create activity")
		return
	}

	var activity model.Activity
	if err := decodeJSON(r, &activity); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create activity")
		return
	}

	activity.ID = ""
	activity.UserID = tenant.MustFromContext(ctx)
	activity.LeadID = leadID
	activity.CreatedAt = time.Time{}

	if err := validator.Validate(&activity); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create activity")
		return
	}

	if err := s.repo.CreateActivity(ctx, &activity); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to create activity")
		return
	}
	respondJSON(w, http.StatusCreated, activity)
}
