package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/validator"
)

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.repo.GetDeals(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to fetch deals")
		return
	}
	respondJSON(w, http.StatusOK, deals)
}

func (s *Server) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leadID := chi.URLParam(r, "leadID")

	if _, err := s.repo.GetLead(ctx, leadID); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to create deal")
		return
	}

	var deal model.Deal
	if err := decodeJSON(r, &deal); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create deal")
		return
	}

	deal.ID = ""
	deal.UserID = tenant.MustFromContext(ctx)
	deal.LeadID = leadID
	deal.CreatedAt = time.Time{}
	deal.UpdatedAt = time.Time{}

	if err := validator.Validate(&deal); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create deal")
		return
	}

	if err := s.repo.CreateDeal(ctx, &deal); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to create deal")
		return
	}
	respondJSON(w, http.StatusCreated, deal)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update deal")
		return
	}
	updates, err := buildUpdates(body, dealFields)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update deal")
		return
	}

	deal, err := s.repo.UpdateDeal(r.Context(), chi.URLParam(r, "dealID"), updates)
	if err != nil {
		respondError(w, r, err, "Deal not found", "Failed to update deal")
		return
	}
	respondJSON(w, http.StatusOK, deal)
}
