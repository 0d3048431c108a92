package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/validator"
)

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.repo.GetCampaigns(r.Context())
	if err != nil {
		respondError(w, r, err, "Campaign not found", "Failed to fetch campaigns")
		return
	}
	respondJSON(w, http.StatusOK, campaigns)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.repo.GetCampaign(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		respondError(w, r, err, "Campaign not found", "Failed to fetch campaign")
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var campaign model.Campaign
	if err := decodeJSON(r, &campaign); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create campaign")
		return
	}

	campaign.ID = ""
	campaign.UserID = tenant.MustFromContext(ctx)
	campaign.CreatedAt = time.Time{}
	campaign.UpdatedAt = time.Time{}

	if err := validator.Validate(&campaign); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create campaign")
		return
	}

	if err := s.repo.CreateCampaign(ctx, &campaign); err != nil {
		respondError(w, r, err, "Campaign not found", "Failed to create campaign")
		return
	}
	respondJSON(w, http.StatusCreated, campaign)
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update campaign")
		return
	}
	updates, err := buildUpdates(body, campaignFields)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update campaign")
		return
	}

	campaign, err := s.repo.UpdateCampaign(r.Context(), chi.URLParam(r, "campaignID"), updates)
	if err != nil {
		respondError(w, r, err, "Campaign not found", "Failed to update campaign")
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteCampaign(r.Context(), chi.URLParam(r, "campaignID")); err != nil {
		respondError(w, r, err, "Campaign not found", "Failed to delete campaign")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
