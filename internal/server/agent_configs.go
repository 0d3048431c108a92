package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

// agentConfigPatch is the accepted PATCH body for agent settings. Pointer
// fields distinguish "absent" from zero values.
type agentConfigPatch struct {
	IsActive        *bool `json:"isActive"`
	AutonomousMode  *bool `json:"autonomousMode"`
	AggressionLevel *int  `json:"aggressionLevel"`
	DailyBudget     *int  `json:"dailyBudget"`
}

func (p *agentConfigPatch) validate() bool {
	if p.AggressionLevel != nil && (*p.AggressionLevel < 0 || *p.AggressionLevel > 100) {
		return false
	}
	if p.DailyBudget != nil && *p.DailyBudget < 0 {
		return false
	}
	return p.IsActive != nil || p.AutonomousMode != nil || p.AggressionLevel != nil || p.DailyBudget != nil
}

func (s *Server) handleListAgentConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.repo.GetAgentConfigs(r.Context())
	if err != nil {
		respondError(w, r, err, "Agent config not found", "Failed to fetch agent configs")
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

// handleUpdateAgentConfig accepts either an agent persona name (upsert
// semantics, first PATCH creates the row) or a config row ID in the path.
func (s *Server) handleUpdateAgentConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref := chi.URLParam(r, "agentName")

	var patch agentConfigPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update agent config")
		return
	}
	if !patch.validate() {
		respondMessage(w, http.StatusBadRequest, "Failed to update agent config")
		return
	}

	if model.ValidAgentName(ref) {
		config, err := s.upsertAgentConfigByName(r, ref, &patch)
		if err != nil {
			respondError(w, r, err, "Agent config not found", "Failed to update agent config")
			return
		}
		respondJSON(w, http.StatusOK, config)
		return
	}

	updates := make(map[string]interface{}, 4)
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.AutonomousMode != nil {
		updates["autonomous_mode"] = *patch.AutonomousMode
	}
	if patch.AggressionLevel != nil {
		updates["aggression_level"] = *patch.AggressionLevel
	}
	if patch.DailyBudget != nil {
		updates["daily_budget"] = *patch.DailyBudget
	}

	config, err := s.repo.UpdateAgentConfig(ctx, ref, updates)
	if err != nil {
		respondError(w, r, err, "Agent config not found", "Failed to update agent config")
		return
	}
	respondJSON(w, http.StatusOK, config)
}

// upsertAgentConfigByName merges the patch onto the persona's existing
// settings, or onto defaults when the user has none yet.
func (s *Server) upsertAgentConfigByName(r *http.Request, agentName string, patch *agentConfigPatch) (*model.AgentConfig, error) {
	ctx := r.Context()

	config := &model.AgentConfig{
		AgentName:       agentName,
		IsActive:        true,
		AutonomousMode:  true,
		AggressionLevel: 50,
		DailyBudget:     50,
	}

	existing, err := s.repo.GetAgentConfigs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].AgentName == agentName {
			config = &existing[i]
			break
		}
	}

	if patch.IsActive != nil {
		config.IsActive = *patch.IsActive
	}
	if patch.AutonomousMode != nil {
		config.AutonomousMode = *patch.AutonomousMode
	}
	if patch.AggressionLevel != nil {
		config.AggressionLevel = *patch.AggressionLevel
	}
	if patch.DailyBudget != nil {
		config.DailyBudget = *patch.DailyBudget
	}

	return s.repo.UpsertAgentConfig(ctx, config)
}
