package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/agents"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/worker"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// Agent action types recorded on AgentAction rows.
const (
	actionTypeAnalyzeLead      = "analyze_lead"
	actionTypeGenerateOutreach = "generate_outreach"
	actionTypeAnalyzePipeline  = "analyze_pipeline"
)

func (s *Server) handleGetAgentMessages(w http.ResponseWriter, r *http.Request) {
	agentName := chi.URLParam(r, "agentName")
	if !model.ValidAgentName(agentName) {
		respondMessage(w, http.StatusNotFound, "Agent not found")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	messages, err := s.repo.GetAgentMessages(r.Context(), agentName, limit)
	if err != nil {
		respondError(w, r, err, "Agent not found", "Failed to fetch messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func (s *Server) handleClearAgentMessages(w http.ResponseWriter, r *http.Request) {
	agentName := chi.URLParam(r, "agentName")
	if !model.ValidAgentName(agentName) {
		respondMessage(w, http.StatusNotFound, "Agent not found")
		return
	}

	if err := s.repo.ClearAgentMessages(r.Context(), agentName); err != nil {
		respondError(w, r, err, "Agent not found", "Failed to clear messages")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAgentActions(w http.ResponseWriter, r *http.Request) {
	agentName := chi.URLParam(r, "agentName")
	if !model.ValidAgentName(agentName) {
		respondMessage(w, http.StatusNotFound, "Agent not found")
		return
	}

	actions, err := s.repo.GetAgentActions(r.Context(), agentName)
	if err != nil {
		respondError(w, r, err, "Agent not found", "Failed to fetch actions")
		return
	}
	respondJSON(w, http.StatusOK, actions)
}

type chatRequest struct {
	Message string `json:"message"`
	LeadID  string `json:"leadId"`
}

// handleAgentChat persists the user turn, runs the persona and persists the
// reply. A provider failure surfaces as the persona's fallback text, stored
// like any other assistant turn.
func (s *Server) handleAgentChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	persona := agents.ByName(chi.URLParam(r, "agentName"))
	if persona == nil {
		respondMessage(w, http.StatusNotFound, "Agent not found")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Message is required")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respondMessage(w, http.StatusBadRequest, "Message is required")
		return
	}

	var lead *model.Lead
	if req.LeadID != "" {
		var err error
		lead, err = s.repo.GetLead(ctx, req.LeadID)
		if err != nil {
			respondError(w, r, err, "Lead not found", "Failed to process chat")
			return
		}
	}

	userMessage := &model.AgentMessage{
		AgentName: persona.Name,
		Role:      model.RoleUser,
		Content:   req.Message,
	}
	if err := s.repo.CreateAgentMessage(ctx, userMessage); err != nil {
		respondError(w, r, err, "Agent not found", "Failed to process chat")
		return
	}

	reply, err := s.agents.Chat(ctx, persona, req.Message, lead)
	if err != nil {
		respondError(w, r, err, "Agent not found", "Failed to process chat")
		return
	}

	assistantMessage := &model.AgentMessage{
		AgentName: persona.Name,
		Role:      model.RoleAssistant,
		Content:   reply,
	}
	if err := s.repo.CreateAgentMessage(ctx, assistantMessage); err != nil {
		respondError(w, r, err, "Agent not found", "Failed to process chat")
		return
	}

	respondJSON(w, http.StatusOK, assistantMessage)
}

// handleAnalyzeLead triggers the qualification action for one lead: an
// AgentAction row tracks the run, a completed analysis writes the score and
// payload back onto the lead, and an Activity row records the event.
func (s *Server) handleAnalyzeLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lead, err := s.repo.GetLead(ctx, chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to analyze lead")
		return
	}

	action := &model.AgentAction{
		AgentName:  model.AgentHunter,
		ActionType: actionTypeAnalyzeLead,
		TargetID:   lead.ID,
		Input:      datatypes.JSON(utils.MustMarshalJSON(map[string]string{"leadId": lead.ID})),
	}
	if err := s.repo.CreateAgentAction(ctx, action); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to analyze lead")
		return
	}

	var result *agents.AnalysisResult
	err = s.actions.Execute(worker.ActionTask{
		Ctx:        ctx,
		ActionID:   action.ID,
		AgentName:  model.AgentHunter,
		ActionType: actionTypeAnalyzeLead,
		Run: func(ctx context.Context) (datatypes.JSON, error) {
			res, runErr := s.agents.AnalyzeLead(ctx, lead)
			if runErr != nil {
				return nil, runErr
			}
			result = res
			out := map[string]interface{}{
				"content":    res.Content,
				"analyzedAt": res.AnalyzedAt,
			}
			if res.SuggestedScore != nil {
				out["suggestedScore"] = *res.SuggestedScore
			}
			return datatypes.JSON(utils.MustMarshalJSON(out)), nil
		},
	})
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to analyze lead")
		return
	}

	// The lead is only touched when a usable score came back.
	responseLead := lead
	if result.SuggestedScore != nil && *result.SuggestedScore >= 0 && *result.SuggestedScore <= 100 {
		updated, updateErr := s.repo.UpdateLead(ctx, lead.ID, map[string]interface{}{
			"score": *result.SuggestedScore,
			"sdr_analysis": datatypes.JSON(utils.MustMarshalJSON(map[string]interface{}{
				"content":    result.Content,
				"analyzedAt": result.AnalyzedAt,
			})),
			"last_action": "AI analysis completed",
		})
		if updateErr != nil {
			respondError(w, r, updateErr, "Lead not found", "Failed to analyze lead")
			return
		}
		responseLead = updated
	}

	s.recordActionActivity(ctx, lead, "ai_analysis", "Hunter-01 analyzed "+lead.Name, action.ID)

	response := map[string]interface{}{
		"actionId": action.ID,
		"content":  result.Content,
		"lead":     responseLead,
	}
	if result.SuggestedScore != nil {
		response["suggestedScore"] = *result.SuggestedScore
	}
	respondJSON(w, http.StatusOK, response)
}

type outreachRequest struct {
	Channel string `json:"channel"`
	Context string `json:"context"`
}

// handleGenerateOutreach triggers the outreach action for one lead.
func (s *Server) handleGenerateOutreach(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req outreachRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid outreach channel")
		return
	}
	if !agents.ValidChannel(req.Channel) {
		respondMessage(w, http.StatusBadRequest, "Invalid outreach channel")
		return
	}

	lead, err := s.repo.GetLead(ctx, chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to generate outreach")
		return
	}

	action := &model.AgentAction{
		AgentName:  model.AgentScribe,
		ActionType: actionTypeGenerateOutreach,
		TargetID:   lead.ID,
		Input: datatypes.JSON(utils.MustMarshalJSON(map[string]string{
			"leadId":  lead.ID,
			"channel": req.Channel,
			"context": req.Context,
		})),
	}
	if err := s.repo.CreateAgentAction(ctx, action); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to generate outreach")
		return
	}

	var result *agents.OutreachResult
	err = s.actions.Execute(worker.ActionTask{
		Ctx:        ctx,
		ActionID:   action.ID,
		AgentName:  model.AgentScribe,
		ActionType: actionTypeGenerateOutreach,
		Run: func(ctx context.Context) (datatypes.JSON, error) {
			res, runErr := s.agents.GenerateOutreach(ctx, lead, req.Channel, req.Context)
			if runErr != nil {
				return nil, runErr
			}
			result = res
			return datatypes.JSON(utils.MustMarshalJSON(map[string]interface{}{
				"content":     res.Content,
				"channel":     res.Channel,
				"generatedAt": res.GeneratedAt,
			})), nil
		},
	})
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to generate outreach")
		return
	}

	s.recordActionActivity(ctx, lead, "outreach_generated", "Scribe-X drafted "+req.Channel+" outreach for "+lead.Name, action.ID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"actionId": action.ID,
		"content":  result.Content,
		"channel":  result.Channel,
	})
}

// handleAnalyzePipeline triggers the pipeline action over all owned leads.
func (s *Server) handleAnalyzePipeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leads, err := s.repo.GetLeads(ctx)
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to analyze pipeline")
		return
	}

	action := &model.AgentAction{
		AgentName:  model.AgentOracle,
		ActionType: actionTypeAnalyzePipeline,
		Input:      datatypes.JSON(utils.MustMarshalJSON(map[string]int{"leadCount": len(leads)})),
	}
	if err := s.repo.CreateAgentAction(ctx, action); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to analyze pipeline")
		return
	}

	var result *agents.PipelineResult
	err = s.actions.Execute(worker.ActionTask{
		Ctx:        ctx,
		ActionID:   action.ID,
		AgentName:  model.AgentOracle,
		ActionType: actionTypeAnalyzePipeline,
		Run: func(ctx context.Context) (datatypes.JSON, error) {
			res, runErr := s.agents.AnalyzePipeline(ctx, leads)
			if runErr != nil {
				return nil, runErr
			}
			result = res
			return datatypes.JSON(utils.MustMarshalJSON(map[string]interface{}{
				"content":    res.Content,
				"leadCount":  res.LeadCount,
				"avgScore":   res.AvgScore,
				"analyzedAt": res.AnalyzedAt,
			})), nil
		},
	})
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to analyze pipeline")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"actionId":  action.ID,
		"content":   result.Content,
		"leadCount": result.LeadCount,
		"avgScore":  result.AvgScore,
	})
}

// recordActionActivity appends the audit row for a completed agent action.
// Failures are logged, not surfaced; the action itself already succeeded.
func (s *Server) recordActionActivity(ctx context.Context, lead *model.Lead, activityType, title, actionID string) {
	activity := &model.Activity{
		LeadID:   lead.ID,
		Type:     activityType,
		Title:    title,
		Metadata: datatypes.JSON(utils.MustMarshalJSON(map[string]string{"actionId": actionID})),
	}
	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		logger.FromContext(ctx).Warn("Failed to record agent action activity",
			zap.String("lead_id", lead.ID),
			zap.String("action_id", actionID),
			zap.Error(err))
	}
}
