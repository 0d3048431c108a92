package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

func TestUpdateAgentConfig_ByName_FirstPatchCreatesRow(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetAgentConfigs", mock.Anything).Return([]model.AgentConfig{}, nil)
	repo.On("UpsertAgentConfig", mock.Anything, mock.MatchedBy(func(c *model.AgentConfig) bool {
		// Patch merged onto defaults.
		return c.AgentName == model.AgentHunter && c.AggressionLevel == 75 &&
			c.IsActive && c.AutonomousMode && c.DailyBudget == 50
	})).Return(&model.AgentConfig{ID: "cfg-1", AgentName: model.AgentHunter, IsActive: true, AutonomousMode: true, AggressionLevel: 75, DailyBudget: 50}, nil)

	rec := doRequest(s, http.MethodPatch, "/api/agents/hunter", []byte(`{"aggressionLevel":75}`), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(75), decodeBody(t, rec)["aggressionLevel"])
	repo.AssertExpectations(t)
}

func TestUpdateAgentConfig_ByName_MergesOntoExisting(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetAgentConfigs", mock.Anything).Return([]model.AgentConfig{
		{ID: "cfg-1", AgentName: model.AgentScribe, IsActive: true, AutonomousMode: false, AggressionLevel: 30, DailyBudget: 20},
	}, nil)
	repo.On("UpsertAgentConfig", mock.Anything, mock.MatchedBy(func(c *model.AgentConfig) bool {
		// Untouched fields keep their stored values.
		return c.ID == "cfg-1" && !c.IsActive && !c.AutonomousMode &&
			c.AggressionLevel == 30 && c.DailyBudget == 20
	})).Return(&model.AgentConfig{ID: "cfg-1", AgentName: model.AgentScribe, AggressionLevel: 30, DailyBudget: 20}, nil)

	rec := doRequest(s, http.MethodPatch, "/api/agents/scribe", []byte(`{"isActive":false}`), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestUpdateAgentConfig_ByName_ZeroValuesReachUpsert(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetAgentConfigs", mock.Anything).Return([]model.AgentConfig{
		{ID: "cfg-1", AgentName: model.AgentOracle, IsActive: true, AutonomousMode: true, AggressionLevel: 50, DailyBudget: 50},
	}, nil)
	repo.On("UpsertAgentConfig", mock.Anything, mock.MatchedBy(func(c *model.AgentConfig) bool {
		// Explicit false/0 must survive the merge, not revert to defaults.
		return c.ID == "cfg-1" && !c.IsActive && !c.AutonomousMode &&
			c.AggressionLevel == 0 && c.DailyBudget == 0
	})).Return(&model.AgentConfig{ID: "cfg-1", AgentName: model.AgentOracle}, nil)

	body := []byte(`{"isActive":false,"autonomousMode":false,"aggressionLevel":0,"dailyBudget":0}`)
	rec := doRequest(s, http.MethodPatch, "/api/agents/oracle", body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestUpdateAgentConfig_ByRowID(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("UpdateAgentConfig", mock.Anything, "cfg-42", map[string]interface{}{
		"daily_budget": 90,
	}).Return(&model.AgentConfig{ID: "cfg-42", AgentName: model.AgentOracle, DailyBudget: 90}, nil)

	rec := doRequest(s, http.MethodPatch, "/api/agents/cfg-42", []byte(`{"dailyBudget":90}`), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestUpdateAgentConfig_ByRowID_NotFound(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("UpdateAgentConfig", mock.Anything, "cfg-missing", mock.Anything).
		Return(nil, apperrors.ErrNotFound)

	rec := doRequest(s, http.MethodPatch, "/api/agents/cfg-missing", []byte(`{"dailyBudget":90}`), true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Agent config not found", decodeBody(t, rec)["message"])
}

func TestUpdateAgentConfig_InvalidPatch(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	testCases := []struct {
		name string
		body string
	}{
		{name: "aggression out of range", body: `{"aggressionLevel":150}`},
		{name: "negative budget", body: `{"dailyBudget":-5}`},
		{name: "no recognized field", body: `{"somethingElse":true}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPatch, "/api/agents/hunter", []byte(tc.body), true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	repo.AssertNotCalled(t, "UpsertAgentConfig", mock.Anything, mock.Anything)
}

func TestListAgentConfigs(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetAgentConfigs", mock.Anything).Return([]model.AgentConfig{
		{ID: "cfg-1", AgentName: model.AgentHunter},
		{ID: "cfg-2", AgentName: model.AgentOracle},
	}, nil)

	rec := doRequest(s, http.MethodGet, "/api/agents", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
