package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

func TestCreateLead(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("CreateLead", mock.Anything, mock.MatchedBy(func(lead *model.Lead) bool {
		return lead.UserID == testUserID && lead.Name == "Ada Lovelace" && lead.ID == ""
	})).Return(nil)

	body := []byte(`{"id":"client-chosen","name":"Ada Lovelace","company":"Analytical Engines","email":"ada@example.com"}`)
	rec := doRequest(s, http.MethodPost, "/api/leads", body, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ada Lovelace", decodeBody(t, rec)["name"])
	repo.AssertExpectations(t)
}

func TestCreateLead_ValidationFailure(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	// Company missing.
	rec := doRequest(s, http.MethodPost, "/api/leads", []byte(`{"name":"Ada Lovelace"}`), true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to create lead", decodeBody(t, rec)["message"])
	repo.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestCreateLead_MissingIdentityHeader(t *testing.T) {
	s, repo, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/leads", []byte(`{"name":"Ada"}`), false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rec)["message"])
	repo.AssertNotCalled(t, "UpsertUser", mock.Anything, mock.Anything)
}

func TestGetLead_NotFound(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetLead", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	rec := doRequest(s, http.MethodGet, "/api/leads/missing", nil, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Lead not found", decodeBody(t, rec)["message"])
}

func TestUpdateLead(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("UpdateLead", mock.Anything, "lead-1", map[string]interface{}{
		"status": "contacted",
		"notes":  "left voicemail",
	}).Return(&model.Lead{ID: "lead-1", Name: "Ada Lovelace", Status: "contacted", Notes: "left voicemail"}, nil)

	rec := doRequest(s, http.MethodPatch, "/api/leads/lead-1", []byte(`{"status":"contacted","notes":"left voicemail"}`), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "contacted", decodeBody(t, rec)["status"])
	repo.AssertExpectations(t)
}

func TestUpdateLead_ServerManagedFieldsIgnored(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	// Only unwritable keys leaves nothing to update.
	rec := doRequest(s, http.MethodPatch, "/api/leads/lead-1", []byte(`{"userId":"other-user","id":"new-id"}`), true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "UpdateLead", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLead_ScoreOutOfRange(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	rec := doRequest(s, http.MethodPatch, "/api/leads/lead-1", []byte(`{"score":150}`), true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "UpdateLead", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteLead(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("DeleteLead", mock.Anything, "lead-1").Return(nil)

	rec := doRequest(s, http.MethodDelete, "/api/leads/lead-1", nil, true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	repo.AssertExpectations(t)
}

func TestListLeads(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetLeads", mock.Anything).Return([]model.Lead{
		*model.NewFakeLead(testUserID),
		*model.NewFakeLead(testUserID),
	}, nil)

	rec := doRequest(s, http.MethodGet, "/api/leads", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	var leads []model.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
	assert.Len(t, leads, 2)
}
