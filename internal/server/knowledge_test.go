package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

func TestListKnowledge_CategoryFilter(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	doc := model.NewFakeKnowledgeDocument(testUserID)
	doc.Category = model.KnowledgeCategoryOutreach
	repo.On("GetKnowledgeDocuments", mock.Anything, model.KnowledgeCategoryOutreach).
		Return([]model.KnowledgeDocument{*doc}, nil)

	rec := doRequest(s, http.MethodGet, "/api/knowledge?category=outreach", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestListKnowledge_InvalidCategory(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	rec := doRequest(s, http.MethodGet, "/api/knowledge?category=folklore", nil, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid knowledge category", decodeBody(t, rec)["message"])
	repo.AssertNotCalled(t, "GetKnowledgeDocuments", mock.Anything, mock.Anything)
}

func TestCreateKnowledge(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("CreateKnowledgeDocument", mock.Anything, mock.MatchedBy(func(doc *model.KnowledgeDocument) bool {
		// Omitted isActive defaults to true.
		return doc.UserID == testUserID && doc.Title == "ICP Definition" &&
			doc.Category == model.KnowledgeCategoryQualification && doc.IsActive
	})).Return(nil)

	body := []byte(`{"title":"ICP Definition","content":"Mid-market SaaS.","category":"qualification"}`)
	rec := doRequest(s, http.MethodPost, "/api/knowledge", body, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreateKnowledge_ExplicitOptOut(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("CreateKnowledgeDocument", mock.Anything, mock.MatchedBy(func(doc *model.KnowledgeDocument) bool {
		return !doc.IsActive
	})).Return(nil)

	body := []byte(`{"title":"Retired Playbook","content":"Reference only.","category":"objection","isActive":false}`)
	rec := doRequest(s, http.MethodPost, "/api/knowledge", body, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreateKnowledge_BadCategory(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	body := []byte(`{"title":"ICP","content":"x","category":"folklore"}`)
	rec := doRequest(s, http.MethodPost, "/api/knowledge", body, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "CreateKnowledgeDocument", mock.Anything, mock.Anything)
}
