package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
)

func TestCreateTask(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetLead", mock.Anything, "lead-1").
		Return(&model.Lead{ID: "lead-1", Name: "Ada Lovelace"}, nil)
	repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
		return task.UserID == testUserID && task.LeadID == "lead-1" && task.Title == "Follow up call"
	})).Return(nil)

	rec := doRequest(s, http.MethodPost, "/api/leads/lead-1/tasks", []byte(`{"title":"Follow up call"}`), true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreateTask_ParentLeadMissing(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetLead", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	rec := doRequest(s, http.MethodPost, "/api/leads/missing/tasks", []byte(`{"title":"Follow up call"}`), true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Lead not found", decodeBody(t, rec)["message"])
	repo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestUpdateTask_CompleteAndClearDueDate(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("UpdateTask", mock.Anything, "task-1", map[string]interface{}{
		"completed": true,
		"due_date":  nil,
	}).Return(&model.Task{ID: "task-1", Title: "Follow up call", Completed: true}, nil)

	rec := doRequest(s, http.MethodPatch, "/api/tasks/task-1", []byte(`{"completed":true,"dueDate":null}`), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["completed"])
	repo.AssertExpectations(t)
}

func TestDeleteTask_NotFound(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("DeleteTask", mock.Anything, "task-gone").Return(apperrors.ErrNotFound)

	rec := doRequest(s, http.MethodDelete, "/api/tasks/task-gone", nil, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeBody(t, rec)["message"])
}

func TestListTasks(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetTasks", mock.Anything, "lead-1").Return([]model.Task{
		*model.NewFakeTask(testUserID, "lead-1"),
		*model.NewFakeTask(testUserID, "lead-1"),
	}, nil)

	rec := doRequest(s, http.MethodGet, "/api/leads/lead-1/tasks", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestListDeals(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	repo.On("GetDeals", mock.Anything, "lead-1").Return([]model.Deal{
		*model.NewFakeDeal(testUserID, "lead-1"),
	}, nil)

	rec := doRequest(s, http.MethodGet, "/api/leads/lead-1/deals", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestDeleteDeal_RouteAbsent(t *testing.T) {
	s, repo, _ := newTestServer(t)
	expectUpsertUser(repo)

	rec := doRequest(s, http.MethodDelete, "/api/deals/deal-1", nil, true)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	repo.AssertNotCalled(t, "DeleteLead", mock.Anything, mock.Anything)
}
