package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/validator"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.GetTasks(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, r, err, "Lead not found", "Failed to fetch tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leadID := chi.URLParam(r, "leadID")

	if _, err := s.repo.GetLead(ctx, leadID); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to create task")
		return
	}

	var task model.Task
	if err := decodeJSON(r, &task); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create task")
		return
	}

	task.ID = ""
	task.UserID = tenant.MustFromContext(ctx)
	task.LeadID = leadID
	task.CreatedAt = time.Time{}
	task.UpdatedAt = time.Time{}

	if err := validator.Validate(&task); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create task")
		return
	}

	if err := s.repo.CreateTask(ctx, &task); err != nil {
		respondError(w, r, err, "Lead not found", "Failed to create task")
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update task")
		return
	}
	updates, err := buildUpdates(body, taskFields)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update task")
		return
	}

	task, err := s.repo.UpdateTask(r.Context(), chi.URLParam(r, "taskID"), updates)
	if err != nil {
		respondError(w, r, err, "Task not found", "Failed to update task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteTask(r.Context(), chi.URLParam(r, "taskID")); err != nil {
		respondError(w, r, err, "Task not found", "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
