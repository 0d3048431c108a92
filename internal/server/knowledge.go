package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/model"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
	"gitlab.com/timkado/api/daisi-sdr-service/internal/validator"
)

func validKnowledgeCategory(category string) bool {
	switch category {
	case model.KnowledgeCategoryQualification,
		model.KnowledgeCategoryOutreach,
		model.KnowledgeCategoryObjection,
		model.KnowledgeCategoryIndustry,
		model.KnowledgeCategoryProduct:
		return true
	}
	return false
}

func (s *Server) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !validKnowledgeCategory(category) {
		respondMessage(w, http.StatusBadRequest, "Invalid knowledge category")
		return
	}

	docs, err := s.repo.GetKnowledgeDocuments(r.Context(), category)
	if err != nil {
		respondError(w, r, err, "Document not found", "Failed to fetch knowledge documents")
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetKnowledge(w http.ResponseWriter, r *http.Request) {
	doc, err := s.repo.GetKnowledgeDocument(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		respondError(w, r, err, "Document not found", "Failed to fetch knowledge document")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleCreateKnowledge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Documents are active unless the body explicitly opts out; decoding
	// over the preset keeps an omitted field distinguishable from false.
	doc := model.KnowledgeDocument{IsActive: true}
	if err := decodeJSON(r, &doc); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create knowledge document")
		return
	}

	doc.ID = ""
	doc.UserID = tenant.MustFromContext(ctx)
	doc.CreatedAt = time.Time{}
	doc.UpdatedAt = time.Time{}

	if err := validator.Validate(&doc); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to create knowledge document")
		return
	}

	if err := s.repo.CreateKnowledgeDocument(ctx, &doc); err != nil {
		respondError(w, r, err, "Document not found", "Failed to create knowledge document")
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleUpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := decodeJSON(r, &body); err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update knowledge document")
		return
	}
	updates, err := buildUpdates(body, knowledgeFields)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Failed to update knowledge document")
		return
	}

	doc, err := s.repo.UpdateKnowledgeDocument(r.Context(), chi.URLParam(r, "documentID"), updates)
	if err != nil {
		respondError(w, r, err, "Document not found", "Failed to update knowledge document")
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteKnowledgeDocument(r.Context(), chi.URLParam(r, "documentID")); err != nil {
		respondError(w, r, err, "Document not found", "Failed to delete knowledge document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
