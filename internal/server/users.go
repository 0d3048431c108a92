package server

import (
	"net/http"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/tenant"
)

// handleGetCurrentUser returns the authenticated user's profile. The row is
// guaranteed to exist because the auth middleware upserts it.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := tenant.FromContext(ctx)
	if err != nil {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		respondError(w, r, err, "User not found", "Failed to fetch user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
