package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gitlab.com/timkado/api/daisi-sdr-service/internal/apperrors"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/logger"
	"gitlab.com/timkado/api/daisi-sdr-service/pkg/utils"
)

// maxBodyBytes caps request body size. Knowledge documents are the largest
// legitimate payload and stay well under this.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Message string `json:"message"`
}

// respondJSON writes data with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	utils.WriteJSONResponse(w, status, data)
}

// respondMessage writes a {"message": ...} body with the given status code.
func respondMessage(w http.ResponseWriter, status int, message string) {
	utils.WriteJSONResponse(w, status, errorResponse{Message: message})
}

// respondError maps an application error to a response. Validation and
// not-found surface precise client-facing codes; everything else collapses to
// a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, failureMsg string) {
	switch {
	case apperrors.IsNotFoundError(err):
		respondMessage(w, http.StatusNotFound, notFoundMsg)
	case apperrors.IsValidationError(err) || apperrors.IsBadRequestError(err) || apperrors.IsDuplicateError(err):
		respondMessage(w, http.StatusBadRequest, failureMsg)
	case apperrors.IsUnauthorizedError(err):
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
	default:
		logger.FromContext(r.Context()).Error(failureMsg, zap.Error(err))
		respondMessage(w, http.StatusInternalServerError, failureMsg)
	}
}

// decodeJSON reads the request body into dst, rejecting oversized or
// malformed payloads as bad requests.
func decodeJSON(r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body: %w", apperrors.ErrBadRequest)
		}
		return fmt.Errorf("invalid JSON body: %w", apperrors.ErrBadRequest)
	}
	return nil
}
