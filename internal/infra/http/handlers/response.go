package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/usecase"
)

const genericFailure = "something went wrong, please try again"

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON"})
		return false
	}
	return true
}

// writeError maps use case errors to status codes. Collaborator failures
// are logged in full and reported with a generic message.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var (
		validationErr   usecase.ValidationError
		notFoundErr     *usecase.NotFoundError
		authErr         *usecase.AuthError
		domainErr       *usecase.DomainError
		collaboratorErr *usecase.CollaboratorError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Error(), Field: validationErr.Field})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: authErr.Error()})
	case errors.Is(err, usecase.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: usecase.ErrUnauthenticated.Message})
	case errors.Is(err, usecase.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: usecase.ErrForbidden.Message})
	case errors.As(err, &domainErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: domainErr.Message})
	case errors.As(err, &collaboratorErr):
		log.WithError(err).Error("collaborator failure")
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: genericFailure})
	default:
		log.WithError(err).Error("unexpected error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: genericFailure})
	}
}
