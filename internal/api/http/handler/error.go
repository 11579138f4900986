package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/elioraretreat/registration-server/internal/model"
	"github.com/elioraretreat/registration-server/internal/service"
)

// errorResponse is the JSON body for non-field errors.
type errorResponse struct {
	Error string `json:"error"`
}

// fieldErrorResponse carries per-field validation messages.
type fieldErrorResponse struct {
	Errors service.FieldErrors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFieldErrors(w http.ResponseWriter, errs service.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, fieldErrorResponse{Errors: errs})
}

// handleError maps domain errors to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "registration not found"})
	case errors.Is(err, model.ErrExportInProgress):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "export already in progress"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
