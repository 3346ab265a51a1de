package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tripdesk-backend/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps the error taxonomy to HTTP statuses. Raw provider
// and database errors are never echoed to end users.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		respondError(w, http.StatusConflict, "not enough seats available on this trip")
	case errors.Is(err, domain.ErrTripNotFound):
		respondError(w, http.StatusNotFound, "trip not found")
	case errors.Is(err, domain.ErrBookingNotFound):
		respondError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrProviderUnavailable):
		respondError(w, http.StatusServiceUnavailable, "payment pending, try again later")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}
