package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/service"

	"github.com/gorilla/mux"
)

type TripHandler struct {
	tripSvc service.TripService
}

func NewTripHandler(tripSvc service.TripService) *TripHandler {
	return &TripHandler{tripSvc: tripSvc}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	return int32(id), err
}

func queryInt32(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}

type listResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
}

// ListPublished is the public trip listing.
func (h *TripHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	trips, total, err := h.tripSvc.ListTrips(r.Context(), string(domain.TripStatusPublished), page, pageSize)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: trips, Total: total})
}

// List is the staff listing, optionally filtered by status.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	trips, total, err := h.tripSvc.ListTrips(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: trips, Total: total})
}

type tripResponse struct {
	Trip     *domain.Trip                 `json:"trip"`
	Schedule []domain.PaymentScheduleItem `json:"schedule,omitempty"`
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id")
		return
	}
	trip, schedule, err := h.tripSvc.GetTrip(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tripResponse{Trip: trip, Schedule: schedule})
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var trip domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.tripSvc.CreateTrip(r.Context(), &trip); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, trip)
}

func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id")
		return
	}
	var trip domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	trip.ID = id
	if err := h.tripSvc.UpdateTrip(r.Context(), &trip); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trip)
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id")
		return
	}
	if err := h.tripSvc.DeleteTrip(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id")
		return
	}
	var items []domain.PaymentScheduleItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.tripSvc.SetPaymentSchedule(r.Context(), id, items); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
