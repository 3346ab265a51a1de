package http

import (
	"encoding/json"
	"net/http"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

type createBookingRequest struct {
	ContactName  string               `json:"contact_name"`
	ContactEmail string               `json:"contact_email"`
	ContactPhone string               `json:"contact_phone"`
	Participants []domain.Participant `json:"participants"`
}

type createBookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	// AccessToken is returned exactly once, at creation: it is the
	// customer's capability for self-service access.
	AccessToken string `json:"access_token"`
}

// Create is the public booking endpoint. Seats are reserved atomically; a
// full trip answers 409.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id")
		return
	}
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	booking, err := h.bookingSvc.CreateBooking(r.Context(), tripID,
		req.ContactName, req.ContactEmail, req.ContactPhone, req.Participants)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, createBookingResponse{
		Booking:     booking,
		AccessToken: booking.AccessToken,
	})
}

// GetByRef is the unauthenticated self-service read, guarded by the access
// token query parameter.
func (h *BookingHandler) GetByRef(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	token := r.URL.Query().Get("token")
	booking, err := h.bookingSvc.GetBookingByRef(r.Context(), ref, token)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	booking, err := h.bookingSvc.GetBooking(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid trip id")
		return
	}
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)
	bookings, total, err := h.bookingSvc.ListBookings(r.Context(), tripID, page, pageSize)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: bookings, Total: total})
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.bookingSvc.ConfirmBooking(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.bookingSvc.CancelBooking(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.bookingSvc.DeleteBooking(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
