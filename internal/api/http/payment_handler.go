package http

import (
	"encoding/json"
	"io"
	"net/http"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/logger"
	"tripdesk-backend/internal/service"

	"github.com/gorilla/mux"
)

// SignatureHeader carries the provider's HMAC-SHA256 hex signature of the
// raw webhook body.
const SignatureHeader = "X-Payment-Signature"

type PaymentHandler struct {
	paymentSvc  service.PaymentService
	reminderSvc service.ReminderService
}

func NewPaymentHandler(paymentSvc service.PaymentService, reminderSvc service.ReminderService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, reminderSvc: reminderSvc}
}

type manualPaymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	PaymentDate string `json:"payment_date"`
	Method      string `json:"method"`
}

func (h *PaymentHandler) RecordManualPayment(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req manualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	method := domain.PaymentMethod(req.Method)
	if method == "" {
		method = domain.PaymentMethodTransfer
	}
	entry, err := h.paymentSvc.RecordManualPayment(r.Context(), bookingID, req.AmountCents, req.PaymentDate, method)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	entries, err := h.paymentSvc.ListPayments(r.Context(), bookingID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type checkoutRequest struct {
	ReturnURL string `json:"return_url"`
}

type checkoutResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// CreateCheckout opens a provider payment session for the booking's next
// due amount.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	token := r.URL.Query().Get("token")
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	redirectURL, err := h.paymentSvc.CreateCheckout(r.Context(), ref, token, req.ReturnURL)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse{RedirectURL: redirectURL})
}

// HandleWebhook ingests provider push notifications. It acknowledges with
// 200 unconditionally: the provider contract is that acknowledgement stops
// redelivery storms, even for events we drop. Failures are logged for
// audit, never surfaced.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("Failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.paymentSvc.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader)); err != nil {
		logger.Warn("Webhook dropped", "error", err)
	}
	w.WriteHeader(http.StatusOK)
}

type pollStatusResponse struct {
	PaymentStatus  domain.PaymentStatus `json:"payment_status"`
	ProviderStatus string               `json:"provider_status"`
}

// PollStatus proactively asks the provider for the payment's current state,
// for customers whose webhook has not arrived yet. Guarded by the booking
// access token.
func (h *PaymentHandler) PollStatus(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	status, providerStatus, err := h.paymentSvc.PollPaymentStatus(r.Context(), ref,
		r.URL.Query().Get("token"), r.URL.Query().Get("payment_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pollStatusResponse{
		PaymentStatus:  status,
		ProviderStatus: providerStatus,
	})
}

// SendReminder triggers a second-installment reminder for one booking.
func (h *PaymentHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	if err := h.reminderSvc.SendReminder(r.Context(), bookingID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
