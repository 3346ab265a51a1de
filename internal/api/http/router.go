package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// bookingRefPattern matches customer booking references so staff routes keyed
// by numeric id and self-service routes keyed by reference can share the
// /bookings prefix.
const bookingRefPattern = "{ref:TRV-[0-9A-F]+}"

// RegisterRoutes wires every handler into the router. Public routes carry no
// authentication beyond per-booking access tokens; everything else goes
// through the staff JWT middleware.
func RegisterRoutes(
	router *mux.Router,
	authMW *AuthMiddleware,
	authHandler *AuthHandler,
	tripHandler *TripHandler,
	bookingHandler *BookingHandler,
	paymentHandler *PaymentHandler,
) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public: customer-facing catalogue, booking self-service and the
	// provider reconciliation surface.
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/trips", tripHandler.ListPublished).Methods(http.MethodGet)
	api.HandleFunc("/trips/{id:[0-9]+}", tripHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/trips/{id:[0-9]+}/bookings", bookingHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings/"+bookingRefPattern, bookingHandler.GetByRef).Methods(http.MethodGet)
	api.HandleFunc("/bookings/"+bookingRefPattern+"/pay", paymentHandler.CreateCheckout).Methods(http.MethodPost)
	api.HandleFunc("/bookings/"+bookingRefPattern+"/payment-status", paymentHandler.PollStatus).Methods(http.MethodGet)
	api.HandleFunc("/payments/webhook", paymentHandler.HandleWebhook).Methods(http.MethodPost)

	// Staff: trip management and the booking back office.
	api.HandleFunc("/admin/trips", authMW.RequireStaff(tripHandler.List)).Methods(http.MethodGet)
	api.HandleFunc("/trips", authMW.RequireStaff(tripHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/trips/{id:[0-9]+}", authMW.RequireStaff(tripHandler.Update)).Methods(http.MethodPut)
	api.HandleFunc("/trips/{id:[0-9]+}", authMW.RequireStaff(tripHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/trips/{id:[0-9]+}/schedule", authMW.RequireStaff(tripHandler.SetSchedule)).Methods(http.MethodPut)
	api.HandleFunc("/trips/{id:[0-9]+}/bookings", authMW.RequireStaff(bookingHandler.ListByTrip)).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", authMW.RequireStaff(bookingHandler.Get)).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", authMW.RequireStaff(bookingHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{id:[0-9]+}/confirm", authMW.RequireStaff(bookingHandler.Confirm)).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", authMW.RequireStaff(bookingHandler.Cancel)).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/payments", authMW.RequireStaff(paymentHandler.RecordManualPayment)).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/payments", authMW.RequireStaff(paymentHandler.ListPayments)).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/reminder", authMW.RequireStaff(paymentHandler.SendReminder)).Methods(http.MethodPost)

	// Admin only: staff account provisioning.
	api.HandleFunc("/staff", authMW.RequireAdmin(authHandler.CreateStaffUser)).Methods(http.MethodPost)
}
