package domain

import "errors"

var (
	// ErrCapacityExceeded means a seat reservation would push seats_reserved
	// past seats_total. The booking is not created.
	ErrCapacityExceeded = errors.New("trip capacity exceeded")

	// ErrDuplicateEntry means a ledger entry with the same external payment
	// id already exists for the booking. Callers treat it as a no-op.
	ErrDuplicateEntry = errors.New("duplicate payment ledger entry")

	// ErrProviderUnavailable means the payment provider could not be reached
	// or did not answer in time. Safe to retry; the ledger was not touched.
	ErrProviderUnavailable = errors.New("payment provider unavailable")

	// ErrInvalidSignature means a webhook body did not match its signature
	// header. The webhook is still acknowledged; this is logged for audit.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	ErrTripNotFound    = errors.New("trip not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUnauthorized    = errors.New("unauthorized")
)
