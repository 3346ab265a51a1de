package service

import (
	"context"

	"tripdesk-backend/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.StaffUser, error)
	CreateStaffUser(ctx context.Context, email, name, password string, role domain.StaffRole) (*domain.StaffUser, error)
}

type TripService interface {
	CreateTrip(ctx context.Context, trip *domain.Trip) error
	GetTrip(ctx context.Context, id int32) (*domain.Trip, []domain.PaymentScheduleItem, error)
	UpdateTrip(ctx context.Context, trip *domain.Trip) error
	DeleteTrip(ctx context.Context, id int32) error
	ListTrips(ctx context.Context, status string, page, pageSize int32) ([]domain.Trip, int32, error)
	SetPaymentSchedule(ctx context.Context, tripID int32, items []domain.PaymentScheduleItem) error
}

type BookingService interface {
	// CreateBooking reserves one seat per participant at creation time and
	// fails with domain.ErrCapacityExceeded without creating anything when
	// the trip cannot hold them.
	CreateBooking(ctx context.Context, tripID int32, contactName, contactEmail, contactPhone string, participants []domain.Participant) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int32) (*domain.Booking, error)
	// GetBookingByRef is the unauthenticated self-service read, guarded by
	// the booking's access token.
	GetBookingByRef(ctx context.Context, ref, accessToken string) (*domain.Booking, error)
	ListBookings(ctx context.Context, tripID, page, pageSize int32) ([]domain.Booking, int32, error)
	ConfirmBooking(ctx context.Context, id int32) error
	// CancelBooking releases the booking's seats and keeps the row.
	CancelBooking(ctx context.Context, id int32) error
	// DeleteBooking removes the booking and releases its seats in one
	// transaction (unless they were already released by a cancellation).
	DeleteBooking(ctx context.Context, id int32) error
}

type PaymentService interface {
	RecordManualPayment(ctx context.Context, bookingID int32, amountCents int64, date string, method domain.PaymentMethod) (*domain.PaymentLedgerEntry, error)
	ListPayments(ctx context.Context, bookingID int32) ([]domain.PaymentLedgerEntry, error)

	// CreateCheckout opens a payment session with the provider for the
	// booking's next due amount and returns the redirect URL.
	CreateCheckout(ctx context.Context, bookingRef, accessToken, returnURL string) (string, error)

	// HandleWebhook processes one raw provider event. The returned error is
	// for logging and tests only: the HTTP handler acknowledges with 200 no
	// matter what, per the provider contract.
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error

	// PollPaymentStatus asks the provider for the current status of the
	// booking's payment and applies it to the ledger the same way a webhook
	// would. Guarded by the booking access token; provider failures surface
	// as domain.ErrProviderUnavailable.
	PollPaymentStatus(ctx context.Context, bookingRef, accessToken, paymentID string) (domain.PaymentStatus, string, error)
}

type ReminderService interface {
	// IsReminderDue reports whether the booking needs a second-installment
	// reminder: first installment paid, second unpaid and non-zero.
	IsReminderDue(booking *domain.Booking) bool
	// SendReminder sends the reminder for one booking and stamps
	// reminder_sent_at. Re-sending is allowed.
	SendReminder(ctx context.Context, bookingID int32) error
	// SendDueReminders sweeps bookings that are due and not yet stamped.
	SendDueReminders(ctx context.Context) (int, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error
	SendPaymentReceipt(ctx context.Context, booking *domain.Booking, trip *domain.Trip, amountCents int64) error
	SendSecondInstallmentReminder(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error
}
