package repository

import (
	"context"
	"time"

	"tripdesk-backend/internal/domain"
)

type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id int32) (*domain.Trip, error)
	Update(ctx context.Context, trip *domain.Trip) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Trip, int32, error)

	// Seat ledger. ReserveSeats performs a single atomic conditional update
	// and returns domain.ErrCapacityExceeded when the trip cannot hold
	// count more seats. ReleaseSeats clamps at zero and never fails on
	// over-release.
	ReserveSeats(ctx context.Context, tripID, count int32) error
	ReleaseSeats(ctx context.Context, tripID, count int32) error

	// Payment schedule configuration.
	ReplaceSchedule(ctx context.Context, tripID int32, items []domain.PaymentScheduleItem) error
	GetSchedule(ctx context.Context, tripID int32) ([]domain.PaymentScheduleItem, error)
}

type BookingRepository interface {
	// Create inserts the booking and its participants in one transaction.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	GetByRef(ctx context.Context, ref string) (*domain.Booking, error)
	ListByTrip(ctx context.Context, tripID int32, page, pageSize int32) ([]domain.Booking, int32, error)
	Update(ctx context.Context, booking *domain.Booking) error

	// MarkCancelled flips the booking to CANCELLED only if it is not
	// cancelled yet, as a single conditional update. It reports whether this
	// call did the flip, so concurrent cancellations release seats exactly
	// once. Unknown bookings return domain.ErrBookingNotFound.
	MarkCancelled(ctx context.Context, bookingID int32) (bool, error)

	// DeleteWithSeatRelease removes the booking (and participants) and,
	// when releaseSeats is set, gives its seats back to the trip inside the
	// same transaction, so no reservation can interleave between the
	// release and the delete. Callers pass releaseSeats=false for bookings
	// whose seats were already released by a cancellation.
	DeleteWithSeatRelease(ctx context.Context, bookingID int32, releaseSeats bool) error

	CountParticipants(ctx context.Context, bookingID int32) (int32, error)

	// UpdatePaymentStatus persists evaluator output. Only the evaluator
	// writes these fields.
	UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus, first, second domain.InstallmentStatus, secondAmountCents int64) error
	SetProviderPaymentID(ctx context.Context, bookingID int32, paymentID string) error
	MarkReminderSent(ctx context.Context, bookingID int32, at time.Time) error

	// ListDueReminders returns split-enabled bookings with the first
	// installment paid, the second unpaid and no reminder stamped yet.
	ListDueReminders(ctx context.Context) ([]domain.Booking, error)
}

type PaymentRepository interface {
	// Append inserts a ledger entry. When the entry carries an external
	// payment id that already exists for the booking, it returns
	// domain.ErrDuplicateEntry and writes nothing.
	Append(ctx context.Context, entry *domain.PaymentLedgerEntry) error
	SumPaid(ctx context.Context, bookingID int32) (int64, error)
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.PaymentLedgerEntry, error)
}

type StaffRepository interface {
	Create(ctx context.Context, user *domain.StaffUser) error
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	GetByID(ctx context.Context, id int32) (*domain.StaffUser, error)
	List(ctx context.Context) ([]domain.StaffUser, error)
	Update(ctx context.Context, user *domain.StaffUser) error
}
