package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tripdesk-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()
	participants := []domain.Participant{{FullName: "Ada"}, {FullName: "Grace"}}

	t.Run("Success reserves seats and pre-evaluates split amounts", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		emailSvc := new(MockEmailService)
		svc := NewBookingService(bookingRepo, tripRepo, emailSvc)

		tripRepo.On("GetByID", ctx, int32(7)).Return(splitTrip(), nil)
		tripRepo.On("ReserveSeats", ctx, int32(7), int32(2)).Return(nil)
		bookingRepo.On("Create", ctx, mock.Anything).Return(nil)
		emailSvc.On("SendBookingConfirmation", ctx, mock.Anything, mock.Anything).Return(nil)

		booking, err := svc.CreateBooking(ctx, 7, "Ada Lovelace", "ada@example.com", "+48123123123", participants)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		assert.Equal(t, domain.PaymentStatusUnpaid, booking.PaymentStatus)
		assert.True(t, strings.HasPrefix(booking.BookingRef, "TRV-"))
		assert.NotEmpty(t, booking.AccessToken)
		// 40% of 2 x 1000.00 up front, the rest as the second installment.
		assert.Equal(t, int64(120000), booking.SecondPaymentAmountCents)
		tripRepo.AssertExpectations(t)
	})

	t.Run("Full trip fails before anything is created", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		svc := NewBookingService(bookingRepo, tripRepo, new(MockEmailService))

		tripRepo.On("GetByID", ctx, int32(7)).Return(splitTrip(), nil)
		tripRepo.On("ReserveSeats", ctx, int32(7), int32(2)).Return(domain.ErrCapacityExceeded)

		_, err := svc.CreateBooking(ctx, 7, "Ada", "ada@example.com", "", participants)
		assert.True(t, errors.Is(err, domain.ErrCapacityExceeded))
		bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Insert failure releases the reserved seats", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		svc := NewBookingService(bookingRepo, tripRepo, new(MockEmailService))

		tripRepo.On("GetByID", ctx, int32(7)).Return(splitTrip(), nil)
		tripRepo.On("ReserveSeats", ctx, int32(7), int32(2)).Return(nil)
		bookingRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
		tripRepo.On("ReleaseSeats", ctx, int32(7), int32(2)).Return(nil)

		_, err := svc.CreateBooking(ctx, 7, "Ada", "ada@example.com", "", participants)
		assert.Error(t, err)
		tripRepo.AssertCalled(t, "ReleaseSeats", ctx, int32(7), int32(2))
	})

	t.Run("Unpublished trip is not bookable", func(t *testing.T) {
		tripRepo := new(MockTripRepo)
		svc := NewBookingService(new(MockBookingRepo), tripRepo, new(MockEmailService))

		trip := splitTrip()
		trip.Status = domain.TripStatusDraft
		tripRepo.On("GetByID", ctx, int32(7)).Return(trip, nil)

		_, err := svc.CreateBooking(ctx, 7, "Ada", "ada@example.com", "", participants)
		assert.True(t, errors.Is(err, domain.ErrTripNotFound))
		tripRepo.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Free trip is immediately paid", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		emailSvc := new(MockEmailService)
		svc := NewBookingService(bookingRepo, tripRepo, emailSvc)

		trip := splitTrip()
		trip.PriceCents = 0
		trip.PaymentSplitEnabled = false
		tripRepo.On("GetByID", ctx, int32(7)).Return(trip, nil)
		tripRepo.On("ReserveSeats", ctx, int32(7), int32(2)).Return(nil)
		bookingRepo.On("Create", ctx, mock.Anything).Return(nil)
		emailSvc.On("SendBookingConfirmation", ctx, mock.Anything, mock.Anything).Return(nil)

		booking, err := svc.CreateBooking(ctx, 7, "Ada", "ada@example.com", "", participants)
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, booking.PaymentStatus)
	})

	t.Run("No participants is rejected", func(t *testing.T) {
		svc := NewBookingService(new(MockBookingRepo), new(MockTripRepo), new(MockEmailService))
		_, err := svc.CreateBooking(ctx, 7, "Ada", "ada@example.com", "", nil)
		assert.Error(t, err)
	})
}

func TestBookingService_GetBookingByRef(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid token", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := NewBookingService(bookingRepo, new(MockTripRepo), new(MockEmailService))
		bookingRepo.On("GetByRef", ctx, "TRV-9F3A2C1B").Return(splitBooking(), nil)

		booking, err := svc.GetBookingByRef(ctx, "TRV-9F3A2C1B", "tok-123")
		assert.NoError(t, err)
		assert.Equal(t, int32(3), booking.ID)
	})

	t.Run("Wrong token", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := NewBookingService(bookingRepo, new(MockTripRepo), new(MockEmailService))
		bookingRepo.On("GetByRef", ctx, "TRV-9F3A2C1B").Return(splitBooking(), nil)

		_, err := svc.GetBookingByRef(ctx, "TRV-9F3A2C1B", "stolen")
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("Empty token", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := NewBookingService(bookingRepo, new(MockTripRepo), new(MockEmailService))
		bookingRepo.On("GetByRef", ctx, "TRV-9F3A2C1B").Return(splitBooking(), nil)

		_, err := svc.GetBookingByRef(ctx, "TRV-9F3A2C1B", "")
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	})
}

func TestBookingService_ListBookings(t *testing.T) {
	ctx := context.Background()

	t.Run("Out-of-range pagination is clamped", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := NewBookingService(bookingRepo, new(MockTripRepo), new(MockEmailService))
		bookingRepo.On("ListByTrip", ctx, int32(7), int32(1), int32(20)).
			Return([]domain.Booking{}, int32(0), nil)

		_, _, err := svc.ListBookings(ctx, 7, 0, 0)
		assert.NoError(t, err)
		bookingRepo.AssertExpectations(t)
	})
}

func TestBookingService_CancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancellation releases seats", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		svc := NewBookingService(bookingRepo, tripRepo, new(MockEmailService))

		bookingRepo.On("GetByID", ctx, int32(3)).Return(splitBooking(), nil)
		bookingRepo.On("MarkCancelled", ctx, int32(3)).Return(true, nil)
		tripRepo.On("ReleaseSeats", ctx, int32(7), int32(2)).Return(nil)

		assert.NoError(t, svc.CancelBooking(ctx, 3))
		tripRepo.AssertExpectations(t)
	})

	t.Run("Cancelling twice does not release twice", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		svc := NewBookingService(bookingRepo, tripRepo, new(MockEmailService))

		booking := splitBooking()
		booking.Status = domain.BookingStatusCancelled
		bookingRepo.On("GetByID", ctx, int32(3)).Return(booking, nil)
		bookingRepo.On("MarkCancelled", ctx, int32(3)).Return(false, nil)

		assert.NoError(t, svc.CancelBooking(ctx, 3))
		tripRepo.AssertNotCalled(t, "ReleaseSeats", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Racing cancellations release once", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		svc := NewBookingService(bookingRepo, tripRepo, new(MockEmailService))

		// Both callers read the booking before either flipped it; only the
		// one whose conditional update lands gets to release.
		bookingRepo.On("GetByID", ctx, int32(3)).Return(splitBooking(), nil)
		bookingRepo.On("MarkCancelled", ctx, int32(3)).Return(true, nil).Once()
		bookingRepo.On("MarkCancelled", ctx, int32(3)).Return(false, nil)
		tripRepo.On("ReleaseSeats", ctx, int32(7), int32(2)).Return(nil)

		assert.NoError(t, svc.CancelBooking(ctx, 3))
		assert.NoError(t, svc.CancelBooking(ctx, 3))
		tripRepo.AssertNumberOfCalls(t, "ReleaseSeats", 1)
	})
}

func TestBookingService_DeleteBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Active booking releases seats on delete", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := NewBookingService(bookingRepo, new(MockTripRepo), new(MockEmailService))

		bookingRepo.On("GetByID", ctx, int32(3)).Return(splitBooking(), nil)
		bookingRepo.On("DeleteWithSeatRelease", ctx, int32(3), true).Return(nil)

		assert.NoError(t, svc.DeleteBooking(ctx, 3))
		bookingRepo.AssertExpectations(t)
	})

	t.Run("Cancelled booking does not release again", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		svc := NewBookingService(bookingRepo, new(MockTripRepo), new(MockEmailService))

		booking := splitBooking()
		booking.Status = domain.BookingStatusCancelled
		bookingRepo.On("GetByID", ctx, int32(3)).Return(booking, nil)
		bookingRepo.On("DeleteWithSeatRelease", ctx, int32(3), false).Return(nil)

		assert.NoError(t, svc.DeleteBooking(ctx, 3))
		bookingRepo.AssertExpectations(t)
	})
}
