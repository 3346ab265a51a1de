package service

import (
	"context"
	"errors"
	"testing"

	"tripdesk-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func reminderBooking() *domain.Booking {
	b := splitBooking()
	b.PaymentStatus = domain.PaymentStatusPartial
	b.FirstPaymentStatus = domain.InstallmentStatusPaid
	b.SecondPaymentStatus = domain.InstallmentStatusUnpaid
	return b
}

func TestReminderService_IsReminderDue(t *testing.T) {
	svc := NewReminderService(new(MockBookingRepo), new(MockTripRepo), new(MockEmailService))

	t.Run("Due when first paid and second open", func(t *testing.T) {
		assert.True(t, svc.IsReminderDue(reminderBooking()))
	})

	t.Run("Not due before first installment", func(t *testing.T) {
		b := reminderBooking()
		b.FirstPaymentStatus = domain.InstallmentStatusUnpaid
		assert.False(t, svc.IsReminderDue(b))
	})

	t.Run("Not due when fully paid", func(t *testing.T) {
		b := reminderBooking()
		b.SecondPaymentStatus = domain.InstallmentStatusPaid
		assert.False(t, svc.IsReminderDue(b))
	})

	t.Run("Not due without a split amount", func(t *testing.T) {
		b := reminderBooking()
		b.SecondPaymentAmountCents = 0
		assert.False(t, svc.IsReminderDue(b))
	})

	t.Run("Not due for cancelled bookings", func(t *testing.T) {
		b := reminderBooking()
		b.Status = domain.BookingStatusCancelled
		assert.False(t, svc.IsReminderDue(b))
	})
}

func TestReminderService_SendReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends and stamps", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		emailSvc := new(MockEmailService)
		svc := NewReminderService(bookingRepo, tripRepo, emailSvc)

		bookingRepo.On("GetByID", ctx, int32(3)).Return(reminderBooking(), nil)
		tripRepo.On("GetByID", ctx, int32(7)).Return(splitTrip(), nil)
		emailSvc.On("SendSecondInstallmentReminder", ctx, mock.Anything, mock.Anything).Return(nil)
		bookingRepo.On("MarkReminderSent", ctx, int32(3), mock.Anything).Return(nil)

		assert.NoError(t, svc.SendReminder(ctx, 3))
		bookingRepo.AssertExpectations(t)
		emailSvc.AssertExpectations(t)
	})

	t.Run("Refuses bookings that are not due", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		emailSvc := new(MockEmailService)
		svc := NewReminderService(bookingRepo, new(MockTripRepo), emailSvc)

		bookingRepo.On("GetByID", ctx, int32(3)).Return(splitBooking(), nil)

		assert.Error(t, svc.SendReminder(ctx, 3))
		emailSvc.AssertNotCalled(t, "SendSecondInstallmentReminder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReminderService_SendDueReminders(t *testing.T) {
	ctx := context.Background()

	t.Run("Sweeps every due booking", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		emailSvc := new(MockEmailService)
		svc := NewReminderService(bookingRepo, tripRepo, emailSvc)

		first := reminderBooking()
		second := reminderBooking()
		second.ID = 4
		second.BookingRef = "TRV-0BADF00D"
		bookingRepo.On("ListDueReminders", ctx).Return([]domain.Booking{*first, *second}, nil)
		tripRepo.On("GetByID", ctx, int32(7)).Return(splitTrip(), nil)
		emailSvc.On("SendSecondInstallmentReminder", ctx, mock.Anything, mock.Anything).Return(nil)
		bookingRepo.On("MarkReminderSent", ctx, int32(3), mock.Anything).Return(nil)
		bookingRepo.On("MarkReminderSent", ctx, int32(4), mock.Anything).Return(nil)

		sent, err := svc.SendDueReminders(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, sent)
	})

	t.Run("One failing email does not stop the sweep", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		tripRepo := new(MockTripRepo)
		emailSvc := new(MockEmailService)
		svc := NewReminderService(bookingRepo, tripRepo, emailSvc)

		first := reminderBooking()
		second := reminderBooking()
		second.ID = 4
		bookingRepo.On("ListDueReminders", ctx).Return([]domain.Booking{*first, *second}, nil)
		tripRepo.On("GetByID", ctx, int32(7)).Return(splitTrip(), nil)
		emailSvc.On("SendSecondInstallmentReminder", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.ID == 3
		}), mock.Anything).Return(errors.New("smtp down"))
		emailSvc.On("SendSecondInstallmentReminder", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.ID == 4
		}), mock.Anything).Return(nil)
		bookingRepo.On("MarkReminderSent", ctx, int32(4), mock.Anything).Return(nil)

		sent, err := svc.SendDueReminders(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		bookingRepo.AssertNotCalled(t, "MarkReminderSent", ctx, int32(3), mock.Anything)
	})
}
