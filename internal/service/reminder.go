package service

import (
	"context"
	"errors"
	"time"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/logger"
	"tripdesk-backend/internal/repository"
)

type reminderService struct {
	bookingRepo repository.BookingRepository
	tripRepo    repository.TripRepository
	emailSvc    EmailService
}

func NewReminderService(
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	emailSvc EmailService,
) ReminderService {
	return &reminderService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		emailSvc:    emailSvc,
	}
}

// IsReminderDue is time-free and side-effect free: the second installment
// amount is only non-zero for split-enabled trips, so the booking row alone
// answers the question.
func (s *reminderService) IsReminderDue(booking *domain.Booking) bool {
	return booking.FirstPaymentStatus == domain.InstallmentStatusPaid &&
		booking.SecondPaymentStatus == domain.InstallmentStatusUnpaid &&
		booking.SecondPaymentAmountCents > 0 &&
		booking.Status != domain.BookingStatusCancelled
}

func (s *reminderService) SendReminder(ctx context.Context, bookingID int32) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !s.IsReminderDue(booking) {
		return errors.New("booking is not awaiting a second installment")
	}
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return err
	}
	if err := s.emailSvc.SendSecondInstallmentReminder(ctx, booking, trip); err != nil {
		return err
	}
	if err := s.bookingRepo.MarkReminderSent(ctx, booking.ID, time.Now()); err != nil {
		return err
	}
	logger.Info("Second installment reminder sent", "booking_ref", booking.BookingRef)
	return nil
}

// SendDueReminders is the sweep behind the daily cron job. Bookings already
// stamped are excluded by the query; explicit re-sends go through
// SendReminder.
func (s *reminderService) SendDueReminders(ctx context.Context) (int, error) {
	bookings, err := s.bookingRepo.ListDueReminders(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range bookings {
		booking := &bookings[i]
		trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
		if err != nil {
			logger.Error("Failed to load trip for reminder",
				"booking_ref", booking.BookingRef, "trip_id", booking.TripID, "error", err)
			continue
		}
		if err := s.emailSvc.SendSecondInstallmentReminder(ctx, booking, trip); err != nil {
			logger.Error("Failed to send installment reminder",
				"booking_ref", booking.BookingRef, "error", err)
			continue
		}
		if err := s.bookingRepo.MarkReminderSent(ctx, booking.ID, time.Now()); err != nil {
			logger.Error("Failed to stamp reminder",
				"booking_ref", booking.BookingRef, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
