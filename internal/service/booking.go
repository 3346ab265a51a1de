package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/logger"
	"tripdesk-backend/internal/repository"
	"tripdesk-backend/internal/utils"

	"github.com/google/uuid"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	tripRepo    repository.TripRepository
	emailSvc    EmailService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		emailSvc:    emailSvc,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, tripID int32, contactName, contactEmail, contactPhone string, participants []domain.Participant) (*domain.Booking, error) {
	if len(participants) == 0 {
		return nil, errors.New("booking requires at least one participant")
	}
	if contactEmail == "" {
		return nil, errors.New("contact email is required")
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripStatusPublished {
		return nil, domain.ErrTripNotFound
	}
	if trip.PriceCents < 0 {
		return nil, errors.New("trip has an invalid price")
	}

	// Reserve first. If the insert below fails we compensate with a
	// clamped release; if the reserve fails nothing was created.
	count := int32(len(participants))
	if err := s.tripRepo.ReserveSeats(ctx, tripID, count); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		TripID:              tripID,
		BookingRef:          newBookingRef(),
		AccessToken:         uuid.New().String(),
		ContactName:         contactName,
		ContactEmail:        contactEmail,
		ContactPhone:        contactPhone,
		Status:              domain.BookingStatusConfirmed,
		PaymentStatus:       domain.PaymentStatusUnpaid,
		FirstPaymentStatus:  domain.InstallmentStatusUnpaid,
		SecondPaymentStatus: domain.InstallmentStatusUnpaid,
		Participants:        participants,
	}

	// A free trip is immediately paid; split amounts are fixed up front so
	// the reminder sweep can reason from the booking row alone.
	totalDue := trip.PriceCents * int64(count)
	eval := utils.EvaluatePaymentStatus(totalDue, 0, trip.PaymentSplitEnabled, trip.PaymentSplitFirstPercent)
	booking.PaymentStatus = eval.Status
	booking.SecondPaymentAmountCents = eval.SecondPaymentAmountCents

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if relErr := s.tripRepo.ReleaseSeats(ctx, tripID, count); relErr != nil {
			logger.Error("Failed to release seats after booking insert failure",
				"trip_id", tripID, "count", count, "error", relErr)
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.emailSvc.SendBookingConfirmation(ctx, booking, trip); err != nil {
		logger.Warn("Failed to send booking confirmation", "booking_ref", booking.BookingRef, "error", err)
	}

	logger.Info("Booking created",
		"booking_ref", booking.BookingRef, "trip_id", tripID, "participants", count)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int32) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) GetBookingByRef(ctx context.Context, ref, accessToken string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if accessToken == "" || booking.AccessToken != accessToken {
		return nil, domain.ErrUnauthorized
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, tripID, page, pageSize int32) ([]domain.Booking, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.bookingRepo.ListByTrip(ctx, tripID, page, pageSize)
}

func (s *bookingService) ConfirmBooking(ctx context.Context, id int32) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return errors.New("cannot confirm a cancelled booking")
	}
	booking.Status = domain.BookingStatusConfirmed
	return s.bookingRepo.Update(ctx, booking)
}

func (s *bookingService) CancelBooking(ctx context.Context, id int32) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// The conditional flip decides which of any racing cancellations owns
	// the seat release; the losers see cancelled=false and release nothing.
	cancelled, err := s.bookingRepo.MarkCancelled(ctx, id)
	if err != nil {
		return err
	}
	if !cancelled {
		return nil
	}
	if err := s.tripRepo.ReleaseSeats(ctx, booking.TripID, int32(len(booking.Participants))); err != nil {
		logger.Error("Failed to release seats on cancellation",
			"booking_id", id, "trip_id", booking.TripID, "error", err)
	}
	logger.Info("Booking cancelled", "booking_ref", booking.BookingRef)
	return nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, id int32) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Cancelled bookings already gave their seats back.
	releaseSeats := booking.Status != domain.BookingStatusCancelled
	if err := s.bookingRepo.DeleteWithSeatRelease(ctx, id, releaseSeats); err != nil {
		return err
	}
	logger.Info("Booking deleted", "booking_ref", booking.BookingRef, "seats_released", releaseSeats)
	return nil
}

// newBookingRef builds a human-readable unique code such as TRV-9F3A2C1B.
func newBookingRef() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "TRV-" + raw[:8]
}
