package service

import (
	"context"
	"errors"
	"fmt"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/repository"
)

type tripService struct {
	tripRepo repository.TripRepository
}

func NewTripService(tripRepo repository.TripRepository) TripService {
	return &tripService{tripRepo: tripRepo}
}

func validateTrip(trip *domain.Trip) error {
	if trip.Title == "" {
		return errors.New("trip title is required")
	}
	if trip.SeatsTotal < 0 {
		return errors.New("seats_total must not be negative")
	}
	if trip.PriceCents < 0 {
		return errors.New("price_cents must not be negative")
	}
	if trip.PaymentSplitEnabled {
		if trip.PaymentSplitFirstPercent < 0 || trip.PaymentSplitFirstPercent > 100 {
			return errors.New("first installment percent must be between 0 and 100")
		}
		if trip.PaymentSplitFirstPercent+trip.PaymentSplitSecondPercent != 100 {
			return errors.New("installment percents must sum to 100")
		}
	}
	return nil
}

func (s *tripService) CreateTrip(ctx context.Context, trip *domain.Trip) error {
	if err := validateTrip(trip); err != nil {
		return err
	}
	if trip.Status == "" {
		trip.Status = domain.TripStatusDraft
	}
	return s.tripRepo.Create(ctx, trip)
}

func (s *tripService) GetTrip(ctx context.Context, id int32) (*domain.Trip, []domain.PaymentScheduleItem, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	schedule, err := s.tripRepo.GetSchedule(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return trip, schedule, nil
}

func (s *tripService) UpdateTrip(ctx context.Context, trip *domain.Trip) error {
	if err := validateTrip(trip); err != nil {
		return err
	}
	current, err := s.tripRepo.GetByID(ctx, trip.ID)
	if err != nil {
		return err
	}
	// Capacity can only shrink down to what is already reserved.
	if trip.SeatsTotal < current.SeatsReserved {
		return fmt.Errorf("seats_total %d is below %d already reserved seats",
			trip.SeatsTotal, current.SeatsReserved)
	}
	return s.tripRepo.Update(ctx, trip)
}

func (s *tripService) DeleteTrip(ctx context.Context, id int32) error {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if trip.SeatsReserved > 0 {
		return errors.New("cannot delete a trip with active bookings")
	}
	return s.tripRepo.Delete(ctx, id)
}

func (s *tripService) ListTrips(ctx context.Context, status string, page, pageSize int32) ([]domain.Trip, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.tripRepo.List(ctx, status, page, pageSize)
}

func (s *tripService) SetPaymentSchedule(ctx context.Context, tripID int32, items []domain.PaymentScheduleItem) error {
	if _, err := s.tripRepo.GetByID(ctx, tripID); err != nil {
		return err
	}
	var total int32
	for _, item := range items {
		if item.Percent < 0 || item.Percent > 100 {
			return errors.New("installment percent must be between 0 and 100")
		}
		total += item.Percent
	}
	if len(items) > 0 && total != 100 {
		return fmt.Errorf("installment percents sum to %d, want 100", total)
	}
	return s.tripRepo.ReplaceSchedule(ctx, tripID, items)
}
