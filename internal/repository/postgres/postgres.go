package postgres

import (
	"database/sql"

	"tripdesk-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.TripRepository
	repository.BookingRepository
	repository.PaymentRepository
	repository.StaffRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		TripRepository:    NewTripRepository(db),
		BookingRepository: NewBookingRepository(db),
		PaymentRepository: NewPaymentRepository(db),
		StaffRepository:   NewStaffRepository(db),
	}
}
