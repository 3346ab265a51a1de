package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/repository"
)

type tripRepository struct {
	db *sql.DB
}

func NewTripRepository(db *sql.DB) repository.TripRepository {
	return &tripRepository{db: db}
}

const tripColumns = `id, title, destination, start_date, end_date, seats_total, seats_reserved,
	price_cents, payment_split_enabled, payment_split_first_percent, payment_split_second_percent,
	status, created_on, updated_on`

func scanTrip(row interface{ Scan(...any) error }) (*domain.Trip, error) {
	var t domain.Trip
	err := row.Scan(&t.ID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate,
		&t.SeatsTotal, &t.SeatsReserved, &t.PriceCents, &t.PaymentSplitEnabled,
		&t.PaymentSplitFirstPercent, &t.PaymentSplitSecondPercent,
		&t.Status, &t.CreatedOn, &t.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `INSERT INTO trips (title, destination, start_date, end_date, seats_total, seats_reserved,
	            price_cents, payment_split_enabled, payment_split_first_percent, payment_split_second_percent,
	            status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10, NOW(), NOW()) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		trip.Title, trip.Destination, trip.StartDate, trip.EndDate, trip.SeatsTotal,
		trip.PriceCents, trip.PaymentSplitEnabled, trip.PaymentSplitFirstPercent,
		trip.PaymentSplitSecondPercent, trip.Status).Scan(&trip.ID)
}

func (r *tripRepository) GetByID(ctx context.Context, id int32) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTripNotFound
	}
	return trip, err
}

func (r *tripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	// seats_reserved is deliberately absent: only ReserveSeats and
	// ReleaseSeats may touch it.
	query := `UPDATE trips SET title = $2, destination = $3, start_date = $4, end_date = $5,
	            seats_total = $6, price_cents = $7, payment_split_enabled = $8,
	            payment_split_first_percent = $9, payment_split_second_percent = $10,
	            status = $11, updated_on = NOW()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, trip.ID,
		trip.Title, trip.Destination, trip.StartDate, trip.EndDate,
		trip.SeatsTotal, trip.PriceCents, trip.PaymentSplitEnabled,
		trip.PaymentSplitFirstPercent, trip.PaymentSplitSecondPercent, trip.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}

func (r *tripRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	return err
}

func (r *tripRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Trip, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + tripColumns + ` FROM trips
	          WHERE ($1 = '' OR status = $1)
	          ORDER BY start_date ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, status, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM trips WHERE ($1 = '' OR status = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, status).Scan(&count); err != nil {
		return nil, 0, err
	}
	return trips, count, nil
}

// ReserveSeats increments seats_reserved only when the bound check passes,
// in one conditional UPDATE. Concurrent reservations for the same trip race
// on the row, never on a stale read-modify-write from the application tier.
func (r *tripRepository) ReserveSeats(ctx context.Context, tripID, count int32) error {
	query := `UPDATE trips SET seats_reserved = seats_reserved + $2, updated_on = NOW()
	          WHERE id = $1 AND seats_reserved + $2 <= seats_total`
	res, err := r.db.ExecContext(ctx, query, tripID, count)
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	if n == 0 {
		return domain.ErrCapacityExceeded
	}
	return nil
}

// ReleaseSeats is a best-effort compensating action: it clamps at zero and
// never rejects an over-release.
func (r *tripRepository) ReleaseSeats(ctx context.Context, tripID, count int32) error {
	query := `UPDATE trips SET seats_reserved = GREATEST(seats_reserved - $2, 0), updated_on = NOW()
	          WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, tripID, count)
	if err != nil {
		return fmt.Errorf("release seats: %w", err)
	}
	return nil
}

func (r *tripRepository) ReplaceSchedule(ctx context.Context, tripID int32, items []domain.PaymentScheduleItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payment_schedule_items WHERE trip_id = $1`, tripID); err != nil {
		return err
	}
	for i := range items {
		item := &items[i]
		err := tx.QueryRowContext(ctx,
			`INSERT INTO payment_schedule_items (trip_id, installment_number, percent, due_date)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			tripID, item.InstallmentNumber, item.Percent, item.DueDate).Scan(&item.ID)
		if err != nil {
			return err
		}
		item.TripID = tripID
	}
	return tx.Commit()
}

func (r *tripRepository) GetSchedule(ctx context.Context, tripID int32) ([]domain.PaymentScheduleItem, error) {
	query := `SELECT id, trip_id, installment_number, percent, due_date
	          FROM payment_schedule_items WHERE trip_id = $1 ORDER BY installment_number`
	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.PaymentScheduleItem
	for rows.Next() {
		var it domain.PaymentScheduleItem
		if err := rows.Scan(&it.ID, &it.TripID, &it.InstallmentNumber, &it.Percent, &it.DueDate); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
