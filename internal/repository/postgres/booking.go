package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, trip_id, booking_ref, access_token, contact_name, contact_email, contact_phone,
	status, payment_status, first_payment_status, second_payment_status, second_payment_amount_cents,
	reminder_sent_at, COALESCE(provider_payment_id, ''), created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.TripID, &b.BookingRef, &b.AccessToken,
		&b.ContactName, &b.ContactEmail, &b.ContactPhone,
		&b.Status, &b.PaymentStatus, &b.FirstPaymentStatus, &b.SecondPaymentStatus,
		&b.SecondPaymentAmountCents, &b.ReminderSentAt, &b.ProviderPaymentID,
		&b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO bookings (trip_id, booking_ref, access_token, contact_name, contact_email, contact_phone,
	            status, payment_status, first_payment_status, second_payment_status, second_payment_amount_cents,
	            created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		booking.TripID, booking.BookingRef, booking.AccessToken,
		booking.ContactName, booking.ContactEmail, booking.ContactPhone,
		booking.Status, booking.PaymentStatus, booking.FirstPaymentStatus,
		booking.SecondPaymentStatus, booking.SecondPaymentAmountCents).Scan(&booking.ID)
	if err != nil {
		return err
	}

	for i := range booking.Participants {
		p := &booking.Participants[i]
		err := tx.QueryRowContext(ctx,
			`INSERT INTO participants (booking_id, full_name, email, birth_date)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			booking.ID, p.FullName, p.Email, p.BirthDate).Scan(&p.ID)
		if err != nil {
			return err
		}
		p.BookingID = booking.ID
	}
	return tx.Commit()
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadParticipants(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_ref = $1`
	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadParticipants(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) loadParticipants(ctx context.Context, booking *domain.Booking) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, full_name, COALESCE(email, ''), COALESCE(birth_date, '')
		 FROM participants WHERE booking_id = $1 ORDER BY id`, booking.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FullName, &p.Email, &p.BirthDate); err != nil {
			return err
		}
		booking.Participants = append(booking.Participants, p)
	}
	return rows.Err()
}

func (r *bookingRepository) ListByTrip(ctx context.Context, tripID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, tripID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookings WHERE trip_id = $1`, tripID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `UPDATE bookings SET contact_name = $2, contact_email = $3, contact_phone = $4,
	            status = $5, updated_on = NOW()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, booking.ID,
		booking.ContactName, booking.ContactEmail, booking.ContactPhone, booking.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// MarkCancelled flips the status with a single conditional update so that,
// of any number of racing cancellations, exactly one observes the flip.
func (r *bookingRepository) MarkCancelled(ctx context.Context, bookingID int32) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $2, updated_on = NOW()
		 WHERE id = $1 AND status <> $2`, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return true, nil
	}

	// Zero rows: either already cancelled or no such booking.
	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, domain.ErrBookingNotFound
	}
	return false, nil
}

// DeleteWithSeatRelease runs the seat release and the row deletes in one
// transaction. The released count is the booking's participant count; the
// clamped release guards a second delivery of the same delete.
func (r *bookingRepository) DeleteWithSeatRelease(ctx context.Context, bookingID int32, releaseSeats bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var tripID, participants int32
	err = tx.QueryRowContext(ctx,
		`SELECT b.trip_id, count(p.id) FROM bookings b
		 LEFT JOIN participants p ON p.booking_id = b.id
		 WHERE b.id = $1 GROUP BY b.trip_id`, bookingID).Scan(&tripID, &participants)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	if releaseSeats {
		_, err = tx.ExecContext(ctx,
			`UPDATE trips SET seats_reserved = GREATEST(seats_reserved - $2, 0), updated_on = NOW()
			 WHERE id = $1`, tripID, participants)
		if err != nil {
			return fmt.Errorf("release seats: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE booking_id = $1`, bookingID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM payment_ledger_entries WHERE booking_id = $1`, bookingID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *bookingRepository) CountParticipants(ctx context.Context, bookingID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM participants WHERE booking_id = $1`, bookingID).Scan(&count)
	return count, err
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus, first, second domain.InstallmentStatus, secondAmountCents int64) error {
	query := `UPDATE bookings SET payment_status = $2, first_payment_status = $3,
	            second_payment_status = $4, second_payment_amount_cents = $5, updated_on = NOW()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, bookingID, status, first, second, secondAmountCents)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) SetProviderPaymentID(ctx context.Context, bookingID int32, paymentID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET provider_payment_id = $2, updated_on = NOW() WHERE id = $1`,
		bookingID, paymentID)
	return err
}

func (r *bookingRepository) MarkReminderSent(ctx context.Context, bookingID int32, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET reminder_sent_at = $2, updated_on = NOW() WHERE id = $1`,
		bookingID, at)
	return err
}

func (r *bookingRepository) ListDueReminders(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE first_payment_status = 'PAID'
	            AND second_payment_status = 'UNPAID'
	            AND second_payment_amount_cents > 0
	            AND reminder_sent_at IS NULL
	            AND status <> 'CANCELLED'`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
