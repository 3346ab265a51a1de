package postgres

import (
	"context"
	"database/sql"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

// Append writes one immutable ledger entry. Entries carrying an external
// payment id hit the unique index on (booking_id, external_payment_id); the
// ON CONFLICT clause turns a concurrent duplicate delivery into zero rows
// inserted, reported as domain.ErrDuplicateEntry. The check-then-insert is a
// single statement, so two racing deliveries cannot both append.
func (r *paymentRepository) Append(ctx context.Context, entry *domain.PaymentLedgerEntry) error {
	query := `INSERT INTO payment_ledger_entries
	            (booking_id, amount_cents, payment_date, method, provenance, external_payment_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())
	          ON CONFLICT (booking_id, external_payment_id) DO NOTHING
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		entry.BookingID, entry.AmountCents, entry.PaymentDate, entry.Method,
		entry.Provenance, entry.ExternalPaymentID).Scan(&entry.ID)
	if err == sql.ErrNoRows {
		return domain.ErrDuplicateEntry
	}
	return err
}

func (r *paymentRepository) SumPaid(ctx context.Context, bookingID int32) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM payment_ledger_entries WHERE booking_id = $1`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(&sum)
	return sum, err
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.PaymentLedgerEntry, error) {
	query := `SELECT id, booking_id, amount_cents, payment_date, method, COALESCE(provenance, ''),
	            external_payment_id, created_on
	          FROM payment_ledger_entries WHERE booking_id = $1 ORDER BY created_on, id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.PaymentLedgerEntry
	for rows.Next() {
		var e domain.PaymentLedgerEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.AmountCents, &e.PaymentDate,
			&e.Method, &e.Provenance, &e.ExternalPaymentID, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
