package postgres

import (
	"context"
	"errors"
	"testing"

	"tripdesk-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPaymentRepository_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentRepository(db)
	ctx := context.Background()
	paymentID := "PAY-1"

	t.Run("Success", func(t *testing.T) {
		entry := &domain.PaymentLedgerEntry{
			BookingID:         3,
			AmountCents:       80000,
			PaymentDate:       "2026-08-01",
			Method:            domain.PaymentMethodOnline,
			Provenance:        "provider webhook",
			ExternalPaymentID: &paymentID,
		}

		mock.ExpectQuery("INSERT INTO payment_ledger_entries").
			WithArgs(entry.BookingID, entry.AmountCents, entry.PaymentDate, entry.Method, entry.Provenance, entry.ExternalPaymentID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		err := repo.Append(ctx, entry)
		assert.NoError(t, err)
		assert.Equal(t, int32(11), entry.ID)
	})

	t.Run("Duplicate external payment id inserts nothing", func(t *testing.T) {
		entry := &domain.PaymentLedgerEntry{
			BookingID:         3,
			AmountCents:       80000,
			PaymentDate:       "2026-08-01",
			Method:            domain.PaymentMethodOnline,
			Provenance:        "provider webhook",
			ExternalPaymentID: &paymentID,
		}

		// ON CONFLICT DO NOTHING returns zero rows for the duplicate.
		mock.ExpectQuery("INSERT INTO payment_ledger_entries").
			WithArgs(entry.BookingID, entry.AmountCents, entry.PaymentDate, entry.Method, entry.Provenance, entry.ExternalPaymentID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := repo.Append(ctx, entry)
		assert.True(t, errors.Is(err, domain.ErrDuplicateEntry))
	})
}

func TestPaymentRepository_SumPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentRepository(db)
	ctx := context.Background()

	t.Run("Sums the ledger", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount_cents\\), 0\\) FROM payment_ledger_entries").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(130000))

		sum, err := repo.SumPaid(ctx, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(130000), sum)
	})

	t.Run("Empty ledger sums to zero", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount_cents\\), 0\\) FROM payment_ledger_entries").
			WithArgs(int32(4)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		sum, err := repo.SumPaid(ctx, 4)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})
}
