package postgres

import (
	"context"
	"errors"
	"testing"

	"tripdesk-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestBookingRepository_DeleteWithSeatRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Releases seats and deletes in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT b.trip_id, count\\(p.id\\) FROM bookings b").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "count"}).AddRow(7, 2))
		mock.ExpectExec("UPDATE trips SET seats_reserved = GREATEST\\(seats_reserved - \\$2, 0\\)").
			WithArgs(int32(7), int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM participants WHERE booking_id = \\$1").
			WithArgs(int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM payment_ledger_entries WHERE booking_id = \\$1").
			WithArgs(int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM bookings WHERE id = \\$1").
			WithArgs(int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteWithSeatRelease(ctx, 3, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips the release when seats were already given back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT b.trip_id, count\\(p.id\\) FROM bookings b").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "count"}).AddRow(7, 2))
		mock.ExpectExec("DELETE FROM participants WHERE booking_id = \\$1").
			WithArgs(int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM payment_ledger_entries WHERE booking_id = \\$1").
			WithArgs(int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM bookings WHERE id = \\$1").
			WithArgs(int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteWithSeatRelease(ctx, 3, false))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown booking rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT b.trip_id, count\\(p.id\\) FROM bookings b").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "count"}))
		mock.ExpectRollback()

		err := repo.DeleteWithSeatRelease(ctx, 99, true)
		assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_MarkCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("First cancellation flips the row", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status = \\$2, updated_on = NOW\\(\\)\\s+WHERE id = \\$1 AND status <> \\$2").
			WithArgs(int32(3), domain.BookingStatusCancelled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		cancelled, err := repo.MarkCancelled(ctx, 3)
		assert.NoError(t, err)
		assert.True(t, cancelled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already cancelled booking does not flip again", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status = \\$2, updated_on = NOW\\(\\)\\s+WHERE id = \\$1 AND status <> \\$2").
			WithArgs(int32(3), domain.BookingStatusCancelled).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		cancelled, err := repo.MarkCancelled(ctx, 3)
		assert.NoError(t, err)
		assert.False(t, cancelled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown booking", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status = \\$2, updated_on = NOW\\(\\)\\s+WHERE id = \\$1 AND status <> \\$2").
			WithArgs(int32(99), domain.BookingStatusCancelled).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.MarkCancelled(ctx, 99)
		assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdatePaymentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET payment_status = \\$2").
			WithArgs(int32(3), domain.PaymentStatusPartial, domain.InstallmentStatusPaid, domain.InstallmentStatusUnpaid, int64(120000)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePaymentStatus(ctx, 3,
			domain.PaymentStatusPartial, domain.InstallmentStatusPaid, domain.InstallmentStatusUnpaid, 120000)
		assert.NoError(t, err)
	})

	t.Run("Unknown booking", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET payment_status = \\$2").
			WithArgs(int32(99), domain.PaymentStatusPaid, domain.InstallmentStatusPaid, domain.InstallmentStatusPaid, int64(0)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdatePaymentStatus(ctx, 99,
			domain.PaymentStatusPaid, domain.InstallmentStatusPaid, domain.InstallmentStatusPaid, 0)
		assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
	})
}
