package service

import (
	"context"
	"time"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/payments"

	"github.com/stretchr/testify/mock"
)

// MockTripRepo
type MockTripRepo struct {
	mock.Mock
}

func (m *MockTripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}
func (m *MockTripRepo) GetByID(ctx context.Context, id int32) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripRepo) Update(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}
func (m *MockTripRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTripRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Trip, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Trip), args.Get(1).(int32), args.Error(2)
}
func (m *MockTripRepo) ReserveSeats(ctx context.Context, tripID, count int32) error {
	args := m.Called(ctx, tripID, count)
	return args.Error(0)
}
func (m *MockTripRepo) ReleaseSeats(ctx context.Context, tripID, count int32) error {
	args := m.Called(ctx, tripID, count)
	return args.Error(0)
}
func (m *MockTripRepo) ReplaceSchedule(ctx context.Context, tripID int32, items []domain.PaymentScheduleItem) error {
	args := m.Called(ctx, tripID, items)
	return args.Error(0)
}
func (m *MockTripRepo) GetSchedule(ctx context.Context, tripID int32) ([]domain.PaymentScheduleItem, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).([]domain.PaymentScheduleItem), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByTrip(ctx context.Context, tripID int32, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, tripID, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) MarkCancelled(ctx context.Context, bookingID int32) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) DeleteWithSeatRelease(ctx context.Context, bookingID int32, releaseSeats bool) error {
	args := m.Called(ctx, bookingID, releaseSeats)
	return args.Error(0)
}
func (m *MockBookingRepo) CountParticipants(ctx context.Context, bookingID int32) (int32, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookingRepo) UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus, first, second domain.InstallmentStatus, secondAmountCents int64) error {
	args := m.Called(ctx, bookingID, status, first, second, secondAmountCents)
	return args.Error(0)
}
func (m *MockBookingRepo) SetProviderPaymentID(ctx context.Context, bookingID int32, paymentID string) error {
	args := m.Called(ctx, bookingID, paymentID)
	return args.Error(0)
}
func (m *MockBookingRepo) MarkReminderSent(ctx context.Context, bookingID int32, at time.Time) error {
	args := m.Called(ctx, bookingID, at)
	return args.Error(0)
}
func (m *MockBookingRepo) ListDueReminders(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Append(ctx context.Context, entry *domain.PaymentLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockPaymentRepo) SumPaid(ctx context.Context, bookingID int32) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.PaymentLedgerEntry, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.PaymentLedgerEntry), args.Error(1)
}

// MockProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreatePayment(ctx context.Context, req payments.CreatePaymentRequest) (*payments.CreatePaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CreatePaymentResult), args.Error(1)
}
func (m *MockProvider) GetPaymentStatus(ctx context.Context, paymentID string) (*payments.PaymentStatusResult, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.PaymentStatusResult), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error {
	args := m.Called(ctx, booking, trip)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReceipt(ctx context.Context, booking *domain.Booking, trip *domain.Trip, amountCents int64) error {
	args := m.Called(ctx, booking, trip, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendSecondInstallmentReminder(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error {
	args := m.Called(ctx, booking, trip)
	return args.Error(0)
}
