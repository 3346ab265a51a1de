package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/logger"
	"tripdesk-backend/internal/payments"
	"tripdesk-backend/internal/repository"
	"tripdesk-backend/internal/utils"
)

type paymentService struct {
	paymentRepo   repository.PaymentRepository
	bookingRepo   repository.BookingRepository
	tripRepo      repository.TripRepository
	provider      payments.Provider
	emailSvc      EmailService
	webhookSecret string
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	tripRepo repository.TripRepository,
	provider payments.Provider,
	emailSvc EmailService,
	webhookSecret string,
) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		bookingRepo:   bookingRepo,
		tripRepo:      tripRepo,
		provider:      provider,
		emailSvc:      emailSvc,
		webhookSecret: webhookSecret,
	}
}

func (s *paymentService) RecordManualPayment(ctx context.Context, bookingID int32, amountCents int64, date string, method domain.PaymentMethod) (*domain.PaymentLedgerEntry, error) {
	if amountCents <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	entry := &domain.PaymentLedgerEntry{
		BookingID:   booking.ID,
		AmountCents: amountCents,
		PaymentDate: date,
		Method:      method,
		Provenance:  "manual staff entry",
	}
	if err := s.paymentRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}
	if _, err := s.reevaluate(ctx, booking); err != nil {
		return nil, err
	}
	logger.Info("Manual payment recorded",
		"booking_ref", booking.BookingRef, "amount_cents", amountCents, "method", method)
	return entry, nil
}

func (s *paymentService) ListPayments(ctx context.Context, bookingID int32) ([]domain.PaymentLedgerEntry, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}

func (s *paymentService) CreateCheckout(ctx context.Context, bookingRef, accessToken, returnURL string) (string, error) {
	booking, err := s.bookingRepo.GetByRef(ctx, bookingRef)
	if err != nil {
		return "", err
	}
	if accessToken == "" || booking.AccessToken != accessToken {
		return "", domain.ErrUnauthorized
	}
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return "", err
	}
	paid, err := s.paymentRepo.SumPaid(ctx, booking.ID)
	if err != nil {
		return "", err
	}

	totalDue := trip.PriceCents * int64(len(booking.Participants))
	amount := totalDue - paid
	if trip.PaymentSplitEnabled && paid == 0 {
		amount = utils.SplitFirstInstallment(totalDue, trip.PaymentSplitFirstPercent)
	}
	if amount <= 0 {
		return "", errors.New("booking has no outstanding balance")
	}

	result, err := s.provider.CreatePayment(ctx, payments.CreatePaymentRequest{
		AmountCents: amount,
		ExternalID:  booking.BookingRef,
		Description: fmt.Sprintf("Trip booking %s - %s", booking.BookingRef, trip.Title),
		BuyerEmail:  booking.ContactEmail,
		ReturnURL:   returnURL,
	})
	if err != nil {
		return "", err
	}
	if err := s.bookingRepo.SetProviderPaymentID(ctx, booking.ID, result.PaymentID); err != nil {
		return "", err
	}
	logger.Info("Checkout created",
		"booking_ref", booking.BookingRef, "payment_id", result.PaymentID, "amount_cents", amount)
	return result.RedirectURL, nil
}

// HandleWebhook walks the event state machine: signature check, booking
// resolution, then status application. Every exit is acknowledged by the
// caller with 200; the returned error only feeds the audit log, so invalid
// signatures and unknown bookings never trigger provider redelivery storms.
func (s *paymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !payments.VerifySignature(rawBody, signature, s.webhookSecret) {
		logger.Warn("Webhook signature verification failed", "body_len", len(rawBody))
		return domain.ErrInvalidSignature
	}

	var event payments.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		logger.Warn("Webhook payload malformed", "error", err)
		return fmt.Errorf("parse webhook payload: %w", err)
	}

	booking, err := s.bookingRepo.GetByRef(ctx, event.ExternalID)
	if err != nil {
		logger.Warn("Webhook for unknown booking",
			"external_id", event.ExternalID, "payment_id", event.PaymentID)
		return err
	}

	if !payments.IsSuccessful(event.Status) {
		// Pending, rejected and expired events carry no money. A later
		// redelivery or a poll will observe the terminal success if it
		// ever happens.
		logger.Debug("Webhook status ignored",
			"booking_ref", booking.BookingRef, "payment_id", event.PaymentID, "status", event.Status)
		return nil
	}

	amountCents, err := event.AmountCents()
	if err != nil {
		logger.Warn("Webhook amount malformed", "payment_id", event.PaymentID, "error", err)
		return fmt.Errorf("parse webhook amount: %w", err)
	}

	if err := s.applyConfirmedPayment(ctx, booking, event.PaymentID, amountCents, "provider webhook"); err != nil {
		return err
	}
	return nil
}

func (s *paymentService) PollPaymentStatus(ctx context.Context, bookingRef, accessToken, paymentID string) (domain.PaymentStatus, string, error) {
	booking, err := s.bookingRepo.GetByRef(ctx, bookingRef)
	if err != nil {
		return "", "", err
	}
	if accessToken == "" || booking.AccessToken != accessToken {
		return "", "", domain.ErrUnauthorized
	}
	if paymentID == "" {
		paymentID = booking.ProviderPaymentID
	}
	if paymentID == "" {
		return "", "", fmt.Errorf("booking %s has no provider payment to poll", bookingRef)
	}

	// The ledger is only touched after a fully parsed successful provider
	// response; unlike the webhook path a failure here is surfaced because
	// a live caller is waiting.
	status, err := s.provider.GetPaymentStatus(ctx, paymentID)
	if err != nil {
		return "", "", err
	}

	if !payments.IsSuccessful(status.Status) {
		return booking.PaymentStatus, status.Status, nil
	}

	if err := s.applyConfirmedPayment(ctx, booking, status.PaymentID, status.AmountCents, "provider poll"); err != nil {
		return "", "", err
	}
	updated, err := s.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		return "", "", err
	}
	return updated.PaymentStatus, status.Status, nil
}

// applyConfirmedPayment is the single idempotent ingestion point shared by
// the webhook and poll paths. A duplicate external payment id is a
// successful no-op; the evaluator runs either way so derived status is
// always a function of ledger contents.
func (s *paymentService) applyConfirmedPayment(ctx context.Context, booking *domain.Booking, paymentID string, amountCents int64, provenance string) error {
	entry := &domain.PaymentLedgerEntry{
		BookingID:         booking.ID,
		AmountCents:       amountCents,
		PaymentDate:       time.Now().Format("2006-01-02"),
		Method:            domain.PaymentMethodOnline,
		Provenance:        provenance,
		ExternalPaymentID: &paymentID,
	}
	err := s.paymentRepo.Append(ctx, entry)
	switch {
	case errors.Is(err, domain.ErrDuplicateEntry):
		logger.Debug("Duplicate payment event skipped",
			"booking_ref", booking.BookingRef, "payment_id", paymentID)
	case err != nil:
		return fmt.Errorf("append ledger entry: %w", err)
	default:
		logger.Info("Payment recorded",
			"booking_ref", booking.BookingRef, "payment_id", paymentID,
			"amount_cents", amountCents, "provenance", provenance)
	}

	if err := s.bookingRepo.SetProviderPaymentID(ctx, booking.ID, paymentID); err != nil {
		logger.Warn("Failed to store provider payment id",
			"booking_ref", booking.BookingRef, "error", err)
	}

	wasPaid := booking.PaymentStatus == domain.PaymentStatusPaid || booking.PaymentStatus == domain.PaymentStatusOverpaid
	eval, err := s.reevaluate(ctx, booking)
	if err != nil {
		return err
	}

	if !wasPaid && eval.Status == domain.PaymentStatusPaid {
		trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
		if err == nil {
			if err := s.emailSvc.SendPaymentReceipt(ctx, booking, trip, eval.TotalPaidCents); err != nil {
				logger.Warn("Failed to send payment receipt",
					"booking_ref", booking.BookingRef, "error", err)
			}
		}
	}
	return nil
}

// reevaluate recomputes a booking's payment status from cumulative ledger
// totals and persists the result. It runs after every ledger append.
func (s *paymentService) reevaluate(ctx context.Context, booking *domain.Booking) (*utils.PaymentEvaluation, error) {
	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, err
	}
	count, err := s.bookingRepo.CountParticipants(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	paid, err := s.paymentRepo.SumPaid(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	totalDue := trip.PriceCents * int64(count)
	eval := utils.EvaluatePaymentStatus(totalDue, paid, trip.PaymentSplitEnabled, trip.PaymentSplitFirstPercent)
	err = s.bookingRepo.UpdatePaymentStatus(ctx, booking.ID,
		eval.Status, eval.FirstPaymentStatus, eval.SecondPaymentStatus, eval.SecondPaymentAmountCents)
	if err != nil {
		return nil, fmt.Errorf("persist payment status: %w", err)
	}
	return &eval, nil
}
