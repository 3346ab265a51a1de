// Package payments talks to the external payment provider: outbound payment
// creation and status polling, plus authenticity checks for inbound webhooks.
package payments

import "context"

// Provider payment statuses as reported by the gateway. CONFIRMED and
// COMPLETED are the terminal successful states; everything else never
// mutates the ledger.
const (
	StatusNew       = "NEW"
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusRejected  = "REJECTED"
	StatusExpired   = "EXPIRED"
)

// IsSuccessful reports whether a provider status means the money is
// collected.
func IsSuccessful(status string) bool {
	return status == StatusConfirmed || status == StatusCompleted
}

// CreatePaymentRequest asks the provider to open a payment session.
// ExternalID carries our booking reference so webhook events can be
// correlated back to the booking.
type CreatePaymentRequest struct {
	AmountCents int64
	Currency    string
	ExternalID  string
	Description string
	BuyerEmail  string
	ReturnURL   string
}

// CreatePaymentResult is the provider's answer: its payment id and the URL
// the customer is redirected to.
type CreatePaymentResult struct {
	PaymentID   string
	RedirectURL string
}

// PaymentStatusResult is the provider's authoritative view of a payment.
type PaymentStatusResult struct {
	PaymentID   string
	Status      string
	AmountCents int64
}

// Provider is the narrow contract the reconciliation core needs from the
// gateway. Network failures are reported as domain.ErrProviderUnavailable.
type Provider interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResult, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (*PaymentStatusResult, error)
}
