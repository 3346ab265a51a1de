package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodOnline   PaymentMethod = "ONLINE"
)

// PaymentLedgerEntry is one recorded payment against a booking. Entries are
// append-only: no updates or deletes in normal operation. Amounts are integer
// cents to avoid floating-point rounding in financial sums.
type PaymentLedgerEntry struct {
	ID          int32         `json:"id"`
	BookingID   int32         `json:"booking_id"`
	AmountCents int64         `json:"amount_cents"`
	PaymentDate string        `json:"payment_date"`
	Method      PaymentMethod `json:"method"`
	// Provenance is a free-form origin note ("manual entry by staff",
	// "provider webhook", ...). Purely informational.
	Provenance string `json:"provenance"`
	// ExternalPaymentID is the provider's payment identifier when the entry
	// came from the provider. A unique constraint on
	// (booking_id, external_payment_id) makes duplicate provider events a
	// database-enforced no-op.
	ExternalPaymentID *string   `json:"external_payment_id,omitempty"`
	CreatedOn         time.Time `json:"created_on"`
}
