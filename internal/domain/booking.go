package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPartial  PaymentStatus = "PARTIAL"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusOverpaid PaymentStatus = "OVERPAID"
)

type InstallmentStatus string

const (
	InstallmentStatusUnpaid InstallmentStatus = "UNPAID"
	InstallmentStatusPaid   InstallmentStatus = "PAID"
)

type Booking struct {
	ID         int32  `json:"id"`
	TripID     int32  `json:"trip_id"`
	BookingRef string `json:"booking_ref"`
	// AccessToken is an opaque capability for unauthenticated self-service
	// access (customer checks status, pays online). Never listed publicly.
	AccessToken  string        `json:"-"`
	ContactName  string        `json:"contact_name"`
	ContactEmail string        `json:"contact_email"`
	ContactPhone string        `json:"contact_phone"`
	Status       BookingStatus `json:"status"`
	// Payment fields are derived from the payment ledger and written back
	// by the status evaluator only.
	PaymentStatus            PaymentStatus     `json:"payment_status"`
	FirstPaymentStatus       InstallmentStatus `json:"first_payment_status"`
	SecondPaymentStatus      InstallmentStatus `json:"second_payment_status"`
	SecondPaymentAmountCents int64             `json:"second_payment_amount_cents"`
	ReminderSentAt           *time.Time        `json:"reminder_sent_at,omitempty"`
	// ProviderPaymentID is the last payment id obtained from the external
	// provider, used by the poll path when the caller does not supply one.
	ProviderPaymentID string    `json:"provider_payment_id,omitempty"`
	CreatedOn         time.Time `json:"created_on"`
	UpdatedOn         time.Time `json:"updated_on"`

	Participants []Participant `json:"participants,omitempty"`
}

type Participant struct {
	ID        int32  `json:"id"`
	BookingID int32  `json:"booking_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}
