package domain

import "time"

type TripStatus string

const (
	TripStatusDraft     TripStatus = "DRAFT"
	TripStatusPublished TripStatus = "PUBLISHED"
	TripStatusArchived  TripStatus = "ARCHIVED"
)

type Trip struct {
	ID            int32  `json:"id"`
	Title         string `json:"title"`
	Destination   string `json:"destination"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	SeatsTotal    int32  `json:"seats_total"`
	SeatsReserved int32  `json:"seats_reserved"`
	// Per-participant unit price. A booking's total due is
	// PriceCents * participant count.
	PriceCents int64 `json:"price_cents"`
	// Split payment configuration. When enabled, the two percentages
	// must sum to 100.
	PaymentSplitEnabled       bool       `json:"payment_split_enabled"`
	PaymentSplitFirstPercent  int32      `json:"payment_split_first_percent"`
	PaymentSplitSecondPercent int32      `json:"payment_split_second_percent"`
	Status                    TripStatus `json:"status"`
	CreatedOn                 time.Time  `json:"created_on"`
	UpdatedOn                 time.Time  `json:"updated_on"`
}

// SeatsAvailable returns how many seats can still be reserved.
func (t *Trip) SeatsAvailable() int32 {
	return t.SeatsTotal - t.SeatsReserved
}

// PaymentScheduleItem configures one installment of a trip's split schedule.
// The percents of all items for a trip must sum to 100.
type PaymentScheduleItem struct {
	ID                int32  `json:"id"`
	TripID            int32  `json:"trip_id"`
	InstallmentNumber int32  `json:"installment_number"`
	Percent           int32  `json:"percent"`
	DueDate           string `json:"due_date"`
}
