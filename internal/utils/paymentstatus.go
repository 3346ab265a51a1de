package utils

import (
	"tripdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// PaymentEvaluation is the derived payment state of a booking. It is a pure
// function of the ledger sum and the trip's price/split configuration, never
// of any individual payment event, so duplicated or re-ordered provider
// notifications converge to the same result.
type PaymentEvaluation struct {
	TotalDueCents            int64
	TotalPaidCents           int64
	Status                   domain.PaymentStatus
	FirstPaymentStatus       domain.InstallmentStatus
	SecondPaymentStatus      domain.InstallmentStatus
	FirstDueCents            int64
	SecondPaymentAmountCents int64
}

// EvaluatePaymentStatus maps cumulative totals to a booking payment status.
//
//	totalPaid == 0        -> UNPAID
//	0 < totalPaid < due   -> PARTIAL
//	totalPaid == due      -> PAID
//	totalPaid > due       -> OVERPAID
//
// A zero total due (free trip) is immediately PAID. With split payments the
// first installment is satisfied once cumulative paid covers its share, the
// second once the whole total is covered; the second can therefore never be
// paid while the first is not.
func EvaluatePaymentStatus(totalDueCents, totalPaidCents int64, splitEnabled bool, firstPercent int32) PaymentEvaluation {
	eval := PaymentEvaluation{
		TotalDueCents:       totalDueCents,
		TotalPaidCents:      totalPaidCents,
		FirstPaymentStatus:  domain.InstallmentStatusUnpaid,
		SecondPaymentStatus: domain.InstallmentStatusUnpaid,
	}

	switch {
	case totalDueCents == 0:
		if totalPaidCents > 0 {
			eval.Status = domain.PaymentStatusOverpaid
		} else {
			eval.Status = domain.PaymentStatusPaid
		}
	case totalPaidCents == 0:
		eval.Status = domain.PaymentStatusUnpaid
	case totalPaidCents < totalDueCents:
		eval.Status = domain.PaymentStatusPartial
	case totalPaidCents == totalDueCents:
		eval.Status = domain.PaymentStatusPaid
	default:
		eval.Status = domain.PaymentStatusOverpaid
	}

	if !splitEnabled {
		return eval
	}

	firstDue := SplitFirstInstallment(totalDueCents, firstPercent)
	eval.FirstDueCents = firstDue
	eval.SecondPaymentAmountCents = totalDueCents - firstDue

	if totalPaidCents >= firstDue {
		eval.FirstPaymentStatus = domain.InstallmentStatusPaid
	}
	if totalPaidCents >= totalDueCents && totalDueCents > 0 {
		eval.SecondPaymentStatus = domain.InstallmentStatusPaid
	}
	return eval
}

// SplitFirstInstallment computes round(totalDue * percent / 100) in cents,
// rounding half away from zero. The second installment is always the exact
// remainder, so the two installments sum to the total.
func SplitFirstInstallment(totalDueCents int64, percent int32) int64 {
	return decimal.NewFromInt(totalDueCents).
		Mul(decimal.NewFromInt32(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
