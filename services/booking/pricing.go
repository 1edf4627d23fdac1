package booking

import (
	"math"

	"roamly/models"
)

// round2 rounds to two decimal places so Payment.Amount stays reconcilable
// with Booking.Pricing.TotalAmount.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputePricing derives the locked price breakdown for a booking: the
// platform fee is feePercent of the base amount, and the total is their sum.
func ComputePricing(baseAmount, feePercent float64, currency string) models.BookingPricing {
	fee := round2(baseAmount * feePercent / 100)
	return models.BookingPricing{
		BaseAmount:  round2(baseAmount),
		ServiceFee:  fee,
		TotalAmount: round2(baseAmount) + fee,
		Currency:    currency,
	}
}
