package handlers

import (
	"roamly/services/booking"
	"roamly/services/payment"
	"roamly/services/review"
)

// HandlerBundle groups the services the HTTP layer dispatches to.
type HandlerBundle struct {
	BookingSvc booking.BookingService
	EscrowSvc  payment.EscrowService
	ReviewSvc  review.ReviewService
}
