package models

import "time"

// BookingStatus is the lifecycle state of a reservation.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingRejected   BookingStatus = "rejected"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingRejected, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// BookingStatuses lists every lifecycle state.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingRejected,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

// NonTerminalBookingStatuses returns the states a booking can still move out of.
func NonTerminalBookingStatuses() []BookingStatus {
	var out []BookingStatus
	for _, s := range BookingStatuses {
		if !s.Terminal() {
			out = append(out, s)
		}
	}
	return out
}

// TimeSlot is the wall-clock window reserved for a booking, e.g. "09:00"–"11:30".
type TimeSlot struct {
	StartTime string `bson:"start_time" json:"start_time"`
	EndTime   string `bson:"end_time" json:"end_time"`
}

// BookingPricing is the price breakdown locked in at booking time.
type BookingPricing struct {
	BaseAmount  float64 `bson:"base_amount" json:"base_amount"`
	ServiceFee  float64 `bson:"service_fee" json:"service_fee"`
	TotalAmount float64 `bson:"total_amount" json:"total_amount"`
	Currency    string  `bson:"currency" json:"currency"`
}

// Booking represents one reservation of one service by one tourist.
// HostID is denormalized from the service at creation time.
type Booking struct {
	ID                 string         `bson:"id" json:"id"`
	ServiceID          string         `bson:"service_id" json:"service_id"`
	TouristID          string         `bson:"tourist_id" json:"tourist_id"`
	HostID             string         `bson:"host_id" json:"host_id"`
	BookingDate        time.Time      `bson:"booking_date" json:"booking_date"`
	TimeSlot           TimeSlot       `bson:"time_slot" json:"time_slot"`
	NumberOfGuests     int            `bson:"number_of_guests" json:"number_of_guests"`
	Pricing            BookingPricing `bson:"pricing" json:"pricing"`
	Status             BookingStatus  `bson:"status" json:"status"`
	CancellationReason string         `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time     `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt          time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `bson:"updated_at" json:"updated_at"`
}
