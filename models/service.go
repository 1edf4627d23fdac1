package models

// ServiceStatus is the catalog lifecycle state of an offering. Only active
// services can be booked; the catalog's own workflow is managed elsewhere.
type ServiceStatus string

const (
	ServiceActive   ServiceStatus = "active"
	ServiceArchived ServiceStatus = "archived"
	ServicePending  ServiceStatus = "pending"
)

// ServicePricing is the host's base price per booking.
type ServicePricing struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"`
}

// ServiceRating is the public aggregate over tourist-authored reviews.
type ServiceRating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Service is the catalog entry for a bookable offering. The booking core reads
// host_id/pricing/status and writes rating; everything else lives in the
// catalog service.
type Service struct {
	ID      string         `bson:"id" json:"id"`
	HostID  string         `bson:"host_id" json:"host_id"`
	Pricing ServicePricing `bson:"pricing" json:"pricing"`
	Status  ServiceStatus  `bson:"status" json:"status"`
	Rating  ServiceRating  `bson:"rating" json:"rating"`
}
