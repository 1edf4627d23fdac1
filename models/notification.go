package models

// NotificationPayload is the fire-and-forget message handed to the
// notification queue. Delivery is never awaited by the booking core.
type NotificationPayload struct {
	Kind        string            `json:"kind"`
	RecipientID string            `json:"recipient_id"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
}
