package notification

import "roamly/models"

// NotificationService is the fire-and-forget side channel. Nothing in the
// booking core awaits delivery; Enqueue errors are logged by callers, never
// propagated.
type NotificationService interface {
	Enqueue(payload models.NotificationPayload) error
}
