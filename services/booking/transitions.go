package booking

import "roamly/models"

// transitionTable is the directed edge set of the booking lifecycle. Absent
// states are terminal.
var transitionTable = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingConfirmed, models.BookingRejected, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress: {models.BookingCompleted, models.BookingCancelled},
}

// hostForwardSource maps each host-drivable target status to the single state
// it may be driven from.
var hostForwardSource = map[models.BookingStatus]models.BookingStatus{
	models.BookingConfirmed:  models.BookingPending,
	models.BookingRejected:   models.BookingPending,
	models.BookingInProgress: models.BookingConfirmed,
	models.BookingCompleted:  models.BookingInProgress,
}

// transitionAllowed reports whether the edge from -> to is in the table.
func transitionAllowed(from, to models.BookingStatus) bool {
	for _, next := range transitionTable[from] {
		if next == to {
			return true
		}
	}
	return false
}
