package booking

import "ziyonstar/models"

type statusSet map[models.BookingStatus]struct{}

func setOf(statuses ...models.BookingStatus) statusSet {
	s := make(statusSet, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}
	return s
}

// transitions is the closed set of permitted status edges. Completed and Cancelled are terminal.
var transitions = map[models.BookingStatus]statusSet{
	models.StatusPendingAssignment: setOf(models.StatusPendingAcceptance, models.StatusCancelled),
	models.StatusAwaitingPayment:   setOf(models.StatusPendingAcceptance, models.StatusPendingAssignment, models.StatusCancelled),
	models.StatusPendingAcceptance: setOf(models.StatusAccepted, models.StatusRejected, models.StatusCancelled),
	models.StatusRejected: setOf(
		models.StatusPendingAcceptance,
		models.StatusPendingAssignment,
		models.StatusReassignRequested,
		models.StatusCancelled,
	),
	models.StatusReassignRequested: setOf(models.StatusPendingAcceptance, models.StatusPendingAssignment, models.StatusCancelled),
	models.StatusAccepted: setOf(
		models.StatusOnWay,
		models.StatusArrived,
		models.StatusInProgress,
		models.StatusRejected,
		models.StatusCancelled,
	),
	models.StatusOnWay:      setOf(models.StatusArrived, models.StatusInProgress, models.StatusCancelled),
	models.StatusArrived:    setOf(models.StatusInProgress, models.StatusCancelled),
	models.StatusInProgress: setOf(models.StatusPickedUp, models.StatusCompleted, models.StatusCancelled),
	models.StatusPickedUp:   setOf(models.StatusInProgress, models.StatusCompleted, models.StatusCancelled),
	models.StatusCompleted:  {},
	models.StatusCancelled:  {},
}

// apiSettable are the targets UpdateStatus accepts. Awaiting_Payment, Picked_Up and
// Reassign_Requested are reached only through their dedicated operations.
var apiSettable = setOf(
	models.StatusPendingAssignment,
	models.StatusPendingAcceptance,
	models.StatusAccepted,
	models.StatusOnWay,
	models.StatusArrived,
	models.StatusInProgress,
	models.StatusCompleted,
	models.StatusCancelled,
	models.StatusRejected,
)

// CanTransition reports whether the table permits from -> to.
func CanTransition(from, to models.BookingStatus) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// transition is the single authority on status edges.
func transition(b *models.Booking, to models.BookingStatus) error {
	if !to.Valid() {
		return invalidTransition("unknown status %q", to)
	}
	if !CanTransition(b.Status, to) {
		return invalidTransition("cannot move booking %s from %s to %s", b.ID, b.Status, to)
	}
	return nil
}

// IsTerminal reports whether no further transitions are possible from s.
func IsTerminal(s models.BookingStatus) bool {
	return len(transitions[s]) == 0
}
