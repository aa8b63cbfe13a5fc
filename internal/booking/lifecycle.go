package booking

import (
	"errors"

	"mesaYaBooking/internal/model"
)

// ErrIllegalTransition rejects a status change the lifecycle does not allow.
// Illegal transitions never have side effects and are never silently
// dropped; callers surface the error.
var ErrIllegalTransition = errors.New("illegal status transition")

// transitions lists the allowed lifecycle edges.  CANCELLED, COMPLETED and
// NO_SHOW are terminal: they appear in no value set, so nothing leaves them.
var transitions = map[model.ReservationStatus]map[model.ReservationStatus]bool{
	model.StatusPending: {
		model.StatusConfirmed: true, // staff approval
		model.StatusCancelled: true, // customer or staff cancellation
	},
	model.StatusConfirmed: {
		model.StatusCancelled: true, // customer or staff cancellation
		model.StatusCompleted: true, // post-visit, staff or sweep
		model.StatusNoShow:    true, // staff judgement after the window elapsed
	},
}

// InitialStatus returns the state a freshly admitted reservation starts in:
// PENDING when the restaurant requires confirmation, CONFIRMED otherwise.
func InitialStatus(needsConfirmation bool) model.ReservationStatus {
	if needsConfirmation {
		return model.StatusPending
	}
	return model.StatusConfirmed
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another.
func CanTransition(from, to model.ReservationStatus) bool {
	return transitions[from][to]
}

// Transition validates a status change and returns the new status, or
// ErrIllegalTransition when the edge does not exist.
func Transition(from, to model.ReservationStatus) (model.ReservationStatus, error) {
	if !CanTransition(from, to) {
		return from, ErrIllegalTransition
	}
	return to, nil
}
