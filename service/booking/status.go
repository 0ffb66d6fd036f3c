package booking

import "staybook/model"

// Event is a lifecycle action applied to a booking.
type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventModify   Event = "modify"
	EventComplete Event = "complete"
)

// transitions lists, per status, the events it accepts and the resulting status.
// Statuses with no entry are terminal.
var transitions = map[model.BookingStatus]map[Event]model.BookingStatus{
	model.BookingPending: {
		EventApprove: model.BookingApproved,
		EventReject:  model.BookingRejected,
		EventCancel:  model.BookingCancelled,
		EventModify:  model.BookingPending,
	},
	model.BookingApproved: {
		EventCancel:   model.BookingCancelled,
		EventModify:   model.BookingApproved,
		EventComplete: model.BookingCompleted,
	},
	model.BookingRejected: {
		EventCancel: model.BookingCancelled,
		EventModify: model.BookingRejected,
	},
}

// Transition is the booking state machine.
func Transition(from model.BookingStatus, ev Event) (model.BookingStatus, error) {
	if next, ok := transitions[from][ev]; ok {
		return next, nil
	}
	return from, makeErr(ErrInvalidState, "cannot %s booking with status: %s", ev, from)
}
