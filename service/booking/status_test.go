package booking

import (
	"testing"

	"staybook/model"

	"github.com/stretchr/testify/require"
)

func TestTransition_Table(t *testing.T) {
	all := []model.BookingStatus{
		model.BookingPending, model.BookingApproved, model.BookingRejected,
		model.BookingCancelled, model.BookingCompleted,
	}
	events := []Event{EventApprove, EventReject, EventCancel, EventModify, EventComplete}

	want := map[model.BookingStatus]map[Event]model.BookingStatus{
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

	for _, from := range all {
		for _, ev := range events {
			next, err := Transition(from, ev)
			if exp, ok := want[from][ev]; ok {
				require.NoError(t, err, "%s/%s", from, ev)
				require.Equal(t, exp, next)
				continue
			}
			require.Error(t, err, "%s/%s", from, ev)
			require.Equal(t, ErrInvalidState, Code(err))
			require.Equal(t, from, next)
		}
	}
}

func TestTransition_TerminalStatuses(t *testing.T) {
	for _, st := range []model.BookingStatus{model.BookingCancelled, model.BookingCompleted} {
		require.Empty(t, transitions[st], st)
	}
	require.NotEmpty(t, transitions[model.BookingRejected])
}

func TestErrorHelpers(t *testing.T) {
	err := notAvailable(3)
	require.Equal(t, ErrPropertyNotAvailable, Code(err))
	require.Equal(t, 3, Conflicts(err))
	require.Equal(t, "Conflicts with 3 existing booking(s).", Message(err))

	require.Equal(t, ErrCode(""), Code(nil))
	require.Equal(t, 0, Conflicts(makeErr(ErrNotFound, "booking not found")))
}
