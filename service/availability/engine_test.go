package availability_test

import (
	"testing"
	"time"

	"staybook/model"
	"staybook/service/availability"

	"github.com/stretchr/testify/require"
)

func day(d int) model.Date { return model.NewDate(2030, time.January, d) }

func booking(id, propertyID int64, in, out int, st model.BookingStatus) model.Booking {
	return model.Booking{ID: id, PropertyID: propertyID, CheckIn: day(in), CheckOut: day(out), Status: st}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut int
		want                 bool
	}{
		{"disjoint before", 1, 5, 10, 15, false},
		{"disjoint after", 20, 25, 10, 15, false},
		{"exact", 10, 15, 10, 15, true},
		{"partial start", 8, 12, 10, 15, true},
		{"partial end", 12, 18, 10, 15, true},
		{"inside", 11, 13, 10, 15, true},
		{"enclosing", 5, 20, 10, 15, true},
		{"back to back after", 15, 20, 10, 15, false},
		{"back to back before", 5, 10, 10, 15, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := availability.Overlaps(day(tc.aIn), day(tc.aOut), day(tc.bIn), day(tc.bOut))
			require.Equal(t, tc.want, got)
			// symmetric
			require.Equal(t, tc.want, availability.Overlaps(day(tc.bIn), day(tc.bOut), day(tc.aIn), day(tc.aOut)))
		})
	}
}

func TestCheck_NoBookings(t *testing.T) {
	res := availability.Check(nil, day(10), day(15), 0)
	require.True(t, res.Available)
	require.Zero(t, res.ConflictCount())
}

func TestCheck_ReportsEveryConflict(t *testing.T) {
	existing := []model.Booking{
		booking(1, 7, 10, 12, model.BookingPending),
		booking(2, 7, 12, 14, model.BookingApproved),
		booking(3, 7, 20, 22, model.BookingApproved),
	}
	res := availability.Check(existing, day(11), day(13), 0)
	require.False(t, res.Available)
	require.Equal(t, 2, res.ConflictCount())
	require.Equal(t, int64(1), res.Conflicts[0].ID)
	require.Equal(t, int64(2), res.Conflicts[1].ID)
}

func TestCheck_InactiveStatusesNeverBlock(t *testing.T) {
	existing := []model.Booking{
		booking(1, 7, 10, 15, model.BookingCancelled),
		booking(2, 7, 10, 15, model.BookingRejected),
	}
	res := availability.Check(existing, day(10), day(15), 0)
	require.True(t, res.Available)
}

func TestCheck_CompletedStillBlocks(t *testing.T) {
	existing := []model.Booking{booking(1, 7, 10, 15, model.BookingCompleted)}
	require.False(t, availability.Check(existing, day(14), day(16), 0).Available)
}

func TestCheck_ExcludesSelf(t *testing.T) {
	existing := []model.Booking{booking(9, 7, 10, 15, model.BookingPending)}
	require.False(t, availability.Check(existing, day(12), day(17), 0).Available)
	require.True(t, availability.Check(existing, day(12), day(17), 9).Available)
}

func TestCheck_DoesNotMutateInput(t *testing.T) {
	existing := []model.Booking{booking(1, 7, 10, 15, model.BookingApproved)}
	snapshot := existing[0]
	_ = availability.Check(existing, day(10), day(15), 0)
	require.Equal(t, snapshot, existing[0])
}

func TestAvailableProperties(t *testing.T) {
	props := []model.Property{{ID: 1}, {ID: 2}, {ID: 3}}
	bookings := []model.Booking{
		booking(10, 1, 10, 15, model.BookingApproved),
		booking(11, 2, 10, 15, model.BookingCancelled),
		booking(12, 3, 15, 20, model.BookingPending),
	}
	got := availability.AvailableProperties(props, bookings, day(12), day(15))
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, int64(3), got[1].ID)
}

func TestIsActive(t *testing.T) {
	for _, st := range availability.ActiveStatuses {
		require.True(t, availability.IsActive(st))
	}
	require.False(t, availability.IsActive(model.BookingCancelled))
	require.False(t, availability.IsActive(model.BookingRejected))
}
