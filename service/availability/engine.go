// Package availability decides whether a date range can be booked against a
// property. It performs no I/O: callers hand it snapshots of bookings and
// properties and it never mutates them, so every function here is safe for
// concurrent use.
package availability

import (
	"slices"

	"staybook/model"
)

// ActiveStatuses occupy their date range. Cancelled and rejected bookings
// never block a range.
var ActiveStatuses = []model.BookingStatus{
	model.BookingPending,
	model.BookingApproved,
	model.BookingCompleted,
}

// IsActive reports whether a booking in status s blocks its dates.
func IsActive(s model.BookingStatus) bool {
	return slices.Contains(ActiveStatuses, s)
}

// Overlaps applies half-open interval semantics: [aIn,aOut) and [bIn,bOut)
// intersect iff aIn < bOut and aOut > bIn. A checkout equal to another stay's
// check-in is not an overlap.
func Overlaps(aIn, aOut, bIn, bOut model.Date) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Result is the outcome of an availability check.
type Result struct {
	Available bool
	Conflicts []model.Booking
}

func (r Result) ConflictCount() int { return len(r.Conflicts) }

// Check filters existing to active bookings (skipping excludeID when non-zero)
// and returns every one overlapping [checkIn, checkOut). The caller must have
// validated checkOut > checkIn already.
func Check(existing []model.Booking, checkIn, checkOut model.Date, excludeID int64) Result {
	var conflicts []model.Booking
	for _, b := range existing {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if !IsActive(b.Status) {
			continue
		}
		if Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			conflicts = append(conflicts, b)
		}
	}
	return Result{Available: len(conflicts) == 0, Conflicts: conflicts}
}

// BusyProperties collects the ids of properties that hold at least one active
// booking overlapping [checkIn, checkOut). bookings is typically the result of
// a single bulk overlap query across all properties; the rule is re-applied
// here so a coarser query stays correct.
func BusyProperties(bookings []model.Booking, checkIn, checkOut model.Date) map[int64]struct{} {
	busy := make(map[int64]struct{})
	for _, b := range bookings {
		if IsActive(b.Status) && Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			busy[b.PropertyID] = struct{}{}
		}
	}
	return busy
}

// AvailableProperties returns the candidates that have no active booking
// overlapping the requested range, preserving candidate order.
func AvailableProperties(candidates []model.Property, bookings []model.Booking, checkIn, checkOut model.Date) []model.Property {
	busy := BusyProperties(bookings, checkIn, checkOut)
	out := make([]model.Property, 0, len(candidates))
	for _, p := range candidates {
		if _, taken := busy[p.ID]; taken {
			continue
		}
		out = append(out, p)
	}
	return out
}
