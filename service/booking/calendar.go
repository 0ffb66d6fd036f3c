package booking

import (
	"context"

	"staybook/model"
	"staybook/service/availability"
)

const defaultCalendarDays = 90

type CalendarQuery struct {
	PropertyID int64
	Start      *model.Date
	End        *model.Date
}

// CalendarEntry is one occupied night.
type CalendarEntry struct {
	Date          model.Date          `json:"date"`
	BookingID     int64               `json:"booking_id"`
	PropertyID    int64               `json:"property_id"`
	PropertyTitle string              `json:"property_title"`
	CustomerName  string              `json:"customer_name"`
	Status        model.BookingStatus `json:"status"`
	Guests        int                 `json:"guests"`
	CheckIn       model.Date          `json:"check_in"`
	CheckOut      model.Date          `json:"check_out"`
}

type Calendar struct {
	Start         model.Date      `json:"start_date"`
	End           model.Date      `json:"end_date"`
	Events        []CalendarEntry `json:"events"`
	TotalBookings int             `json:"total_bookings"`
}

// Calendar expands the caller's active bookings into per-night entries
// within [Start, End).
func (s *service) Calendar(ctx context.Context, p model.Principal, q CalendarQuery) (*Calendar, error) {
	start := s.today()
	if q.Start != nil {
		start = *q.Start
	}
	end := start.AddDays(defaultCalendarDays)
	if q.End != nil {
		end = *q.End
	}
	if !end.After(start) {
		return nil, makeErr(ErrInvalidDateRange, "end_date must be after start_date")
	}

	f, err := scope(p, model.BookingFilter{
		PropertyID:   q.PropertyID,
		OverlapsFrom: &start,
		OverlapsTo:   &end,
	})
	if err != nil {
		return nil, err
	}
	rows, err := s.r.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	cal := &Calendar{Start: start, End: end, Events: []CalendarEntry{}}
	for _, row := range rows {
		if !availability.IsActive(row.Status) || !availability.Overlaps(row.CheckIn, row.CheckOut, start, end) {
			continue
		}
		cal.TotalBookings++
		cal.Events = append(cal.Events, expandNights(row, start, end)...)
	}
	return cal, nil
}

func expandNights(row model.BookingRow, start, end model.Date) []CalendarEntry {
	from, to := row.CheckIn, row.CheckOut
	if from.Before(start) {
		from = start
	}
	if to.After(end) {
		to = end
	}
	var out []CalendarEntry
	for d := from; d.Before(to); d = d.AddDays(1) {
		out = append(out, CalendarEntry{
			Date:          d,
			BookingID:     row.ID,
			PropertyID:    row.PropertyID,
			PropertyTitle: row.PropertyTitle,
			CustomerName:  row.CustomerName,
			Status:        row.Status,
			Guests:        row.Guests,
			CheckIn:       row.CheckIn,
			CheckOut:      row.CheckOut,
		})
	}
	return out
}
