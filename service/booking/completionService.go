package booking

import (
	"context"
	"errors"
	"log/slog"

	"staybook/model"
	bookingrepo "staybook/repository/booking"
	"staybook/service/notify"
	"staybook/util/clock"
)

var errNotDue = errors.New("booking no longer due")

// Completer moves approved stays that have ended to COMPLETED.
type Completer interface {
	CompleteDue(ctx context.Context) (int, error)
}

type completer struct {
	r   bookingrepo.Repo
	n   notify.Notifier
	clk clock.Clock
	log *slog.Logger
}

func NewCompleter(r bookingrepo.Repo, n notify.Notifier, clk clock.Clock, log *slog.Logger) Completer {
	return &completer{r: r, n: n, clk: clk, log: log}
}

func (c *completer) CompleteDue(ctx context.Context) (int, error) {
	today := model.DateOf(c.clk.Now())
	ids, err := c.r.DueForCompletion(ctx, today)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, id := range ids {
		var (
			b       model.Booking
			ownerID int64
		)
		err := c.r.WithTx(ctx, func(tx bookingrepo.Tx) error {
			cur, err := tx.GetBookingForUpdate(ctx, id)
			if err != nil {
				return err
			}
			// modified or cancelled since the scan
			if cur.CheckOut.After(today) {
				return errNotDue
			}
			next, err := Transition(cur.Status, EventComplete)
			if err != nil {
				return err
			}
			p, err := tx.GetProperty(ctx, cur.PropertyID)
			if err != nil {
				return err
			}
			ownerID = p.OwnerID
			b = *cur
			b.Status = next
			return tx.UpdateBooking(ctx, &b)
		})
		switch {
		case errors.Is(err, errNotDue), errors.Is(err, bookingrepo.ErrNotFound), Code(err) == ErrInvalidState:
			continue
		case err != nil:
			return done, err
		}

		done++
		deliver(ctx, c.n, c.log, notify.NewStatusChange(b, ownerID, model.BookingApproved, c.clk.Now()))
	}

	if done > 0 {
		c.log.Info("bookings completed", "count", done, "as_of", today.String())
	}
	return done, nil
}
