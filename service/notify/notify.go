// Package notify delivers booking status-change notifications. Delivery is
// best effort: callers log failures and never roll back a transition because
// a notifier failed.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"staybook/model"
)

// Recipient is one user that should hear about a status change.
type Recipient struct {
	Role   model.Role `json:"role"`
	UserID int64      `json:"user_id"`
}

// StatusChange is the payload emitted after a booking transition commits.
type StatusChange struct {
	BookingID  int64               `json:"booking_id"`
	PropertyID int64               `json:"property_id"`
	From       model.BookingStatus `json:"from,omitempty"`
	To         model.BookingStatus `json:"to"`
	CheckIn    model.Date          `json:"check_in"`
	CheckOut   model.Date          `json:"check_out"`
	Recipients []Recipient         `json:"recipients"`
	At         time.Time           `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev StatusChange) error
}

// RecipientRoles maps a new status to who must be told about it.
func RecipientRoles(s model.BookingStatus) []model.Role {
	switch s {
	case model.BookingPending:
		return []model.Role{model.RoleOwner}
	case model.BookingApproved, model.BookingRejected:
		return []model.Role{model.RoleCustomer}
	case model.BookingCancelled:
		return []model.Role{model.RoleOwner, model.RoleCustomer}
	case model.BookingCompleted:
		return []model.Role{model.RoleCustomer, model.RoleOwner}
	}
	return nil
}

// NewStatusChange resolves recipients for b's current status.
func NewStatusChange(b model.Booking, ownerID int64, from model.BookingStatus, at time.Time) StatusChange {
	ev := StatusChange{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		From:       from,
		To:         b.Status,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		At:         at.UTC(),
	}
	for _, role := range RecipientRoles(b.Status) {
		id := b.CustomerID
		if role == model.RoleOwner {
			id = ownerID
		}
		ev.Recipients = append(ev.Recipients, Recipient{Role: role, UserID: id})
	}
	return ev
}

// Multi fans out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev StatusChange) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes every status change to the structured log.
type Log struct{ L *slog.Logger }

func (n Log) Notify(ctx context.Context, ev StatusChange) error {
	n.L.InfoContext(ctx, "booking status changed",
		"booking_id", ev.BookingID,
		"property_id", ev.PropertyID,
		"from", ev.From,
		"to", ev.To,
		"recipients", len(ev.Recipients),
	)
	return nil
}
