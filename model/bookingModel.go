package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingApproved  BookingStatus = "APPROVED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// ParseBookingStatus accepts only the five known statuses.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled, BookingCompleted:
		return st, true
	}
	return "", false
}

type Booking struct {
	ID              int64           `json:"id"`
	PropertyID      int64           `json:"property_id"`
	CustomerID      int64           `json:"customer_id"`
	CheckIn         Date            `json:"check_in"`
	CheckOut        Date            `json:"check_out"`
	Guests          int             `json:"guests"`
	Status          BookingStatus   `json:"status"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Currency        string          `json:"currency"`
	SpecialRequests *string         `json:"special_requests,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`

	ModificationCount int        `json:"modification_count"`
	ModifiedAt        *time.Time `json:"modified_at,omitempty"`
	PreviousCheckIn   *Date      `json:"previous_check_in,omitempty"`
	PreviousCheckOut  *Date      `json:"previous_check_out,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) Nights() int { return Nights(b.CheckIn, b.CheckOut) }

// BookingRow is a booking joined with the listing and customer labels used by
// list and export views.
type BookingRow struct {
	Booking
	PropertyTitle    string `json:"property_title"`
	PropertyLocation string `json:"property_location"`
	OwnerID          int64  `json:"owner_id"`
	CustomerName     string `json:"customer_name"`
}

// BookingFilter narrows list/export queries. Zero values mean "any".
type BookingFilter struct {
	CustomerID  int64
	OwnerID     int64
	PropertyID  int64
	Status      BookingStatus
	CheckInGTE  *Date
	CheckOutLTE *Date

	// stays overlapping [OverlapsFrom, OverlapsTo)
	OverlapsFrom *Date
	OverlapsTo   *Date
}
