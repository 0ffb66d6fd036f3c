package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"staybook/model"
	bookingrepo "staybook/repository/booking"
	propertyrepo "staybook/repository/property"
	"staybook/service/availability"
	"staybook/service/notify"
	"staybook/util/clock"

	"github.com/shopspring/decimal"
)

const defaultRejectionReason = "No reason provided"

// Locker serialises writes that validate availability for one property.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// dto

type CreateReq struct {
	PropertyID      int64
	CustomerID      int64
	CheckIn         model.Date
	CheckOut        model.Date
	Guests          int
	SpecialRequests *string
}

type RespondReq struct {
	BookingID       int64
	OwnerID         int64
	Action          string // approve | reject
	RejectionReason *string
}

// ModifyReq changes any subset of dates and guest count. Nil means unchanged.
type ModifyReq struct {
	BookingID  int64
	CustomerID int64
	CheckIn    *model.Date
	CheckOut   *model.Date
	Guests     *int
}

type Changes struct {
	PreviousCheckIn  model.Date `json:"previous_check_in"`
	PreviousCheckOut model.Date `json:"previous_check_out"`
	PreviousGuests   int        `json:"previous_guests"`
	NewCheckIn       model.Date `json:"new_check_in"`
	NewCheckOut      model.Date `json:"new_check_out"`
	NewGuests        int        `json:"new_guests"`
}

type Modified struct {
	Booking *model.Booking
	Changes Changes
}

type Availability struct {
	PropertyID    int64      `json:"property_id"`
	CheckIn       model.Date `json:"check_in"`
	CheckOut      model.Date `json:"check_out"`
	IsAvailable   bool       `json:"is_available"`
	ConflictCount int        `json:"conflicting_bookings_count"`
}

type Service interface {
	// Create files a PENDING request against an approved property.
	Create(ctx context.Context, req CreateReq) (*model.Booking, error)

	// Respond lets the property owner approve or reject a PENDING booking.
	Respond(ctx context.Context, req RespondReq) (*model.Booking, error)

	// Cancel is available to the booking's customer until it is terminal.
	Cancel(ctx context.Context, bookingID, customerID int64) (*model.Booking, error)

	// Modify changes dates and/or guests, keeping a one-step audit trail.
	Modify(ctx context.Context, req ModifyReq) (*Modified, error)

	CheckAvailability(ctx context.Context, propertyID int64, checkIn, checkOut model.Date) (*Availability, error)
	AvailableProperties(ctx context.Context, checkIn, checkOut model.Date) ([]model.Property, error)

	Get(ctx context.Context, p model.Principal, bookingID int64) (*model.BookingRow, error)
	List(ctx context.Context, p model.Principal, f model.BookingFilter) ([]model.BookingRow, error)
	Calendar(ctx context.Context, p model.Principal, q CalendarQuery) (*Calendar, error)
}

// ----- Service implementation -----

type service struct {
	r     bookingrepo.Repo
	props propertyrepo.Repo
	lk    Locker
	n     notify.Notifier
	clk   clock.Clock
	log   *slog.Logger
}

func New(r bookingrepo.Repo, props propertyrepo.Repo, lk Locker, n notify.Notifier, clk clock.Clock, log *slog.Logger) Service {
	return &service{r: r, props: props, lk: lk, n: n, clk: clk, log: log}
}

func (s *service) today() model.Date { return model.DateOf(s.clk.Now()) }

func (s *service) Create(ctx context.Context, req CreateReq) (*model.Booking, error) {
	if err := validateRange(req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}
	if req.CheckIn.Before(s.today()) {
		return nil, makeErr(ErrInvalidDateRange, "check-in date cannot be in the past")
	}
	if req.Guests < 1 {
		return nil, makeErr(ErrBadInput, "guests must be at least 1")
	}

	unlock, err := s.lk.Lock(ctx, propertyKey(req.PropertyID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		b       model.Booking
		ownerID int64
	)
	err = s.r.WithTx(ctx, func(tx bookingrepo.Tx) error {
		p, err := tx.GetProperty(ctx, req.PropertyID)
		if err != nil {
			return notFound(err, "property not found")
		}
		ownerID = p.OwnerID
		if !p.IsApproved() {
			return makeErr(ErrPropertyNotApproved, "property is not available for booking")
		}

		existing, err := tx.ActiveBookingsForProperty(ctx, p.ID)
		if err != nil {
			return err
		}
		if res := availability.Check(existing, req.CheckIn, req.CheckOut, 0); !res.Available {
			return notAvailable(res.ConflictCount())
		}
		if req.Guests > p.Capacity {
			return capacityExceeded(req.Guests, p.Capacity)
		}

		b = model.Booking{
			PropertyID:      p.ID,
			CustomerID:      req.CustomerID,
			CheckIn:         req.CheckIn,
			CheckOut:        req.CheckOut,
			Guests:          req.Guests,
			Status:          model.BookingPending,
			TotalPrice:      totalPrice(p, req.CheckIn, req.CheckOut),
			Currency:        p.Currency,
			SpecialRequests: req.SpecialRequests,
		}
		return tx.InsertBooking(ctx, &b)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.emit(ctx, b, ownerID, "")
	return &b, nil
}

func (s *service) Respond(ctx context.Context, req RespondReq) (*model.Booking, error) {
	var ev Event
	switch req.Action {
	case "approve":
		ev = EventApprove
	case "reject":
		ev = EventReject
	default:
		return nil, makeErr(ErrInvalidState, "action must be 'approve' or 'reject'")
	}

	unlock, err := s.lockBookingProperty(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		b       model.Booking
		from    model.BookingStatus
		ownerID int64
	)
	err = s.r.WithTx(ctx, func(tx bookingrepo.Tx) error {
		cur, err := tx.GetBookingForUpdate(ctx, req.BookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		p, err := tx.GetProperty(ctx, cur.PropertyID)
		if err != nil {
			return notFound(err, "property not found")
		}
		ownerID = p.OwnerID
		if p.OwnerID != req.OwnerID {
			return makeErr(ErrUnauthorized, "only the property owner can respond to booking requests")
		}

		next, err := Transition(cur.Status, ev)
		if err != nil {
			return err
		}
		b, from = *cur, cur.Status
		b.Status = next

		if ev == EventApprove {
			// availability may have changed since the request; exclude self
			existing, err := tx.ActiveBookingsForProperty(ctx, cur.PropertyID)
			if err != nil {
				return err
			}
			if res := availability.Check(existing, cur.CheckIn, cur.CheckOut, cur.ID); !res.Available {
				return notAvailable(res.ConflictCount())
			}
			b.RejectionReason = nil
		} else {
			reason := defaultRejectionReason
			if req.RejectionReason != nil && *req.RejectionReason != "" {
				reason = *req.RejectionReason
			}
			b.RejectionReason = &reason
		}
		return tx.UpdateBooking(ctx, &b)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.emit(ctx, b, ownerID, from)
	return &b, nil
}

func (s *service) Cancel(ctx context.Context, bookingID, customerID int64) (*model.Booking, error) {
	var (
		b       model.Booking
		from    model.BookingStatus
		ownerID int64
	)
	err := s.r.WithTx(ctx, func(tx bookingrepo.Tx) error {
		cur, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		if cur.CustomerID != customerID {
			return makeErr(ErrUnauthorized, "only the customer who made the booking can cancel it")
		}
		next, err := Transition(cur.Status, EventCancel)
		if err != nil {
			return err
		}
		p, err := tx.GetProperty(ctx, cur.PropertyID)
		if err != nil {
			return notFound(err, "property not found")
		}
		ownerID = p.OwnerID

		b, from = *cur, cur.Status
		b.Status = next
		return tx.UpdateBooking(ctx, &b)
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.emit(ctx, b, ownerID, from)
	return &b, nil
}

func (s *service) Modify(ctx context.Context, req ModifyReq) (*Modified, error) {
	if req.CheckIn == nil && req.CheckOut == nil && req.Guests == nil {
		return nil, makeErr(ErrBadInput, "at least one field (check_in, check_out, guests) must be provided")
	}
	if req.Guests != nil && *req.Guests < 1 {
		return nil, makeErr(ErrBadInput, "guests must be at least 1")
	}

	unlock, err := s.lockBookingProperty(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out Modified
	err = s.r.WithTx(ctx, func(tx bookingrepo.Tx) error {
		cur, err := tx.GetBookingForUpdate(ctx, req.BookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		if cur.CustomerID != req.CustomerID {
			return makeErr(ErrUnauthorized, "only the customer who made the booking can modify it")
		}
		if _, err := Transition(cur.Status, EventModify); err != nil {
			return err
		}

		// validate against a copy; cur stays as stored
		next := *cur
		if req.CheckIn != nil {
			next.CheckIn = *req.CheckIn
		}
		if req.CheckOut != nil {
			next.CheckOut = *req.CheckOut
		}
		if req.Guests != nil {
			next.Guests = *req.Guests
		}
		if err := validateRange(next.CheckIn, next.CheckOut); err != nil {
			return err
		}
		if !next.CheckIn.Equal(cur.CheckIn) && next.CheckIn.Before(s.today()) {
			return makeErr(ErrInvalidDateRange, "check-in date cannot be in the past")
		}

		p, err := tx.GetProperty(ctx, cur.PropertyID)
		if err != nil {
			return notFound(err, "property not found")
		}
		existing, err := tx.ActiveBookingsForProperty(ctx, cur.PropertyID)
		if err != nil {
			return err
		}
		if res := availability.Check(existing, next.CheckIn, next.CheckOut, cur.ID); !res.Available {
			return notAvailable(res.ConflictCount())
		}
		if next.Guests > p.Capacity {
			return capacityExceeded(next.Guests, p.Capacity)
		}

		prevIn, prevOut := cur.CheckIn, cur.CheckOut
		now := s.clk.Now()
		next.PreviousCheckIn = &prevIn
		next.PreviousCheckOut = &prevOut
		next.ModificationCount = cur.ModificationCount + 1
		next.ModifiedAt = &now
		next.TotalPrice = totalPrice(p, next.CheckIn, next.CheckOut)
		if err := tx.UpdateBooking(ctx, &next); err != nil {
			return err
		}

		out = Modified{
			Booking: &next,
			Changes: Changes{
				PreviousCheckIn:  prevIn,
				PreviousCheckOut: prevOut,
				PreviousGuests:   cur.Guests,
				NewCheckIn:       next.CheckIn,
				NewCheckOut:      next.CheckOut,
				NewGuests:        next.Guests,
			},
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return &out, nil
}

func (s *service) CheckAvailability(ctx context.Context, propertyID int64, checkIn, checkOut model.Date) (*Availability, error) {
	if err := validateRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	if _, err := s.props.Get(ctx, propertyID); err != nil {
		return nil, notFound(err, "property not found")
	}
	existing, err := s.r.ActiveBookingsForProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	res := availability.Check(existing, checkIn, checkOut, 0)
	return &Availability{
		PropertyID:    propertyID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		IsAvailable:   res.Available,
		ConflictCount: res.ConflictCount(),
	}, nil
}

func (s *service) AvailableProperties(ctx context.Context, checkIn, checkOut model.Date) ([]model.Property, error) {
	if err := validateRange(checkIn, checkOut); err != nil {
		return nil, err
	}
	candidates, err := s.props.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	busy, err := s.r.ActiveBookingsOverlapping(ctx, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	return availability.AvailableProperties(candidates, busy, checkIn, checkOut), nil
}

func (s *service) Get(ctx context.Context, p model.Principal, bookingID int64) (*model.BookingRow, error) {
	row, err := s.r.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	if !p.IsAdmin() && row.CustomerID != p.UserID && row.OwnerID != p.UserID {
		// hide bookings the caller may not see
		return nil, makeErr(ErrNotFound, "booking not found")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, p model.Principal, f model.BookingFilter) ([]model.BookingRow, error) {
	f, err := scope(p, f)
	if err != nil {
		return nil, err
	}
	return s.r.ListBookings(ctx, f)
}

// ----- helpers -----

// lockBookingProperty takes the property lock for an existing booking.
// property_id never changes, so reading it before the lock is safe.
func (s *service) lockBookingProperty(ctx context.Context, bookingID int64) (func(), error) {
	row, err := s.r.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	return s.lk.Lock(ctx, propertyKey(row.PropertyID))
}

// emit sends a status change after commit. Failures are logged only.
func (s *service) emit(ctx context.Context, b model.Booking, ownerID int64, from model.BookingStatus) {
	deliver(ctx, s.n, s.log, notify.NewStatusChange(b, ownerID, from, s.clk.Now()))
}

func deliver(ctx context.Context, n notify.Notifier, log *slog.Logger, ev notify.StatusChange) {
	if n == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := n.Notify(ctx, ev); err != nil {
		log.Warn("booking notification failed",
			"booking_id", ev.BookingID,
			"status", ev.To,
			"err", err,
		)
	}
}

func scope(p model.Principal, f model.BookingFilter) (model.BookingFilter, error) {
	switch p.Role {
	case model.RoleCustomer:
		f.CustomerID = p.UserID
	case model.RoleOwner:
		f.OwnerID = p.UserID
	case model.RoleAdmin:
	default:
		return f, makeErr(ErrUnauthorized, "unknown role %q", p.Role)
	}
	return f, nil
}

func validateRange(checkIn, checkOut model.Date) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return makeErr(ErrInvalidDateRange, "check_in and check_out are required")
	}
	if !checkOut.After(checkIn) {
		return makeErr(ErrInvalidDateRange, "check-out date must be after check-in date")
	}
	return nil
}

func capacityExceeded(guests, capacity int) error {
	return makeErr(ErrCapacityExceeded, "number of guests (%d) exceeds property capacity (%d)", guests, capacity)
}

func totalPrice(p *model.Property, checkIn, checkOut model.Date) decimal.Decimal {
	return p.PricePerNight.Mul(decimal.NewFromInt(int64(model.Nights(checkIn, checkOut))))
}

func propertyKey(id int64) string { return fmt.Sprintf("property:%d", id) }

func notFound(err error, msg string) error {
	if errors.Is(err, bookingrepo.ErrNotFound) || errors.Is(err, propertyrepo.ErrNotFound) {
		return makeErr(ErrNotFound, msg)
	}
	return err
}

// storeErr turns the exclusion-constraint backstop into the business error.
func storeErr(err error) error {
	if errors.Is(err, bookingrepo.ErrOverlap) {
		return codedError{code: ErrPropertyNotAvailable, msg: "Conflicts with an existing booking.", conflicts: 1}
	}
	return err
}
