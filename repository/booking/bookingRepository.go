// repository/booking/bookingRepository.go
package bookingrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staybook/model"
	"staybook/util/database"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrOverlap is raised by the bookings_no_overlap exclusion constraint.
	ErrOverlap = errors.New("overlapping active booking")
)

// Tx is the write side of the store. Every method runs inside one database
// transaction opened by Repo.WithTx.
type Tx interface {
	GetProperty(ctx context.Context, id int64) (*model.Property, error)
	// GetBookingForUpdate re-reads the row and holds its lock until commit.
	GetBookingForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	ActiveBookingsForProperty(ctx context.Context, propertyID int64) ([]model.Booking, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, b *model.Booking) error
}

type Repo interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetBooking(ctx context.Context, id int64) (*model.BookingRow, error)
	ListBookings(ctx context.Context, f model.BookingFilter) ([]model.BookingRow, error)
	ActiveBookingsForProperty(ctx context.Context, propertyID int64) ([]model.Booking, error)
	// ActiveBookingsOverlapping is the bulk overlap query across every property.
	ActiveBookingsOverlapping(ctx context.Context, checkIn, checkOut model.Date) ([]model.Booking, error)
	// DueForCompletion lists approved bookings whose check-out is on or before today.
	DueForCompletion(ctx context.Context, today model.Date) ([]int64, error)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repo struct {
	db *database.DB
}

func New(db *database.DB) Repo { return &repo{db: db} }

const bookingCols = `
	b.id, b.property_id, b.customer_id, b.check_in, b.check_out, b.guests,
	b.status, b.total_price, b.currency, b.special_requests, b.rejection_reason,
	b.modification_count, b.modified_at, b.previous_check_in, b.previous_check_out,
	b.created_at, b.updated_at`

const activeStatusSQL = `b.status IN ('PENDING', 'APPROVED', 'COMPLETED')`

func (r *repo) WithTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(&txRepo{q: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return mapErr(err)
	}
	return nil
}

// Reads

func (r *repo) GetBooking(ctx context.Context, id int64) (*model.BookingRow, error) {
	rows, err := listRows(ctx, r.db.Pool, `WHERE b.id = $1`, []any{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *repo) ListBookings(ctx context.Context, f model.BookingFilter) ([]model.BookingRow, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CustomerID != 0 {
		add("b.customer_id = $%d", f.CustomerID)
	}
	if f.OwnerID != 0 {
		add("p.owner_id = $%d", f.OwnerID)
	}
	if f.PropertyID != 0 {
		add("b.property_id = $%d", f.PropertyID)
	}
	if f.Status != "" {
		add("b.status = $%d", string(f.Status))
	}
	if f.CheckInGTE != nil {
		add("b.check_in >= $%d", f.CheckInGTE.Time)
	}
	if f.CheckOutLTE != nil {
		add("b.check_out <= $%d", f.CheckOutLTE.Time)
	}
	if f.OverlapsFrom != nil {
		add("b.check_out > $%d", f.OverlapsFrom.Time)
	}
	if f.OverlapsTo != nil {
		add("b.check_in < $%d", f.OverlapsTo.Time)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	return listRows(ctx, r.db.Pool, where, args)
}

func (r *repo) ActiveBookingsForProperty(ctx context.Context, propertyID int64) ([]model.Booking, error) {
	return activeForProperty(ctx, r.db.Pool, propertyID, false)
}

func (r *repo) ActiveBookingsOverlapping(ctx context.Context, checkIn, checkOut model.Date) ([]model.Booking, error) {
	q := `
		SELECT` + bookingCols + `
		FROM bookings b
		WHERE ` + activeStatusSQL + `
		AND b.check_in < $2
		AND b.check_out > $1`
	return queryBookings(ctx, r.db.Pool, q, checkIn.Time, checkOut.Time)
}

func (r *repo) DueForCompletion(ctx context.Context, today model.Date) ([]int64, error) {
	const q = `
		SELECT id
		FROM bookings
		WHERE status = 'APPROVED'
		AND check_out <= $1
		ORDER BY check_out, id`
	rows, err := r.db.Pool.Query(ctx, q, today.Time)
	if err != nil {
		return nil, fmt.Errorf("due for completion: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Writes

type txRepo struct{ q querier }

func (t *txRepo) GetProperty(ctx context.Context, id int64) (*model.Property, error) {
	return getProperty(ctx, t.q, id)
}

func (t *txRepo) GetBookingForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	q := `
		SELECT` + bookingCols + `
		FROM bookings b
		WHERE b.id = $1
		FOR UPDATE`
	out, err := queryBookings(ctx, t.q, q, id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (t *txRepo) ActiveBookingsForProperty(ctx context.Context, propertyID int64) ([]model.Booking, error) {
	return activeForProperty(ctx, t.q, propertyID, true)
}

func (t *txRepo) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `
		INSERT INTO bookings (
			property_id, customer_id, check_in, check_out, guests, status,
			total_price, currency, special_requests
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := t.q.QueryRow(ctx, q,
		b.PropertyID, b.CustomerID, b.CheckIn.Time, b.CheckOut.Time, b.Guests, string(b.Status),
		b.TotalPrice, b.Currency, b.SpecialRequests,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapErr(err)
}

// UpdateBooking writes only the fields lifecycle operations may change.
func (t *txRepo) UpdateBooking(ctx context.Context, b *model.Booking) error {
	const q = `
		UPDATE bookings
		SET check_in = $2,
			check_out = $3,
			guests = $4,
			status = $5,
			total_price = $6,
			rejection_reason = $7,
			modification_count = $8,
			modified_at = $9,
			previous_check_in = $10,
			previous_check_out = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := t.q.QueryRow(ctx, q,
		b.ID, b.CheckIn.Time, b.CheckOut.Time, b.Guests, string(b.Status),
		b.TotalPrice, b.RejectionReason, b.ModificationCount, b.ModifiedAt,
		datePtr(b.PreviousCheckIn), datePtr(b.PreviousCheckOut),
	).Scan(&b.UpdatedAt)
	return mapErr(err)
}

// helpers

func getProperty(ctx context.Context, q querier, id int64) (*model.Property, error) {
	const sql = `
		SELECT id, owner_id, title, location, capacity, price_per_night, currency, status
		FROM properties
		WHERE id = $1`
	var p model.Property
	var status string
	err := q.QueryRow(ctx, sql, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Location, &p.Capacity,
		&p.PricePerNight, &p.Currency, &status,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	p.Status = model.PropertyStatus(status)
	return &p, nil
}

func activeForProperty(ctx context.Context, q querier, propertyID int64, lock bool) ([]model.Booking, error) {
	sql := `
		SELECT` + bookingCols + `
		FROM bookings b
		WHERE b.property_id = $1
		AND ` + activeStatusSQL + `
		ORDER BY b.check_in, b.id`
	if lock {
		sql += `
		FOR SHARE`
	}
	return queryBookings(ctx, q, sql, propertyID)
}

func queryBookings(ctx context.Context, q querier, sql string, args ...any) ([]model.Booking, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func listRows(ctx context.Context, q querier, where string, args []any) ([]model.BookingRow, error) {
	sql := `
		SELECT` + bookingCols + `,
			p.title, p.location, p.owner_id, COALESCE(u.username, '')
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		LEFT JOIN users u ON u.id = b.customer_id
		` + where + `
		ORDER BY b.created_at DESC, b.id DESC`
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []model.BookingRow
	for rows.Next() {
		var r model.BookingRow
		b, err := scanBooking(rows, &r.PropertyTitle, &r.PropertyLocation, &r.OwnerID, &r.CustomerName)
		if err != nil {
			return nil, err
		}
		r.Booking = b
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row, extra ...any) (model.Booking, error) {
	var (
		b               model.Booking
		in, out         time.Time
		status          string
		prevIn, prevOut *time.Time
	)
	dest := []any{
		&b.ID, &b.PropertyID, &b.CustomerID, &in, &out, &b.Guests,
		&status, &b.TotalPrice, &b.Currency, &b.SpecialRequests, &b.RejectionReason,
		&b.ModificationCount, &b.ModifiedAt, &prevIn, &prevOut,
		&b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Booking{}, err
	}
	b.CheckIn = model.DateOf(in)
	b.CheckOut = model.DateOf(out)
	b.Status = model.BookingStatus(status)
	b.PreviousCheckIn = toDate(prevIn)
	b.PreviousCheckOut = toDate(prevOut)
	return b, nil
}

func toDate(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.DateOf(*t)
	return &d
}

func datePtr(d *model.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return fmt.Errorf("%w: %s", ErrOverlap, pgErr.ConstraintName)
	}
	return err
}
