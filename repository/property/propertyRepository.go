package propertyrepo

import (
	"context"
	"errors"

	"staybook/model"
	"staybook/util/database"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("property not found")

// Repo is the read-only view of listings owned by the property service.
type Repo interface {
	Get(ctx context.Context, id int64) (*model.Property, error)
	ListApproved(ctx context.Context) ([]model.Property, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Get(ctx context.Context, id int64) (*model.Property, error) {
	const q = `
SELECT id, owner_id, title, location, capacity, price_per_night, currency, status
FROM properties
WHERE id=$1`
	var p model.Property
	var status string
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Location, &p.Capacity, &p.PricePerNight, &p.Currency, &status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Status = model.PropertyStatus(status)
	return &p, nil
}

func (r *repo) ListApproved(ctx context.Context) ([]model.Property, error) {
	const q = `
SELECT id, owner_id, title, location, capacity, price_per_night, currency, status
FROM properties
WHERE status='APPROVED'
ORDER BY id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Property
	for rows.Next() {
		var p model.Property
		var status string
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Location, &p.Capacity, &p.PricePerNight, &p.Currency, &status); err != nil {
			return nil, err
		}
		p.Status = model.PropertyStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}
