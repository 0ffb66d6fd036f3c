package model

import "github.com/shopspring/decimal"

type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "PENDING"
	PropertyApproved PropertyStatus = "APPROVED"
	PropertyRejected PropertyStatus = "REJECTED"
	PropertyInactive PropertyStatus = "INACTIVE"
)

// Property is the read-only slice of a listing that booking logic needs.
type Property struct {
	ID            int64           `json:"id"`
	OwnerID       int64           `json:"owner_id"`
	Title         string          `json:"title"`
	Location      string          `json:"location"`
	Capacity      int             `json:"capacity"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Currency      string          `json:"currency"`
	Status        PropertyStatus  `json:"status"`
}

func (p *Property) IsApproved() bool { return p.Status == PropertyApproved }
