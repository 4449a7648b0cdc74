package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSalePercentage = errors.New("sale: invalid discount percentage")
	ErrInvalidSaleWindow     = errors.New("sale: invalid window")
)

var hundred = decimal.NewFromInt(100)

// Sale is a percentage discount. A sale without a product id applies
// store-wide. A zero EndsAt means the sale is open ended.
type Sale struct {
	ID                 uuid.UUID
	ProductID          uuid.NullUUID
	DiscountPercentage decimal.Decimal
	StartsAt           time.Time
	EndsAt             time.Time
}

func NewSale(id uuid.UUID, productID uuid.NullUUID, percentage decimal.Decimal, startsAt, endsAt time.Time) (Sale, error) {
	s := Sale{
		ID:                 id,
		ProductID:          productID,
		DiscountPercentage: percentage,
		StartsAt:           startsAt,
		EndsAt:             endsAt,
	}
	if err := s.validate(); err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (s Sale) IsGlobal() bool {
	return !s.ProductID.Valid
}

// ActiveAt reports whether now falls inside [StartsAt, EndsAt).
func (s Sale) ActiveAt(now time.Time) bool {
	if !s.StartsAt.IsZero() && now.Before(s.StartsAt) {
		return false
	}
	if !s.EndsAt.IsZero() && !now.Before(s.EndsAt) {
		return false
	}
	return true
}

func (s Sale) validate() error {
	if !s.DiscountPercentage.IsPositive() || s.DiscountPercentage.GreaterThan(hundred) {
		return ErrInvalidSalePercentage
	}
	if !s.EndsAt.IsZero() && s.EndsAt.Before(s.StartsAt) {
		return ErrInvalidSaleWindow
	}
	return nil
}
