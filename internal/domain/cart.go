package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity bounds the quantity of a single line. The server cart stores
// quantities as 32-bit integers.
const MaxQuantity = math.MaxInt32

// LineKey is the identity of a cart line. Absent variation or color ids
// compare equal to each other.
type LineKey struct {
	ProductID   uuid.UUID
	VariationID uuid.NullUUID
	ColorID     uuid.NullUUID
}

// CartLine is one purchasable configuration in the guest cart. Names and
// prices are a snapshot taken when the line was added.
type CartLine struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int             `json:"quantity"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`

	VariationID    uuid.NullUUID       `json:"variation_id"`
	VariationName  string              `json:"variation_name,omitempty"`
	VariationPrice decimal.NullDecimal `json:"variation_price"`

	ColorID    uuid.NullUUID       `json:"color_id"`
	ColorName  string              `json:"color_name,omitempty"`
	ColorCode  string              `json:"color_code,omitempty"`
	ColorPrice decimal.NullDecimal `json:"color_price"`
}

func (l CartLine) Key() LineKey {
	return LineKey{
		ProductID:   l.ProductID,
		VariationID: l.VariationID,
		ColorID:     l.ColorID,
	}
}

// UnitPrice is the variation price when one was selected, otherwise the
// product price, plus the color surcharge.
func (l CartLine) UnitPrice() decimal.Decimal {
	price := l.ProductPrice
	if l.VariationPrice.Valid {
		price = l.VariationPrice.Decimal
	}
	if l.ColorPrice.Valid {
		price = price.Add(l.ColorPrice.Decimal)
	}
	return price
}

type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	ProductID   uuid.UUID
	VariationID uuid.NullUUID
	ColorID     uuid.NullUUID
	Quantity    int
	Price       Money

	CreatedAt time.Time
}

func (i CartItem) Key() LineKey {
	return LineKey{
		ProductID:   i.ProductID,
		VariationID: i.VariationID,
		ColorID:     i.ColorID,
	}
}
