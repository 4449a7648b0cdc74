// Package pricing resolves the price a shopper pays for a product once
// sales are applied.
package pricing

import (
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Result carries the price to charge and the percentage that produced it.
// Discount is invalid when no sale applied.
type Result struct {
	FinalPrice decimal.Decimal
	Discount   decimal.NullDecimal
}

func (r Result) Discounted() bool {
	return r.Discount.Valid
}

// CalculateSalePrice applies productSale, or globalSale when there is no
// product sale, to original. Both sales are expected to be active already.
// When enabled is false the original price is returned untouched.
//
// The result is rounded to cents, half away from zero.
func CalculateSalePrice(original decimal.Decimal, productSale, globalSale *domain.Sale, enabled bool) Result {
	noSale := Result{FinalPrice: original}
	if !enabled {
		return noSale
	}

	sale := productSale
	if sale == nil {
		sale = globalSale
	}
	if sale == nil {
		return noSale
	}

	pct := sale.DiscountPercentage
	final := original.Sub(original.Mul(pct).Div(hundred)).Round(2)

	return Result{
		FinalPrice: final,
		Discount:   decimal.NewNullDecimal(pct),
	}
}

// ActiveSales picks, out of sales, the active sale for productID and the
// active store-wide sale. When several qualify the highest percentage wins.
func ActiveSales(sales []domain.Sale, productID uuid.UUID, now time.Time) (product, global *domain.Sale) {
	for i := range sales {
		s := &sales[i]
		if !s.ActiveAt(now) {
			continue
		}

		switch {
		case s.IsGlobal():
			if global == nil || s.DiscountPercentage.GreaterThan(global.DiscountPercentage) {
				global = s
			}
		case s.ProductID.UUID == productID:
			if product == nil || s.DiscountPercentage.GreaterThan(product.DiscountPercentage) {
				product = s
			}
		}
	}
	return product, global
}
