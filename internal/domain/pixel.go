package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type PixelEventName string

const (
	PixelAddToCart        PixelEventName = "AddToCart"
	PixelInitiateCheckout PixelEventName = "InitiateCheckout"
	PixelPurchase         PixelEventName = "Purchase"
	PixelPageView         PixelEventName = "PageView"
)

type PixelEvent struct {
	Name       PixelEventName
	ContentIDs []string
	Value      decimal.NullDecimal
	Currency   currency.Unit
	NumItems   int
	OrderID    string
	PagePath   string
	EventTime  time.Time

	ClientIP  string
	UserAgent string
}
