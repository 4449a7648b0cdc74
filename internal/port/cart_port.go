package port

import (
	"context"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, item domain.CartItem) error
	DeleteItem(ctx context.Context, ownerID string, key domain.LineKey) (bool, error)
	CountItems(ctx context.Context, ownerID string) (int64, error)
	MergeGuestLines(ctx context.Context, ownerID string, lines []domain.CartLine, cur currency.Unit) (int, error)
}

// CartCounter is the aggregate read the cart badge needs.
type CartCounter interface {
	CountItems(ctx context.Context, ownerID string) (int64, error)
}

// GuestCartStore never reports faults to its callers. Mutations that fail
// to persist are logged and dropped, so callers re-read when they need the
// current state.
type GuestCartStore interface {
	Read(ctx context.Context) []domain.CartLine
	Add(ctx context.Context, line domain.CartLine)
	SetQuantity(ctx context.Context, key domain.LineKey, quantity int)
	Remove(ctx context.Context, key domain.LineKey)
	RemoveProduct(ctx context.Context, productID uuid.UUID)
	Clear(ctx context.Context)
	Count(ctx context.Context) int
}
