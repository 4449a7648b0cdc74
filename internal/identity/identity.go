// Package identity carries the signed-in user id through request contexts.
// Authentication itself happens upstream; this package only trusts what the
// gateway forwarded.
package identity

import (
	"context"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
)

type ctxKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the empty string for anonymous visitors.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Provider reads the user id placed by WithUserID.
type Provider struct{}

var _ port.IdentityProvider = Provider{}

func (Provider) CurrentUserID(ctx context.Context) (string, error) {
	return UserID(ctx), nil
}
