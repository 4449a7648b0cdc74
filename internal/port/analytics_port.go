package port

import (
	"context"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
)

type EventRepository interface {
	InsertEvent(ctx context.Context, event domain.AnalyticsEvent) error
}

// IdentityProvider resolves the signed-in user. An empty id with a nil
// error means the visitor is anonymous.
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Tracker is a marketing pixel. Trackers are optional; a missing tracker
// is simply not called.
type Tracker interface {
	Name() string
	Track(ctx context.Context, event domain.PixelEvent) error
}
