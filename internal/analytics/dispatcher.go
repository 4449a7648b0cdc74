// Package analytics records storefront events. Tracking is best effort:
// nothing here blocks or fails the request that produced the event.
package analytics

import (
	"context"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/notify"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionKey is the session slot holding the analytics session id.
const SessionKey = "analytics_session_id"

type Dispatcher struct {
	repo     port.EventRepository
	identity port.IdentityProvider
	group    *notify.Group
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewDispatcher accepts a nil repo or identity; without a repo events are
// dropped, without identity they are anonymous.
func NewDispatcher(repo port.EventRepository, identity port.IdentityProvider, group *notify.Group, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		repo:     repo,
		identity: identity,
		group:    group,
		log:      log.WithField("component", "analytics"),
		now:      time.Now,
	}
}

// Track records an event for the session behind kv and returns at once.
func (d *Dispatcher) Track(ctx context.Context, kv port.KVStore, eventType domain.EventType, pagePath string, metadata map[string]any) {
	if !eventType.Valid() {
		d.log.WithField("event_type", eventType).Warn("dropping unknown analytics event")
		return
	}
	if d.repo == nil {
		d.log.WithField("event_type", eventType).Debug("no analytics sink, event dropped")
		return
	}

	// Resolved before detaching so back-to-back events share one session.
	sessionID := d.SessionID(ctx, kv)
	createdAt := d.now().UTC()
	d.group.Go(ctx, "analytics."+string(eventType), func(ctx context.Context) error {
		event := domain.AnalyticsEvent{
			ID:        uuid.New(),
			EventType: eventType,
			PagePath:  pagePath,
			SessionID: sessionID,
			UserID:    d.userID(ctx),
			Metadata:  metadata,
			CreatedAt: createdAt,
		}
		return d.repo.InsertEvent(ctx, event)
	})
}

// SessionID returns the analytics session id stored in kv, creating it on
// first use. When storage is unavailable a fresh id is returned unsaved.
func (d *Dispatcher) SessionID(ctx context.Context, kv port.KVStore) string {
	id, ok, err := kv.Get(ctx, SessionKey)
	if err != nil {
		d.log.WithError(err).Warn("failed to read analytics session id")
	}
	if ok && id != "" {
		return id
	}

	id = uuid.NewString()
	if err := kv.Set(ctx, SessionKey, id); err != nil {
		d.log.WithError(err).Warn("failed to save analytics session id")
	}
	return id
}

func (d *Dispatcher) userID(ctx context.Context) *string {
	if d.identity == nil {
		return nil
	}

	id, err := d.identity.CurrentUserID(ctx)
	if err != nil {
		d.log.WithError(err).Warn("failed to resolve current user, tracking anonymously")
		return nil
	}
	if id == "" {
		return nil
	}
	return &id
}
