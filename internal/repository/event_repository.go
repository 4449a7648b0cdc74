package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/db"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type eventRepository struct {
	q *db.Queries
}

func NewEventRepository(pool *pgxpool.Pool) port.EventRepository {
	return &eventRepository{q: db.New(pool)}
}

func (r *eventRepository) InsertEvent(ctx context.Context, event domain.AnalyticsEvent) error {
	if !event.EventType.Valid() {
		return fmt.Errorf("event type[%s] is not valid", event.EventType)
	}
	if event.SessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}
	if event.ID == uuid.Nil {
		return fmt.Errorf("event ID is empty")
	}

	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = r.q.InsertEvent(ctx, db.InsertEventParams{
		ID:        event.ID,
		EventType: string(event.EventType),
		PagePath:  event.PagePath,
		UserID:    event.UserID,
		SessionID: event.SessionID,
		Metadata:  raw,
		CreatedAt: event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("q.InsertEvent: %w", err)
	}

	return nil
}
