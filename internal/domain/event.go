package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventPageView      EventType = "page_view"
	EventAddToCart     EventType = "add_to_cart"
	EventPurchase      EventType = "purchase"
	EventCheckoutStart EventType = "checkout_start"
)

func (t EventType) Valid() bool {
	switch t {
	case EventPageView, EventAddToCart, EventPurchase, EventCheckoutStart:
		return true
	}
	return false
}

type AnalyticsEvent struct {
	ID        uuid.UUID      `json:"id"`
	EventType EventType      `json:"event_type"`
	PagePath  string         `json:"page_path"`
	SessionID string         `json:"session_id"`
	UserID    *string        `json:"user_id"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
