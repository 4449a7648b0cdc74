// Package messaging publishes analytics events to Kafka for downstream
// consumers.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/segmentio/kafka-go"
)

const DefaultAnalyticsTopic = "storefront-analytics-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaEvents struct {
	w messageWriter
}

// NewKafkaWriter builds a writer for the analytics topic. brokers is a
// comma separated list.
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultAnalyticsTopic
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaEvents publishes each event as JSON, keyed by session id so one
// session's events stay ordered within a partition.
func NewKafkaEvents(w messageWriter) port.EventRepository {
	return &kafkaEvents{w: w}
}

func (k *kafkaEvents) InsertEvent(ctx context.Context, event domain.AnalyticsEvent) error {
	if !event.EventType.Valid() {
		return fmt.Errorf("event type[%s] is not valid", event.EventType)
	}
	if event.SessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("w.WriteMessages: %w", err)
	}

	return nil
}
