package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/db"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionStorage keeps per-session key/value slots in postgres.
type SessionStorage struct {
	q *db.Queries
}

func NewSessionStorage(pool *pgxpool.Pool) *SessionStorage {
	return &SessionStorage{q: db.New(pool)}
}

func (s *SessionStorage) Session(sessionID string) port.KVStore {
	return &sessionKV{q: s.q, sessionID: sessionID}
}

// PurgeStale removes every session whose most recent write is older than
// olderThan, which ends that session's storage scope.
func (s *SessionStorage) PurgeStale(ctx context.Context, olderThan time.Time) (int64, error) {
	n, err := s.q.DeleteStaleSessions(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("q.DeleteStaleSessions: %w", err)
	}
	return n, nil
}

type sessionKV struct {
	q         *db.Queries
	sessionID string
}

func (kv *sessionKV) Get(ctx context.Context, key string) (string, bool, error) {
	if kv.sessionID == "" {
		return "", false, fmt.Errorf("sessionID is empty")
	}

	value, err := kv.q.GetSessionValue(ctx, db.GetSessionValueParams{
		SessionID: kv.sessionID,
		Key:       key,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetSessionValue: %w", err)
	}

	return value, true, nil
}

func (kv *sessionKV) Set(ctx context.Context, key, value string) error {
	if kv.sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	err := kv.q.SetSessionValue(ctx, db.SetSessionValueParams{
		SessionID: kv.sessionID,
		Key:       key,
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("q.SetSessionValue: %w", err)
	}

	return nil
}

func (kv *sessionKV) Delete(ctx context.Context, key string) error {
	if kv.sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	err := kv.q.DeleteSessionValue(ctx, db.DeleteSessionValueParams{
		SessionID: kv.sessionID,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("q.DeleteSessionValue: %w", err)
	}

	return nil
}
