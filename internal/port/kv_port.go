package port

import "context"

// KVStore is a string keyed slot store scoped to one visitor session.
type KVStore interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type SessionStorage interface {
	Session(sessionID string) KVStore
}
