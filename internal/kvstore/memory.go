// Package kvstore holds the in-memory session storage used when no
// database is configured and as the default fake in tests.
package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
)

type Memory struct {
	mu       sync.RWMutex
	sessions map[string]map[string]slot
	now      func() time.Time
}

type slot struct {
	value     string
	updatedAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]map[string]slot),
		now:      time.Now,
	}
}

func (m *Memory) Session(sessionID string) port.KVStore {
	return &memorySession{m: m, id: sessionID}
}

// Len reports the number of sessions holding at least one key.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PurgeStale drops slots last written before olderThan and reports how many
// were removed. Sessions left without slots are forgotten.
func (m *Memory) PurgeStale(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, slots := range m.sessions {
		for key, sl := range slots {
			if sl.updatedAt.Before(olderThan) {
				delete(slots, key)
				n++
			}
		}
		if len(slots) == 0 {
			delete(m.sessions, id)
		}
	}
	return n, nil
}

type memorySession struct {
	m  *Memory
	id string
}

func (s *memorySession) Get(_ context.Context, key string) (string, bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	sl, ok := s.m.sessions[s.id][key]
	return sl.value, ok, nil
}

func (s *memorySession) Set(_ context.Context, key, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	slots, ok := s.m.sessions[s.id]
	if !ok {
		slots = make(map[string]slot)
		s.m.sessions[s.id] = slots
	}
	slots[key] = slot{value: value, updatedAt: s.m.now()}
	return nil
}

func (s *memorySession) Delete(_ context.Context, key string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	slots, ok := s.m.sessions[s.id]
	if !ok {
		return nil
	}
	delete(slots, key)
	if len(slots) == 0 {
		delete(s.m.sessions, s.id)
	}
	return nil
}
