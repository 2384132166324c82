package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/windlane/gustline/internal/core/domain"
)

// MemoryStore is a process-local Store used in tests and when no Redis URL
// is configured. Entries do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[domain.Kind]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[domain.Kind]Entry),
	}
}

// Put overwrites the kind's entry wholesale.
func (s *MemoryStore) Put(ctx context.Context, kind domain.Kind, payload any, storedAt time.Time) error {
	data, err := encode(payload, storedAt)
	if err != nil {
		return err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[kind] = entry
	return nil
}

// Get returns the kind's entry, or found=false when none exists.
func (s *MemoryStore) Get(ctx context.Context, kind domain.Kind) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[kind]
	return entry, ok, nil
}
