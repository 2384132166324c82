// Package store is the last-known-good cache: one durable entry per data
// kind, replaced wholesale on every successful fetch. It never fetches and
// never evicts beyond last-write-wins.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/windlane/gustline/internal/core/domain"
)

// Entry is one cached payload with its fetch-completion timestamp.
type Entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

// IsStale reports whether the entry is older than maxAge at the given time.
// An entry exactly maxAge old is not stale.
func (e Entry) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.StoredAt) > maxAge
}

// Decode unmarshals the payload into target.
func (e Entry) Decode(target any) error {
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("decode cache entry: %w", err)
	}
	return nil
}

// Store is a key -> (payload, timestamp) mapping keyed by data kind.
type Store interface {
	// Put overwrites the kind's entry with the payload and timestamp.
	Put(ctx context.Context, kind domain.Kind, payload any, storedAt time.Time) error

	// Get returns the kind's entry. The bool is false when no entry exists.
	Get(ctx context.Context, kind domain.Kind) (Entry, bool, error)
}

func encode(payload any, storedAt time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	data, err := json.Marshal(Entry{Payload: raw, StoredAt: storedAt})
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}
