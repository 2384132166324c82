// Package health exposes liveness of the acquisition layer: stream
// freshness, store reachability, and archive reachability.
package health

import (
	"context"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// Pinger checks reachability of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Report is the aggregated health snapshot.
type Report struct {
	Status           Status  `json:"status"`
	StreamLastMsgAge float64 `json:"stream_last_message_age_seconds"`
	StreamEverSeen   bool    `json:"stream_ever_seen"`
	StoreReachable   bool    `json:"store_reachable"`
	ArchiveReachable *bool   `json:"archive_reachable,omitempty"`
}

// Monitor tracks stream liveness and dependency reachability.
type Monitor struct {
	mu            sync.RWMutex
	lastMessageAt time.Time

	streamStaleAfter time.Duration
	store            Pinger
	archive          Pinger // nil when no archive is configured
}

// NewMonitor creates a health monitor. archive may be nil.
func NewMonitor(streamStaleAfter time.Duration, store, archive Pinger) *Monitor {
	if streamStaleAfter <= 0 {
		streamStaleAfter = 5 * time.Minute
	}
	return &Monitor{
		streamStaleAfter: streamStaleAfter,
		store:            store,
		archive:          archive,
	}
}

// RecordStreamMessage notes a relayed streaming message.
func (m *Monitor) RecordStreamMessage(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if at.After(m.lastMessageAt) {
		m.lastMessageAt = at
	}
}

// CheckHealth assembles the current report. The stream going quiet alone
// degrades but does not fail the service: cached reads still work.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	m.mu.RLock()
	lastMsg := m.lastMessageAt
	m.mu.RUnlock()

	report := Report{Status: StatusHealthy}
	if !lastMsg.IsZero() {
		report.StreamEverSeen = true
		report.StreamLastMsgAge = time.Since(lastMsg).Seconds()
	}

	storeOK := m.store != nil && m.store.Ping(ctx) == nil
	report.StoreReachable = storeOK

	if m.archive != nil {
		archiveOK := m.archive.Ping(ctx) == nil
		report.ArchiveReachable = &archiveOK
		if !archiveOK {
			report.Status = StatusDegraded
		}
	}

	if report.StreamEverSeen && report.StreamLastMsgAge > m.streamStaleAfter.Seconds() {
		report.Status = StatusDegraded
	}
	if !storeOK {
		report.Status = StatusCritical
	}
	return report
}
