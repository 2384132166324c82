package store

import (
	"context"
	"testing"
	"time"

	"github.com/windlane/gustline/internal/core/domain"
)

func TestEntryIsStale(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		storedAt time.Time
		maxAge   time.Duration
		expect   bool
	}{
		{"fresh", now.Add(-30 * time.Second), 10 * time.Minute, false},
		{"exactly at max age", now.Add(-10 * time.Minute), 10 * time.Minute, false},
		{"one nanosecond past", now.Add(-10*time.Minute - time.Nanosecond), 10 * time.Minute, true},
		{"long expired", now.Add(-time.Hour), 10 * time.Minute, true},
		{"zero max age rejects any past write", now.Add(-time.Millisecond), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{StoredAt: tt.storedAt}
			if got := e.IsStale(now, tt.maxAge); got != tt.expect {
				t.Errorf("IsStale = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	temp := 18.5
	sample := domain.WindSample{
		Time:         domain.Time{Time: time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)},
		SpeedKts:     14.2,
		GustKts:      21.7,
		DirectionDeg: 310,
		TempC:        &temp,
	}
	storedAt := time.Date(2026, 8, 24, 9, 31, 0, 0, time.UTC)

	if err := s.Put(ctx, domain.KindCurrent, sample, storedAt); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entry, found, err := s.Get(ctx, domain.KindCurrent)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected entry to be found")
	}
	if !entry.StoredAt.Equal(storedAt) {
		t.Errorf("StoredAt = %v, want %v", entry.StoredAt, storedAt)
	}

	var got domain.WindSample
	if err := entry.Decode(&got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.SpeedKts != sample.SpeedKts || got.GustKts != sample.GustKts ||
		got.DirectionDeg != sample.DirectionDeg {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, sample)
	}
	if got.TempC == nil || *got.TempC != temp {
		t.Errorf("TempC did not round-trip: %v", got.TempC)
	}
	if !got.Time.Equal(sample.Time.Time) {
		t.Errorf("Time = %v, want %v", got.Time, sample.Time)
	}
}

func TestMemoryStoreReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := domain.WindSample{SpeedKts: 10, GustKts: 12, DirectionDeg: 90}
	second := domain.WindSample{SpeedKts: 22, GustKts: 30, DirectionDeg: 270}

	if err := s.Put(ctx, domain.KindCurrent, first, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, domain.KindCurrent, second, time.Now()); err != nil {
		t.Fatal(err)
	}

	entry, _, err := s.Get(ctx, domain.KindCurrent)
	if err != nil {
		t.Fatal(err)
	}
	var got domain.WindSample
	if err := entry.Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.SpeedKts != 22 {
		t.Errorf("expected second write to win, got speed %v", got.SpeedKts)
	}
}

func TestMemoryStoreMissingKind(t *testing.T) {
	_, found, err := NewMemoryStore().Get(context.Background(), domain.KindTrend)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected no entry for unwritten kind")
	}
}
