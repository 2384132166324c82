package acquire

import (
	"context"
	"testing"
	"time"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/infra/stream"
)

type fakeSubscriber struct {
	updates []stream.Update
}

func (f *fakeSubscriber) Subscribe(ctx context.Context) <-chan stream.Update {
	ch := make(chan stream.Update)
	go func() {
		defer close(ch)
		for _, u := range f.updates {
			select {
			case <-ctx.Done():
				return
			case ch <- u:
			}
		}
	}()
	return ch
}

type fakeRecorder struct {
	samples []domain.WindSample
}

func (f *fakeRecorder) InsertSample(ctx context.Context, s domain.WindSample) error {
	f.samples = append(f.samples, s)
	return nil
}

func TestConsumerRelaysUpdates(t *testing.T) {
	svc, st := newTestService(&fakeBackend{}, &fakeCurrentSource{}, &fakeForecastSource{})

	sub := &fakeSubscriber{updates: []stream.Update{
		{Sample: sampleAt(9), ReceivedAt: time.Now()},
		{Sample: sampleAt(11), ReceivedAt: time.Now()},
	}}
	rec := &fakeRecorder{}

	var observed int
	consumer := NewConsumer(sub, svc, rec, func(time.Time) { observed++ }, nil)
	consumer.Run(context.Background())

	if observed != 2 {
		t.Errorf("liveness observer saw %d messages, want 2", observed)
	}
	if len(rec.samples) != 2 {
		t.Fatalf("archived %d samples, want 2", len(rec.samples))
	}
	if rec.samples[1].SpeedKts != 11 {
		t.Errorf("archived speed = %v, want 11", rec.samples[1].SpeedKts)
	}

	// The last streamed sample becomes the cached current entry.
	entry, found, _ := st.Get(context.Background(), domain.KindCurrent)
	if !found {
		t.Fatal("current entry missing after stream updates")
	}
	var cached domain.WindSample
	if err := entry.Decode(&cached); err != nil {
		t.Fatal(err)
	}
	if cached.SpeedKts != 11 {
		t.Errorf("cached speed = %v, want the last update's 11", cached.SpeedKts)
	}
}

func TestConsumerRunsWithoutArchive(t *testing.T) {
	svc, _ := newTestService(&fakeBackend{}, &fakeCurrentSource{}, &fakeForecastSource{})
	sub := &fakeSubscriber{updates: []stream.Update{{Sample: sampleAt(7), ReceivedAt: time.Now()}}}

	// Must not panic with nil archive and nil observer.
	NewConsumer(sub, svc, nil, nil, nil).Run(context.Background())
}

func TestRefresherSkipsFreshEntries(t *testing.T) {
	backend := &fakeBackend{
		forecast: domain.Forecast{},
		trend:    domain.TrendSummary{Speed: domain.SpeedSteady, Direction: domain.DirectionStable},
	}
	svc, st := newTestService(backend, &fakeCurrentSource{}, &fakeForecastSource{})

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	_ = st.Put(context.Background(), domain.KindForecast, domain.Forecast{}, now.Add(-1*time.Minute))
	_ = st.Put(context.Background(), domain.KindTrend, backend.trend, now.Add(-1*time.Minute))

	r := NewRefresher(svc, st, RefreshConfig{MaxAge: 600 * time.Second}, nil)
	r.now = func() time.Time { return now }

	r.refreshOnce(context.Background())

	if backend.forecastCall != 0 || backend.trendCall != 0 {
		t.Errorf("fresh entries refetched: forecast=%d trend=%d",
			backend.forecastCall, backend.trendCall)
	}
}

func TestRefresherFetchesStaleEntries(t *testing.T) {
	backend := &fakeBackend{
		forecast: domain.Forecast{},
		trend:    domain.TrendSummary{Speed: domain.SpeedEasing, Direction: domain.DirectionShifting},
	}
	svc, st := newTestService(backend, &fakeCurrentSource{}, &fakeForecastSource{})

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	_ = st.Put(context.Background(), domain.KindForecast, domain.Forecast{}, now.Add(-20*time.Minute))
	// Trend entry missing entirely.

	r := NewRefresher(svc, st, RefreshConfig{MaxAge: 600 * time.Second}, nil)
	r.now = func() time.Time { return now }

	r.refreshOnce(context.Background())

	if backend.forecastCall != 1 {
		t.Errorf("stale forecast refetched %d times, want 1", backend.forecastCall)
	}
	if backend.trendCall != 1 {
		t.Errorf("missing trend refetched %d times, want 1", backend.trendCall)
	}
}
