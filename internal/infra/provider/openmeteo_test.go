package provider

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/windlane/gustline/internal/core/faults"
)

const openMeteoFixture = `{
	"utc_offset_seconds": 7200,
	"current": {
		"time": "2026-08-24T14:30",
		"wind_speed_10m": 27.8,
		"wind_gusts_10m": 40.7,
		"wind_direction_10m": 305,
		"temperature_2m": 21.4,
		"relative_humidity_2m": 63,
		"pressure_msl": 1014.2
	}
}`

func TestOpenMeteoCurrentWind(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("latitude") == "" || q.Get("longitude") == "" {
			t.Error("missing coordinates in query")
		}
		if q.Get("wind_speed_unit") != "kmh" {
			t.Errorf("wind_speed_unit = %q, want kmh", q.Get("wind_speed_unit"))
		}
		_, _ = w.Write([]byte(openMeteoFixture))
	}))
	defer srv.Close()

	p := NewOpenMeteo(srv.Client())
	p.baseURL = srv.URL

	sample, err := p.CurrentWind(context.Background(), 54.18, 12.08)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", got)
	}

	// 27.8 km/h is 15.01 kt.
	if math.Abs(sample.SpeedKts-15.01) > 0.01 {
		t.Errorf("speed = %v kt, want ~15.01", sample.SpeedKts)
	}
	if math.Abs(sample.GustKts-21.98) > 0.01 {
		t.Errorf("gust = %v kt, want ~21.98", sample.GustKts)
	}
	if sample.DirectionDeg != 305 {
		t.Errorf("direction = %v, want 305", sample.DirectionDeg)
	}

	// The observation time must sit on the venue's calendar, not UTC.
	if sample.Time.Hour() != 14 {
		t.Errorf("local hour = %d, want 14", sample.Time.Hour())
	}
	_, offset := sample.Time.Zone()
	if offset != 7200 {
		t.Errorf("zone offset = %d, want 7200", offset)
	}
}

func TestOpenMeteoSingleAttemptOnFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOpenMeteo(srv.Client())
	p.baseURL = srv.URL

	_, err := p.CurrentWind(context.Background(), 54.18, 12.08)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := faults.KindOf(err); kind != faults.ProviderUnavailable {
		t.Errorf("kind = %v, want ProviderUnavailable", kind)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("provider must not retry, got %d attempts", got)
	}
}

func TestOpenMeteoDecodeFailureIsProviderUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer srv.Close()

	p := NewOpenMeteo(srv.Client())
	p.baseURL = srv.URL

	_, err := p.CurrentWind(context.Background(), 54.18, 12.08)
	if kind := faults.KindOf(err); kind != faults.ProviderUnavailable {
		t.Errorf("kind = %v, want ProviderUnavailable", kind)
	}
}

func TestOpenMeteoBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewOpenMeteo(srv.Client())
	p.baseURL = srv.URL

	// gobreaker's default readiness check trips after 5 consecutive failures.
	for i := 0; i < 10; i++ {
		_, err := p.CurrentWind(context.Background(), 1, 1)
		if kind := faults.KindOf(err); kind != faults.ProviderUnavailable {
			t.Fatalf("call %d: kind = %v, want ProviderUnavailable", i, kind)
		}
	}
	if got := calls.Load(); got >= 10 {
		t.Errorf("breaker never opened, %d network attempts for 10 calls", got)
	}
}
