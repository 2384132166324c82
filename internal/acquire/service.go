// Package acquire composes the request client, the fallback providers, and
// the local store into the single data-acquisition API the advisory client
// consumes.
package acquire

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/infra/store"
	"github.com/windlane/gustline/internal/metrics"
)

// Backend is the primary request client surface.
type Backend interface {
	CurrentWind(ctx context.Context) (domain.WindSample, error)
	Forecast(ctx context.Context) (domain.Forecast, error)
	Trend(ctx context.Context) (domain.TrendSummary, error)
	Statistics(ctx context.Context, hours int) ([]domain.HistoryDay, error)
	TodayTimeline(ctx context.Context) (domain.TimelineSnapshot, error)
}

// CurrentSource is the fallback source for the current wind sample.
type CurrentSource interface {
	Name() string
	CurrentWind(ctx context.Context, lat, lon float64) (domain.WindSample, error)
}

// ForecastSource is the fallback source for the forecast.
type ForecastSource interface {
	Name() string
	Forecast(ctx context.Context, lat, lon float64, days int) (domain.Forecast, error)
}

// Config holds the venue parameters the fallback providers need.
type Config struct {
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	ForecastDays int     `yaml:"forecast_days"`
}

// Service is the orchestrator. Escalation is one-directional: the backend's
// retry budget is exhausted first, then exactly one alternate source is
// tried for the two kinds reproducible from public data. Trend, statistics,
// and timeline exist only as the backend's pre-aggregated computations and
// have no fallback.
type Service struct {
	backend          Backend
	currentFallback  CurrentSource
	forecastFallback ForecastSource
	store            store.Store
	cfg              Config
	log              *slog.Logger

	// One lock per kind: concurrent fetches for a kind may duplicate round
	// trips, but their write-throughs must not interleave.
	writeMu map[domain.Kind]*sync.Mutex

	now func() time.Time
}

// NewService creates the orchestrator.
func NewService(backend Backend, current CurrentSource, forecast ForecastSource, st store.Store, cfg Config, log *slog.Logger) *Service {
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 3
	}
	if log == nil {
		log = slog.Default()
	}
	writeMu := make(map[domain.Kind]*sync.Mutex)
	for _, k := range []domain.Kind{domain.KindCurrent, domain.KindForecast, domain.KindTrend, domain.KindTimeline} {
		writeMu[k] = &sync.Mutex{}
	}
	return &Service{
		backend:          backend,
		currentFallback:  current,
		forecastFallback: forecast,
		store:            st,
		cfg:              cfg,
		log:              log,
		writeMu:          writeMu,
		now:              time.Now,
	}
}

// CurrentWind returns the latest observation, falling back to the direct
// provider once the backend's retry budget is exhausted. Success from
// either path writes through to the store.
func (s *Service) CurrentWind(ctx context.Context) (domain.WindSample, error) {
	start := s.now()
	source := "backend"

	sample, err := s.backend.CurrentWind(ctx)
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(string(domain.KindCurrent), source).Inc()
		s.log.Warn("primary current-wind fetch failed, falling back",
			"provider", s.currentFallback.Name(), "error", err)

		source = "fallback"
		sample, err = s.currentFallback.CurrentWind(ctx, s.cfg.Latitude, s.cfg.Longitude)
		if err != nil {
			// The fallback's error is surfaced; the primary's was logged
			// above as diagnostic context only.
			metrics.FetchErrorsTotal.WithLabelValues(string(domain.KindCurrent), source).Inc()
			return domain.WindSample{}, err
		}
	}

	metrics.FetchesTotal.WithLabelValues(string(domain.KindCurrent), source).Inc()
	metrics.FetchLatency.WithLabelValues(string(domain.KindCurrent), source).
		Observe(s.now().Sub(start).Seconds())
	s.writeThrough(ctx, domain.KindCurrent, sample)
	return sample, nil
}

// Forecast returns the hourly forecast with the same fallback discipline as
// CurrentWind.
func (s *Service) Forecast(ctx context.Context) (domain.Forecast, error) {
	start := s.now()
	source := "backend"

	forecast, err := s.backend.Forecast(ctx)
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(string(domain.KindForecast), source).Inc()
		s.log.Warn("primary forecast fetch failed, falling back",
			"provider", s.forecastFallback.Name(), "error", err)

		source = "fallback"
		forecast, err = s.forecastFallback.Forecast(ctx, s.cfg.Latitude, s.cfg.Longitude, s.cfg.ForecastDays)
		if err != nil {
			metrics.FetchErrorsTotal.WithLabelValues(string(domain.KindForecast), source).Inc()
			return nil, err
		}
	}

	metrics.FetchesTotal.WithLabelValues(string(domain.KindForecast), source).Inc()
	metrics.FetchLatency.WithLabelValues(string(domain.KindForecast), source).
		Observe(s.now().Sub(start).Seconds())
	s.writeThrough(ctx, domain.KindForecast, forecast)
	return forecast, nil
}

// Trend returns the backend's trend analysis. No fallback: the analysis is
// not reproducible from raw third-party data.
func (s *Service) Trend(ctx context.Context) (domain.TrendSummary, error) {
	trend, err := s.backend.Trend(ctx)
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(string(domain.KindTrend), "backend").Inc()
		return domain.TrendSummary{}, err
	}
	metrics.FetchesTotal.WithLabelValues(string(domain.KindTrend), "backend").Inc()
	s.writeThrough(ctx, domain.KindTrend, trend)
	return trend, nil
}

// Statistics returns per-day aggregates for the trailing window. No
// fallback, no caching: the window is caller-specific.
func (s *Service) Statistics(ctx context.Context, hours int) ([]domain.HistoryDay, error) {
	return s.backend.Statistics(ctx, hours)
}

// TodayTimeline returns the merged history + forecast view. No fallback.
func (s *Service) TodayTimeline(ctx context.Context) (domain.TimelineSnapshot, error) {
	snapshot, err := s.backend.TodayTimeline(ctx)
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(string(domain.KindTimeline), "backend").Inc()
		return domain.TimelineSnapshot{}, err
	}
	metrics.FetchesTotal.WithLabelValues(string(domain.KindTimeline), "backend").Inc()
	s.writeThrough(ctx, domain.KindTimeline, snapshot)
	return snapshot, nil
}

// Cached returns the last-known-good entry for a kind. Callers display it
// when every fetch path is exhausted, or show an explicit unavailable state
// when none exists.
func (s *Service) Cached(ctx context.Context, kind domain.Kind) (store.Entry, bool, error) {
	return s.store.Get(ctx, kind)
}

// ApplyStreamUpdate write-throughs a streamed observation as the current
// sample, sharing the per-kind write lock with fetch paths.
func (s *Service) ApplyStreamUpdate(ctx context.Context, sample domain.WindSample) {
	s.writeThrough(ctx, domain.KindCurrent, sample)
}

// writeThrough replaces the kind's cache entry wholesale. A store failure
// is logged but never fails the fetch that produced the data.
func (s *Service) writeThrough(ctx context.Context, kind domain.Kind, payload any) {
	mu := s.writeMu[kind]
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Put(ctx, kind, payload, s.now()); err != nil {
		s.log.Error("cache write-through failed", "kind", kind, "error", err)
		return
	}
	metrics.CacheWritesTotal.WithLabelValues(string(kind)).Inc()
}
