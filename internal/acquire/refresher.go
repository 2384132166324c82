package acquire

import (
	"context"
	"log/slog"
	"time"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/infra/store"
)

const (
	defaultRefreshInterval = 5 * time.Minute
	defaultRefreshMaxAge   = 600 * time.Second
)

// RefreshConfig holds background refresh settings.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
	MaxAge   time.Duration `yaml:"max_age"`
}

// Refresher keeps the forecast and trend entries warm in the background.
// Unlike a foreground fetch it tolerates cached data up to MaxAge old and
// skips the round trip entirely while the cache is fresh enough.
type Refresher struct {
	svc      *Service
	store    store.Store
	interval time.Duration
	maxAge   time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewRefresher creates a background refresher.
func NewRefresher(svc *Service, st store.Store, cfg RefreshConfig, log *slog.Logger) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRefreshInterval
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultRefreshMaxAge
	}
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{
		svc:      svc,
		store:    st,
		interval: cfg.Interval,
		maxAge:   cfg.MaxAge,
		log:      log,
		now:      time.Now,
	}
}

// Run refreshes on a fixed interval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refreshOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("background refresher stopped")
			return
		case <-ticker.C:
			r.refreshOnce(ctx)
		}
	}
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	if r.needsRefresh(ctx, domain.KindForecast) {
		if _, err := r.svc.Forecast(ctx); err != nil {
			r.log.Warn("background forecast refresh failed", "error", err)
		}
	}
	if r.needsRefresh(ctx, domain.KindTrend) {
		if _, err := r.svc.Trend(ctx); err != nil {
			r.log.Warn("background trend refresh failed", "error", err)
		}
	}
}

func (r *Refresher) needsRefresh(ctx context.Context, kind domain.Kind) bool {
	entry, found, err := r.store.Get(ctx, kind)
	if err != nil {
		r.log.Warn("cache read failed, refreshing anyway", "kind", kind, "error", err)
		return true
	}
	return !found || entry.IsStale(r.now(), r.maxAge)
}
