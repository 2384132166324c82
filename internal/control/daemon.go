// Package control assembles the acquisition daemon: backend client,
// streaming consumer, fallback providers, store, archive, and the
// health server, wired from configuration.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/windlane/gustline/internal/acquire"
	"github.com/windlane/gustline/internal/core/config"
	"github.com/windlane/gustline/internal/health"
	"github.com/windlane/gustline/internal/infra/archive"
	"github.com/windlane/gustline/internal/infra/backend"
	"github.com/windlane/gustline/internal/infra/provider"
	"github.com/windlane/gustline/internal/infra/store"
	"github.com/windlane/gustline/internal/infra/stream"
)

// Daemon is the main application struct that manages the acquisition lifecycle.
type Daemon struct {
	cfg          *config.AppConfig
	svc          *acquire.Service
	consumer     *acquire.Consumer
	refresher    *acquire.Refresher
	healthServer *health.Server
	redisStore   *store.RedisStore // nil in memory mode
	db           *archive.Archive  // nil when no database is configured
	log          *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// alwaysUp satisfies health.Pinger for the in-memory store.
type alwaysUp struct{}

func (alwaysUp) Ping(ctx context.Context) error { return nil }

// NewDaemon creates a new Daemon instance with all dependencies initialized.
func NewDaemon(cfg *config.AppConfig) (*Daemon, error) {
	log := slog.Default()

	// 1. Initialize Store
	var st store.Store
	var storePinger health.Pinger
	var redisStore *store.RedisStore

	if cfg.Redis.URL != "" {
		var err error
		redisStore, err = store.NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis store: %w", err)
		}
		st = redisStore
		storePinger = redisStore
		log.Info("Using Redis store")
	} else {
		st = store.NewMemoryStore()
		storePinger = alwaysUp{}
		log.Info("Using Memory store")
	}

	// 2. Initialize Archive
	var db *archive.Archive
	var archivePinger health.Pinger
	if cfg.Database.URL != "" {
		var err error
		db, err = archive.New(context.Background(), cfg.Database)
		if err != nil {
			if redisStore != nil {
				_ = redisStore.Close()
			}
			return nil, fmt.Errorf("failed to init archive: %w", err)
		}
		archivePinger = db
		log.Info("Using PostgreSQL sample archive")
	}

	// 3. Initialize Backend Client and Fallback Providers
	backendClient := backend.New(cfg.Backend, log)
	currentSource := provider.NewOpenMeteo(nil)
	forecastSource := provider.NewWeatherAPI(nil, cfg.Providers.WeatherAPIKey)

	// 4. Initialize Acquisition Service
	svc := acquire.NewService(backendClient, currentSource, forecastSource, st, cfg.Venue, log)

	// 5. Initialize Health Monitor and Server
	monitor := health.NewMonitor(5*time.Minute, storePinger, archivePinger)
	healthServer := health.NewServer(monitor, cfg.Server.Port)

	// 6. Initialize Stream Consumer
	streamClient := stream.New(cfg.Stream, log)
	var recorder acquire.Recorder
	if db != nil {
		recorder = db
	}
	consumer := acquire.NewConsumer(streamClient, svc, recorder, monitor.RecordStreamMessage, log)

	// 7. Initialize Background Refresher
	refresher := acquire.NewRefresher(svc, st, cfg.Refresh, log)

	return &Daemon{
		cfg:          cfg,
		svc:          svc,
		consumer:     consumer,
		refresher:    refresher,
		healthServer: healthServer,
		redisStore:   redisStore,
		db:           db,
		log:          log,
	}, nil
}

// Service exposes the acquisition service, mainly for CLI commands.
func (d *Daemon) Service() *acquire.Service {
	return d.svc
}

// Start starts the daemon and all its components.
func (d *Daemon) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Start Health Server
	go func() {
		if err := d.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.log.Error("Health server failed", "error", err)
		}
	}()

	// Start Stream Consumer
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.log.Info("Starting stream consumer", "url", d.cfg.Stream.URL)
		d.consumer.Run(runCtx)
	}()

	// Start Background Refresher
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.log.Info("Starting background refresher")
		d.refresher.Run(runCtx)
	}()

	return nil
}

// Stop stops the daemon.
func (d *Daemon) Stop(ctx context.Context) error {
	d.log.Info("Stopping daemon...")

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.log.Warn("Timed out waiting for background workers")
	}

	if d.db != nil {
		if err := d.db.Close(); err != nil {
			d.log.Warn("Failed to close archive", "error", err)
		}
	}
	if d.redisStore != nil {
		if err := d.redisStore.Close(); err != nil {
			d.log.Warn("Failed to close Redis", "error", err)
		}
	}

	return d.healthServer.Stop(ctx)
}
