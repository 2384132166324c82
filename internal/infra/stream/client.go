// Package stream maintains the self-healing subscription to the backend's
// server-sent-events endpoint. A subscription runs indefinitely: every
// connection termination, clean server close included, is a disconnection
// resolved by reconnect-with-backoff. Only consumer cancellation ends the
// update sequence, and it does so without error.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/core/faults"
	"github.com/windlane/gustline/internal/metrics"
)

const (
	defaultReadTimeout = 90 * time.Second
	defaultBaseBackoff = 1 * time.Second
	defaultMaxBackoff  = 60 * time.Second
)

// Update is one relayed streaming message. Messages are discrete point
// samples; no continuity holds across a reconnect gap.
type Update struct {
	Sample     domain.WindSample
	ReceivedAt time.Time
}

// Config holds streaming client settings.
type Config struct {
	URL         string        `yaml:"url"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	BaseBackoff time.Duration `yaml:"base_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
}

// Client owns one streaming connection and its line buffer at a time.
type Client struct {
	url         string
	httpClient  *http.Client
	readTimeout time.Duration
	baseBackoff time.Duration
	maxBackoff  time.Duration
	log         *slog.Logger
}

// New creates a streaming client. Zero config fields fall back to defaults.
func New(cfg Config, log *slog.Logger) *Client {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		url: cfg.URL,
		// No client-level timeout: the connection is long-lived and a
		// stalled read is detected by the watchdog instead.
		httpClient:  &http.Client{},
		readTimeout: cfg.ReadTimeout,
		baseBackoff: cfg.BaseBackoff,
		maxBackoff:  cfg.MaxBackoff,
		log:         log,
	}
}

// Subscribe opens a fresh subscription and returns its update channel. The
// channel closes only when ctx is cancelled.
func (c *Client) Subscribe(ctx context.Context) <-chan Update {
	updates := make(chan Update)
	go c.run(ctx, updates)
	return updates
}

func (c *Client) run(ctx context.Context, updates chan<- Update) {
	defer close(updates)

	failures := 0
	for {
		relayed, err := c.session(ctx, updates)
		if ctx.Err() != nil {
			return
		}

		// A session that relayed at least one message resets the counter.
		if relayed > 0 {
			failures = 0
		}
		failures++

		delay := c.backoff(failures)
		c.log.Warn("stream disconnected, reconnecting",
			"relayed", relayed,
			"consecutive_failures", failures,
			"backoff", delay,
			"error", err,
		)
		metrics.StreamReconnectsTotal.Inc()

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// backoff returns base * 2^(failures-1), capped at the maximum.
func (c *Client) backoff(failures int) time.Duration {
	d := c.baseBackoff
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= c.maxBackoff {
			return c.maxBackoff
		}
	}
	if d > c.maxBackoff {
		d = c.maxBackoff
	}
	return d
}

// session runs one connection until it terminates, relaying decoded data
// frames in arrival order. It returns how many messages were relayed and
// the disconnection cause.
func (c *Client) session(ctx context.Context, updates chan<- Update) (int, error) {
	sessionID := uuid.NewString()[:8]

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(sctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, faults.Wrap(faults.InvalidRequest, err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, faults.Wrap(faults.StreamDisconnected, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, faults.New(faults.StreamDisconnected,
			"stream endpoint returned status "+resp.Status)
	}

	c.log.Info("stream connected", "session", sessionID)

	// A connection that stops delivering bytes is indistinguishable from a
	// dead one; the watchdog turns silence into a disconnection. The fired
	// flag keeps the resulting read error classified as a disconnection
	// rather than the caller cancellation the aborted read reports.
	var stalled atomic.Bool
	watchdog := time.AfterFunc(c.readTimeout, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	reader := bufio.NewReader(resp.Body)
	relayed := 0
	var data []string

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if stalled.Load() {
				return relayed, faults.New(faults.StreamDisconnected,
					fmt.Sprintf("no data for %s, dropping stalled connection", c.readTimeout))
			}
			return relayed, faults.Wrap(faults.StreamDisconnected, err)
		}
		watchdog.Reset(c.readTimeout)

		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if len(data) == 0 {
				continue
			}
			payload := strings.Join(data, "\n")
			data = nil

			var sample domain.WindSample
			if err := json.Unmarshal([]byte(payload), &sample); err != nil {
				c.log.Warn("dropping undecodable stream payload",
					"session", sessionID, "error", err)
				continue
			}
			if err := sample.Validate(); err != nil {
				c.log.Warn("dropping invalid stream sample",
					"session", sessionID, "error", err)
				continue
			}

			select {
			case <-ctx.Done():
				return relayed, nil
			case updates <- Update{Sample: sample, ReceivedAt: time.Now()}:
				relayed++
				metrics.StreamMessagesTotal.Inc()
			}

		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))

		default:
			// Comments and non-data fields are heartbeats; drop them.
		}
	}
}
