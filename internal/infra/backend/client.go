// Package backend is the request client for the primary advisory backend:
// one JSON request/decode cycle wrapped in bounded retry with exponential
// backoff.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/windlane/gustline/internal/core/faults"
	"github.com/windlane/gustline/internal/metrics"
)

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 10 * time.Second
	defaultBackoffBase    = 1 * time.Second
)

// Config holds request client settings.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	MaxAttempts    int           `yaml:"max_attempts"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	BackoffBase    time.Duration `yaml:"backoff_base"`
}

// Client performs JSON GET requests against the backend with bounded retry.
// The attempt timeout bounds a single attempt, not the whole retry sequence.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	maxAttempts    int
	attemptTimeout time.Duration
	backoffBase    time.Duration
	log            *slog.Logger
}

// New creates a request client. Zero config fields fall back to defaults.
func New(cfg Config, log *slog.Logger) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		maxAttempts:    cfg.MaxAttempts,
		attemptTimeout: cfg.AttemptTimeout,
		backoffBase:    cfg.BackoffBase,
		log:            log,
	}
}

// Get fetches base_url + path and decodes the JSON response into target.
// Retryable failures are absorbed up to the attempt budget, surfacing only
// the last one; a non-retryable failure aborts immediately. Cancellation
// during any attempt or backoff sleep surfaces Cancelled right away.
func (c *Client) Get(ctx context.Context, path string, target any) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		err := c.doAttempt(ctx, path, target)
		if err == nil {
			return nil
		}
		if faults.KindOf(err) == faults.Cancelled {
			return err
		}
		if !faults.Retryable(err) {
			return err
		}

		lastErr = err
		if attempt == c.maxAttempts {
			return lastErr
		}

		// Retry k waits 2^(k-1) backoff units.
		delay := c.backoffBase * (1 << (attempt - 1))
		c.log.Warn("backend request failed, retrying",
			"path", path,
			"attempt", attempt,
			"backoff", delay,
			"error", err,
		)
		metrics.BackendRetriesTotal.Inc()

		select {
		case <-ctx.Done():
			return faults.Wrap(faults.Cancelled, ctx.Err())
		case <-time.After(delay):
		}
	}
}

// doAttempt runs one request/decode cycle and classifies its failure.
func (c *Client) doAttempt(ctx context.Context, path string, target any) error {
	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return faults.Wrap(faults.InvalidRequest, err)
	}

	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return faults.Wrap(faults.InvalidRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return faults.Wrap(faults.Cancelled, ctx.Err())
		}
		if actx.Err() != nil {
			return faults.Wrap(faults.Timeout, actx.Err())
		}
		return faults.Wrap(faults.Network, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return faults.Wrap(faults.Cancelled, ctx.Err())
		}
		return faults.Wrap(faults.Network, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return faults.FromStatus(resp.StatusCode, string(body))
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return faults.New(faults.NoData, fmt.Sprintf("empty response body for %s", path))
	}

	// A decode mismatch cannot be fixed by retrying.
	if err := json.Unmarshal(body, target); err != nil {
		return faults.Wrap(faults.DecodeFailure, err)
	}
	return nil
}
