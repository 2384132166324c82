// Package provider implements the direct third-party fallback sources.
// Providers are stateless and read-only: exactly one network attempt per
// call (they are themselves the fallback), every failure surfaced as
// ProviderUnavailable, units converted to knots at the decode boundary.
// Providers never touch the local store.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/core/faults"
)

// CurrentProvider fetches the current wind sample from a public source.
type CurrentProvider interface {
	Name() string
	CurrentWind(ctx context.Context, lat, lon float64) (domain.WindSample, error)
}

// ForecastProvider fetches the hourly forecast from a public source.
type ForecastProvider interface {
	Name() string
	Forecast(ctx context.Context, lat, lon float64, days int) (domain.Forecast, error)
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// fetchJSON makes the provider's single attempt through its circuit breaker
// and decodes the response into target.
func fetchJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, url string, target any) error {
	_, err := cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, faults.Wrap(faults.ProviderUnavailable, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, faults.Wrap(faults.ProviderUnavailable, err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
			return nil, faults.Wrap(faults.ProviderUnavailable,
				fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return nil, faults.Wrap(faults.ProviderUnavailable, err)
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return faults.Wrap(faults.ProviderUnavailable, err)
	}
	return err
}
