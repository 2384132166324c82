package backend

import (
	"context"
	"fmt"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/core/faults"
)

// Typed endpoints of the advisory backend. Each carries the full retry
// budget of Get; numeric validation happens here, at the decode boundary.

// CurrentWind fetches the latest wind observation.
func (c *Client) CurrentWind(ctx context.Context) (domain.WindSample, error) {
	var sample domain.WindSample
	if err := c.Get(ctx, "/api/v1/wind/current", &sample); err != nil {
		return domain.WindSample{}, err
	}
	if err := sample.Validate(); err != nil {
		return domain.WindSample{}, faults.Wrap(faults.DecodeFailure, err)
	}
	return sample, nil
}

// Forecast fetches the hourly forecast, chronologically ordered.
func (c *Client) Forecast(ctx context.Context) (domain.Forecast, error) {
	var forecast domain.Forecast
	if err := c.Get(ctx, "/api/v1/wind/forecast", &forecast); err != nil {
		return nil, err
	}
	return forecast, nil
}

// Trend fetches the backend's pre-aggregated trend analysis.
func (c *Client) Trend(ctx context.Context) (domain.TrendSummary, error) {
	var trend domain.TrendSummary
	if err := c.Get(ctx, "/api/v1/wind/trend", &trend); err != nil {
		return domain.TrendSummary{}, err
	}
	return trend, nil
}

// Statistics fetches per-day aggregates covering the trailing window.
func (c *Client) Statistics(ctx context.Context, hours int) ([]domain.HistoryDay, error) {
	var days []domain.HistoryDay
	path := fmt.Sprintf("/api/v1/wind/statistics?hours=%d", hours)
	if err := c.Get(ctx, path, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// TodayTimeline fetches the merged history + forecast view for today.
func (c *Client) TodayTimeline(ctx context.Context) (domain.TimelineSnapshot, error) {
	var snapshot domain.TimelineSnapshot
	if err := c.Get(ctx, "/api/v1/wind/timeline/today", &snapshot); err != nil {
		return domain.TimelineSnapshot{}, err
	}
	return snapshot, nil
}
