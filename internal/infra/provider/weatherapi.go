package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sony/gobreaker"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/core/faults"
)

const weatherAPIEndpoint = "https://api.weatherapi.com/v1/forecast.json"

// WeatherAPI is the fallback source for the forecast. It queries the
// WeatherAPI.com forecast endpoint and converts kph to knots. Hour entries
// arrive already bucketed to the venue's local calendar day.
type WeatherAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewWeatherAPI creates the WeatherAPI.com forecast provider.
func NewWeatherAPI(client *http.Client, apiKey string) *WeatherAPI {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WeatherAPI{
		baseURL: weatherAPIEndpoint,
		apiKey:  apiKey,
		client:  client,
		circuit: newBreaker("weatherapi"),
	}
}

func (p *WeatherAPI) Name() string { return "weatherapi" }

type weatherAPIResponse struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Hour []struct {
				Time         string  `json:"time"`
				WindKph      float64 `json:"wind_kph"`
				GustKph      float64 `json:"gust_kph"`
				WindDegree   float64 `json:"wind_degree"`
				ChanceOfRain float64 `json:"chance_of_rain"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Forecast fetches an hourly forecast for the given horizon in days.
func (p *WeatherAPI) Forecast(ctx context.Context, lat, lon float64, days int) (domain.Forecast, error) {
	if p.apiKey == "" {
		return nil, faults.New(faults.ProviderUnavailable, "weatherapi api key is not configured")
	}
	if days <= 0 {
		days = 3
	}

	query := url.Values{}
	query.Set("key", p.apiKey)
	query.Set("q", fmt.Sprintf("%.4f,%.4f", lat, lon))
	query.Set("days", fmt.Sprintf("%d", days))

	var res weatherAPIResponse
	if err := fetchJSON(ctx, p.client, p.circuit, p.baseURL+"?"+query.Encode(), &res); err != nil {
		return nil, err
	}

	var forecast domain.Forecast
	for _, day := range res.Forecast.ForecastDay {
		date, err := domain.ParseTime(day.Date)
		if err != nil {
			return nil, faults.Wrap(faults.ProviderUnavailable, err)
		}
		for _, h := range day.Hour {
			local, err := time.Parse("2006-01-02 15:04", h.Time)
			if err != nil {
				return nil, faults.Wrap(faults.ProviderUnavailable, err)
			}
			prob := h.ChanceOfRain / 100
			entry := domain.ForecastEntry{
				Date:         domain.Time{Time: date},
				Hour:         local.Hour(),
				SpeedKts:     domain.KnotsFromKmh(h.WindKph),
				GustKts:      domain.KnotsFromKmh(h.GustKph),
				DirectionDeg: domain.NormalizeDirection(h.WindDegree),
				PrecipProb:   &prob,
			}
			if err := entry.Validate(); err != nil {
				return nil, faults.Wrap(faults.ProviderUnavailable, err)
			}
			forecast = append(forecast, entry)
		}
	}
	if len(forecast) == 0 {
		return nil, faults.New(faults.ProviderUnavailable, "weatherapi returned no forecast hours")
	}

	sort.SliceStable(forecast, func(i, j int) bool {
		return forecast[i].At().Before(forecast[j].At())
	})
	return forecast, nil
}
