package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/core/faults"
)

const openMeteoEndpoint = "https://api.open-meteo.com/v1/forecast"

// OpenMeteo is the fallback source for the current wind sample. It queries
// the public Open-Meteo API, unauthenticated, and converts km/h to knots.
type OpenMeteo struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteo creates the Open-Meteo current-wind provider.
func NewOpenMeteo(client *http.Client) *OpenMeteo {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenMeteo{
		baseURL: openMeteoEndpoint,
		client:  client,
		circuit: newBreaker("open-meteo"),
	}
}

func (p *OpenMeteo) Name() string { return "open-meteo" }

type openMeteoResponse struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`
	Current          struct {
		Time             string  `json:"time"`
		WindSpeed        float64 `json:"wind_speed_10m"`
		WindGusts        float64 `json:"wind_gusts_10m"`
		WindDirection    float64 `json:"wind_direction_10m"`
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		PressureMSL      float64 `json:"pressure_msl"`
	} `json:"current"`
}

// CurrentWind fetches the current observation for the venue coordinates.
func (p *OpenMeteo) CurrentWind(ctx context.Context, lat, lon float64) (domain.WindSample, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", lat))
	query.Set("longitude", fmt.Sprintf("%.4f", lon))
	query.Set("current", "wind_speed_10m,wind_gusts_10m,wind_direction_10m,temperature_2m,relative_humidity_2m,pressure_msl")
	query.Set("wind_speed_unit", "kmh")
	query.Set("timezone", "auto")

	var res openMeteoResponse
	if err := fetchJSON(ctx, p.client, p.circuit, p.baseURL+"?"+query.Encode(), &res); err != nil {
		return domain.WindSample{}, err
	}

	// Open-Meteo reports the observation time naive in the venue's zone;
	// re-attach the offset so day bucketing stays on the venue calendar.
	naive, err := domain.ParseTime(res.Current.Time)
	if err != nil {
		return domain.WindSample{}, faults.Wrap(faults.ProviderUnavailable, err)
	}
	zone := time.FixedZone("venue", res.UTCOffsetSeconds)
	observed := time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), 0, zone)

	temp := res.Current.Temperature
	humidity := res.Current.RelativeHumidity
	pressure := res.Current.PressureMSL
	sample := domain.WindSample{
		Time:         domain.Time{Time: observed},
		SpeedKts:     domain.KnotsFromKmh(res.Current.WindSpeed),
		GustKts:      domain.KnotsFromKmh(res.Current.WindGusts),
		DirectionDeg: domain.NormalizeDirection(res.Current.WindDirection),
		TempC:        &temp,
		Humidity:     &humidity,
		PressureHPa:  &pressure,
	}
	if err := sample.Validate(); err != nil {
		return domain.WindSample{}, faults.Wrap(faults.ProviderUnavailable, err)
	}
	return sample, nil
}
