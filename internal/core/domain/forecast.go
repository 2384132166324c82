package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// ForecastEntry is one hourly forecast point, bucketed to the venue's local
// calendar day and hour.
type ForecastEntry struct {
	Date         Time     `json:"date"`
	Hour         int      `json:"hour"`
	SpeedKts     float64  `json:"speed"`
	GustKts      float64  `json:"gust"`
	DirectionDeg float64  `json:"direction"`
	PrecipProb   *float64 `json:"precipitation_probability,omitempty"`
}

// Validate checks the entry's numeric invariants.
func (e ForecastEntry) Validate() error {
	if e.Hour < 0 || e.Hour > 23 {
		return fmt.Errorf("forecast hour out of range: %d", e.Hour)
	}
	if math.IsNaN(e.SpeedKts) || e.SpeedKts < 0 {
		return fmt.Errorf("invalid forecast speed: %v", e.SpeedKts)
	}
	if math.IsNaN(e.GustKts) || e.GustKts < 0 {
		return fmt.Errorf("invalid forecast gust: %v", e.GustKts)
	}
	if math.IsNaN(e.DirectionDeg) || e.DirectionDeg < 0 || e.DirectionDeg >= 360 {
		return fmt.Errorf("forecast direction out of range [0,360): %v", e.DirectionDeg)
	}
	return nil
}

// At returns the wall-clock time of the entry.
func (e ForecastEntry) At() time.Time {
	d := e.Date.Time
	return time.Date(d.Year(), d.Month(), d.Day(), e.Hour, 0, 0, 0, d.Location())
}

// Forecast is a chronologically ordered list of forecast entries. Ordering
// and per-entry validation are established at decode time.
type Forecast []ForecastEntry

// UnmarshalJSON implements json.Unmarshaler. Entries are validated and
// sorted so downstream code never re-checks ordering.
func (f *Forecast) UnmarshalJSON(b []byte) error {
	var entries []ForecastEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("forecast entry %d: %w", i, err)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At().Before(entries[j].At())
	})
	*f = entries
	return nil
}
