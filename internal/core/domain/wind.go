package domain

import (
	"fmt"
	"math"
	"time"
)

// WindSample is a single wind observation. Numeric fields are validated when
// a sample is decoded from a provider response; downstream code assumes a
// sample it receives is well-formed.
type WindSample struct {
	Time         Time     `json:"time"`
	SpeedKts     float64  `json:"speed"`
	GustKts      float64  `json:"gust"`
	DirectionDeg float64  `json:"direction"`
	TempC        *float64 `json:"temperature,omitempty"`
	Humidity     *float64 `json:"humidity,omitempty"`
	PressureHPa  *float64 `json:"pressure,omitempty"`

	// Wave carries the sea state when the backend reports one. Nil for
	// stations without a wave sensor.
	Wave *WaveSample `json:"wave,omitempty"`
}

// Validate checks the sample's numeric invariants.
func (s WindSample) Validate() error {
	if math.IsNaN(s.SpeedKts) || s.SpeedKts < 0 {
		return fmt.Errorf("invalid wind speed: %v", s.SpeedKts)
	}
	if math.IsNaN(s.GustKts) || s.GustKts < 0 {
		return fmt.Errorf("invalid wind gust: %v", s.GustKts)
	}
	if math.IsNaN(s.DirectionDeg) || s.DirectionDeg < 0 || s.DirectionDeg >= 360 {
		return fmt.Errorf("wind direction out of range [0,360): %v", s.DirectionDeg)
	}
	if s.Wave != nil {
		if err := s.Wave.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Age returns how old the sample is relative to now.
func (s WindSample) Age(now time.Time) time.Duration {
	return now.Sub(s.Time.Time)
}
