package domain

import (
	"fmt"
	"math"
)

// WaveSample is a single sea-state observation.
type WaveSample struct {
	HeightM      float64 `json:"height"`
	DirectionDeg float64 `json:"direction"`
	PeriodS      float64 `json:"period"`
}

// Validate checks the sample's numeric invariants.
func (w WaveSample) Validate() error {
	if math.IsNaN(w.HeightM) || w.HeightM < 0 {
		return fmt.Errorf("invalid wave height: %v", w.HeightM)
	}
	if math.IsNaN(w.DirectionDeg) || w.DirectionDeg < 0 || w.DirectionDeg >= 360 {
		return fmt.Errorf("wave direction out of range [0,360): %v", w.DirectionDeg)
	}
	if math.IsNaN(w.PeriodS) || w.PeriodS < 0 {
		return fmt.Errorf("invalid wave period: %v", w.PeriodS)
	}
	return nil
}
