package domain

import "math"

// Wind speeds are carried in knots everywhere; each provider converts from
// its native unit before a sample leaves the decode path.
const (
	ktPerKmh = 1.0 / 1.852
	ktPerMs  = 3600.0 / 1852.0
	ktPerMph = 1.609344 / 1.852
)

// KnotsFromKmh converts kilometers per hour to knots.
func KnotsFromKmh(v float64) float64 { return v * ktPerKmh }

// KnotsFromMs converts meters per second to knots.
func KnotsFromMs(v float64) float64 { return v * ktPerMs }

// KnotsFromMph converts miles per hour to knots.
func KnotsFromMph(v float64) float64 { return v * ktPerMph }

// NormalizeDirection maps an angle in degrees into [0, 360).
func NormalizeDirection(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
