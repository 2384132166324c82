package domain

// SpeedTrend classifies how the wind speed has been developing. The
// classification is computed by the advisory backend from its own history;
// it is not reproducible from raw third-party data.
type SpeedTrend string

const (
	SpeedBuilding SpeedTrend = "building"
	SpeedSteady   SpeedTrend = "steady"
	SpeedEasing   SpeedTrend = "easing"
)

// DirectionStability classifies how stable the wind direction has been.
type DirectionStability string

const (
	DirectionStable   DirectionStability = "stable"
	DirectionShifting DirectionStability = "shifting"
	DirectionVariable DirectionStability = "variable"
)

// TrendSummary is the backend's pre-aggregated trend analysis.
type TrendSummary struct {
	Speed     SpeedTrend         `json:"speed_trend"`
	Direction DirectionStability `json:"direction_stability"`
}
