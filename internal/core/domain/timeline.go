package domain

// HistoryDay aggregates one past calendar day. Both aggregates are nil when
// no observations exist for that day.
type HistoryDay struct {
	Date        Time     `json:"date"`
	AvgSpeedKts *float64 `json:"avg_speed,omitempty"`
	PeakGustKts *float64 `json:"peak_gust,omitempty"`
}

// TimelineSnapshot merges recent history with the upcoming forecast around a
// "now" marker, as assembled by the backend for the today view.
type TimelineSnapshot struct {
	History  []HistoryDay `json:"history"`
	Forecast Forecast     `json:"forecast"`
	Now      Time         `json:"now"`
}
