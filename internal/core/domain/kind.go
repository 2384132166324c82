package domain

// Kind identifies one cached data kind in the local store.
type Kind string

const (
	KindCurrent  Kind = "current"
	KindForecast Kind = "forecast"
	KindTrend    Kind = "trend"
	KindTimeline Kind = "timeline"
)
