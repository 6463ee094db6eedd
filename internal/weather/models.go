package weather

import (
	"time"
)

// Source identifies where a response payload came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceAPI   Source = "api"
	SourceMock  Source = "mock"
)

// WeatherSnapshot is one immutable current-weather record for a location.
// Upstream fields are independently optional; absent values stay nil and
// serialize as JSON null. WindSpeed is km/h, WindDirection one of the eight
// cardinal points.
type WeatherSnapshot struct {
	Location      string    `json:"location"`
	Temperature   *float64  `json:"temperature"`
	Humidity      *float64  `json:"humidity"`
	WindSpeed     *float64  `json:"wind_speed"`
	WindDirection *string   `json:"wind_direction"`
	Description   *string   `json:"description"`
	FetchedAt     time.Time `json:"fetched_at"` // always UTC, set at insertion time
}

// DayForecast is the daily summary derived from one day's 3-hour samples.
// Never persisted on its own, only embedded in a ForecastSnapshot.
type DayForecast struct {
	Date      string  `json:"date"` // YYYY-MM-DD, UTC calendar day
	TempMax   float64 `json:"temp_max"`
	TempMin   float64 `json:"temp_min"`
	TempAvg   float64 `json:"temp_avg"`
	Condition string  `json:"condition"`
	WindSpeed float64 `json:"wind_speed"` // km/h, mean rounded to nearest integer
}

// ForecastSnapshot is one immutable forecast record for a location, holding
// up to five daily summaries in chronological order.
type ForecastSnapshot struct {
	Location  string        `json:"location"`
	Days      []DayForecast `json:"days"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// ForecastSample is one normalized 3-hour reading from the upstream forecast
// series, before daily aggregation. WindSpeedMS is the raw m/s value.
type ForecastSample struct {
	Timestamp   time.Time
	Temperature float64
	Description string
	WindSpeedMS float64
}
