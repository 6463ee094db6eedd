package weather

import (
	"context"
	"errors"
	"time"
)

// ErrNoFreshSnapshot is returned by stores when no row for the location is
// newer than the requested cutoff. The service treats it as a plain cache
// miss; any other store error is logged and then treated the same way.
var ErrNoFreshSnapshot = errors.New("no fresh snapshot for location")

// CurrentProvider produces a current-weather snapshot for a location.
type CurrentProvider interface {
	Name() string
	FetchCurrent(ctx context.Context, location string) (WeatherSnapshot, error)
}

// ForecastProvider produces the raw 3-hour forecast series for a location.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, location string) ([]ForecastSample, error)
}

// Store is the contract the snapshot cache must satisfy. Rows are append-only;
// freshness is evaluated at read time through the cutoff argument.
type Store interface {
	SaveCurrent(ctx context.Context, snapshot WeatherSnapshot) error
	LatestCurrent(ctx context.Context, location string, cutoff time.Time) (WeatherSnapshot, error)

	SaveForecast(ctx context.Context, snapshot ForecastSnapshot) error
	LatestForecast(ctx context.Context, location string, cutoff time.Time) (ForecastSnapshot, error)

	// PruneBefore deletes rows older than cutoff in both tables and reports
	// how many were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
