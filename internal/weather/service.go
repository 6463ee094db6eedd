package weather

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrNoAPIKey is returned by the forecast path when no upstream credential is
// configured. There is no mock fallback for forecasts.
var ErrNoAPIKey = errors.New("Weather API key not configured")

const (
	defaultCurrentTTL  = 30 * time.Minute
	defaultForecastTTL = 6 * time.Hour
)

// ServiceOptions configures a Service. Current and Forecast may be nil when
// no upstream credential is configured; Mock must always be set so the
// current-weather path stays usable without one.
type ServiceOptions struct {
	Current  CurrentProvider
	Forecast ForecastProvider
	Mock     CurrentProvider

	CurrentTTL  time.Duration // freshness window for current weather (default 30m)
	ForecastTTL time.Duration // freshness window for forecasts (default 6h)

	Logger *zap.SugaredLogger
	Now    func() time.Time
}

// Service implements the cache-or-fetch flow behind both endpoints. It holds
// no per-request state; every call performs at most one cache read, one
// upstream fetch and one cache write, in that order.
type Service struct {
	store Store
	opts  ServiceOptions
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewService creates a Service on top of the given snapshot store.
func NewService(store Store, opts ServiceOptions) *Service {
	if opts.CurrentTTL <= 0 {
		opts.CurrentTTL = defaultCurrentTTL
	}
	if opts.ForecastTTL <= 0 {
		opts.ForecastTTL = defaultForecastTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store: store,
		opts:  opts,
		log:   opts.Logger,
		now:   opts.Now,
	}
}

// CurrentResult is a current-weather payload plus where it came from.
type CurrentResult struct {
	Snapshot WeatherSnapshot
	Source   Source
}

// ForecastResult is a forecast payload plus where it came from.
type ForecastResult struct {
	Snapshot ForecastSnapshot
	Source   Source
}

// CurrentWeather returns the current weather for a location, serving a cached
// snapshot when one is fresh enough, otherwise fetching from the upstream
// provider (or synthesizing mock data when none is configured) and caching
// the result.
func (s *Service) CurrentWeather(ctx context.Context, location string) (CurrentResult, error) {
	cutoff := s.now().UTC().Add(-s.opts.CurrentTTL)

	cached, err := s.store.LatestCurrent(ctx, location, cutoff)
	if err == nil {
		return CurrentResult{Snapshot: cached, Source: SourceCache}, nil
	}
	if !errors.Is(err, ErrNoFreshSnapshot) {
		// Store trouble is a cache miss, never a request failure.
		s.log.Warnw("cache read failed", "location", location, "error", err)
	}

	provider := s.opts.Current
	source := SourceAPI
	if provider == nil {
		provider = s.opts.Mock
		source = SourceMock
	}

	snapshot, err := provider.FetchCurrent(ctx, location)
	if err != nil {
		return CurrentResult{}, err
	}
	snapshot.Location = location
	snapshot.FetchedAt = s.now().UTC()

	if err := s.store.SaveCurrent(ctx, snapshot); err != nil {
		s.log.Warnw("cache write failed", "location", location, "error", err)
	}

	return CurrentResult{Snapshot: snapshot, Source: source}, nil
}

// Forecast returns the aggregated daily forecast for a location, serving a
// cached snapshot when one is fresh enough. Unlike the current-weather path
// a missing upstream credential is a hard failure.
func (s *Service) Forecast(ctx context.Context, location string) (ForecastResult, error) {
	cutoff := s.now().UTC().Add(-s.opts.ForecastTTL)

	cached, err := s.store.LatestForecast(ctx, location, cutoff)
	if err == nil {
		return ForecastResult{Snapshot: cached, Source: SourceCache}, nil
	}
	if !errors.Is(err, ErrNoFreshSnapshot) {
		s.log.Warnw("cache read failed", "location", location, "error", err)
	}

	if s.opts.Forecast == nil {
		return ForecastResult{}, ErrNoAPIKey
	}

	samples, err := s.opts.Forecast.FetchForecast(ctx, location)
	if err != nil {
		return ForecastResult{}, err
	}

	snapshot := ForecastSnapshot{
		Location:  location,
		Days:      AggregateDaily(s.now(), samples),
		FetchedAt: s.now().UTC(),
	}

	if err := s.store.SaveForecast(ctx, snapshot); err != nil {
		s.log.Warnw("cache write failed", "location", location, "error", err)
	}

	return ForecastResult{Snapshot: snapshot, Source: SourceAPI}, nil
}
