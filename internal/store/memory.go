package store

import (
	"context"
	"sync"
	"time"

	"github.com/ParapenteColina/weather-api/internal/weather"
)

// MemoryStore is a concurrency-safe in-process implementation of the snapshot
// store. It backs tests and serves as the fallback when no database is
// configured; rows are append-only like the persistent store.
type MemoryStore struct {
	mu sync.RWMutex

	// keyed by location
	current  map[string][]weather.WeatherSnapshot
	forecast map[string][]weather.ForecastSnapshot
}

var _ weather.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		current:  make(map[string][]weather.WeatherSnapshot),
		forecast: make(map[string][]weather.ForecastSnapshot),
	}
}

// SaveCurrent appends a current-weather snapshot for its location.
func (s *MemoryStore) SaveCurrent(_ context.Context, snapshot weather.WeatherSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current[snapshot.Location] = append(s.current[snapshot.Location], snapshot)
	return nil
}

// LatestCurrent returns the most recent current-weather snapshot for the
// location with FetchedAt at or after cutoff.
func (s *MemoryStore) LatestCurrent(_ context.Context, location string, cutoff time.Time) (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.current[location]
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].FetchedAt.Before(cutoff) {
			return rows[i], nil
		}
	}
	return weather.WeatherSnapshot{}, weather.ErrNoFreshSnapshot
}

// SaveForecast appends a forecast snapshot for its location.
func (s *MemoryStore) SaveForecast(_ context.Context, snapshot weather.ForecastSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forecast[snapshot.Location] = append(s.forecast[snapshot.Location], snapshot)
	return nil
}

// LatestForecast returns the most recent forecast snapshot for the location
// with FetchedAt at or after cutoff.
func (s *MemoryStore) LatestForecast(_ context.Context, location string, cutoff time.Time) (weather.ForecastSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.forecast[location]
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].FetchedAt.Before(cutoff) {
			return rows[i], nil
		}
	}
	return weather.ForecastSnapshot{}, weather.ErrNoFreshSnapshot
}

// PruneBefore drops snapshots older than cutoff from both tables.
func (s *MemoryStore) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64

	for loc, rows := range s.current {
		kept := rows[:0]
		for _, r := range rows {
			if r.FetchedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) == 0 {
			delete(s.current, loc)
		} else {
			s.current[loc] = kept
		}
	}

	for loc, rows := range s.forecast {
		kept := rows[:0]
		for _, r := range rows {
			if r.FetchedAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) == 0 {
			delete(s.forecast, loc)
		} else {
			s.forecast[loc] = kept
		}
	}

	return removed, nil
}
