package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ParapenteColina/weather-api/internal/weather"
)

type currentRow struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Location  string    `gorm:"index:idx_weather_location_fetched"`
	Payload   []byte    `gorm:"type:jsonb"`
	FetchedAt time.Time `gorm:"index:idx_weather_location_fetched"`
}

func (currentRow) TableName() string { return "weather_snapshots" }

type forecastRow struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Location  string    `gorm:"index:idx_forecast_location_fetched"`
	Payload   []byte    `gorm:"type:jsonb"`
	FetchedAt time.Time `gorm:"index:idx_forecast_location_fetched"`
}

func (forecastRow) TableName() string { return "forecast_snapshots" }

// PostgresStore persists snapshots in two append-only Postgres tables, one
// for current weather and one for forecasts.
type PostgresStore struct {
	db *gorm.DB
}

var _ weather.Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database and migrates both snapshot
// tables.
func NewPostgresStore(dsn string, zl *zap.Logger) (*PostgresStore, error) {
	dbLogger := gormlogger.New(
		zap.NewStdLog(zl),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := db.AutoMigrate(&currentRow{}, &forecastRow{}); err != nil {
		return nil, fmt.Errorf("migrating snapshot tables: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// SaveCurrent inserts one current-weather row. Rows are never updated.
func (s *PostgresStore) SaveCurrent(ctx context.Context, snapshot weather.WeatherSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	row := currentRow{
		ID:        uuid.NewString(),
		Location:  snapshot.Location,
		Payload:   payload,
		FetchedAt: snapshot.FetchedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// LatestCurrent selects the newest current-weather row for the location with
// fetched_at at or after cutoff.
func (s *PostgresStore) LatestCurrent(ctx context.Context, location string, cutoff time.Time) (weather.WeatherSnapshot, error) {
	var row currentRow
	err := s.db.WithContext(ctx).
		Where("location = ? AND fetched_at >= ?", location, cutoff).
		Order("fetched_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.WeatherSnapshot{}, weather.ErrNoFreshSnapshot
	}
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	var snapshot weather.WeatherSnapshot
	if err := json.Unmarshal(row.Payload, &snapshot); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snapshot, nil
}

// SaveForecast inserts one forecast row. Rows are never updated.
func (s *PostgresStore) SaveForecast(ctx context.Context, snapshot weather.ForecastSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	row := forecastRow{
		ID:        uuid.NewString(),
		Location:  snapshot.Location,
		Payload:   payload,
		FetchedAt: snapshot.FetchedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// LatestForecast selects the newest forecast row for the location with
// fetched_at at or after cutoff.
func (s *PostgresStore) LatestForecast(ctx context.Context, location string, cutoff time.Time) (weather.ForecastSnapshot, error) {
	var row forecastRow
	err := s.db.WithContext(ctx).
		Where("location = ? AND fetched_at >= ?", location, cutoff).
		Order("fetched_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return weather.ForecastSnapshot{}, weather.ErrNoFreshSnapshot
	}
	if err != nil {
		return weather.ForecastSnapshot{}, err
	}

	var snapshot weather.ForecastSnapshot
	if err := json.Unmarshal(row.Payload, &snapshot); err != nil {
		return weather.ForecastSnapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snapshot, nil
}

// PruneBefore deletes rows older than cutoff from both snapshot tables.
func (s *PostgresStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64

	res := s.db.WithContext(ctx).Where("fetched_at < ?", cutoff).Delete(&currentRow{})
	if res.Error != nil {
		return removed, res.Error
	}
	removed += res.RowsAffected

	res = s.db.WithContext(ctx).Where("fetched_at < ?", cutoff).Delete(&forecastRow{})
	if res.Error != nil {
		return removed, res.Error
	}
	removed += res.RowsAffected

	return removed, nil
}
