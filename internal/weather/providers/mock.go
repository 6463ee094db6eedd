package providers

import (
	"context"
	"math/rand/v2"

	"github.com/ParapenteColina/weather-api/internal/weather"
)

// Synthetic ranges for the mock provider. Descriptions mirror the Spanish
// strings OpenWeatherMap returns with lang=es.
var mockDescriptions = []string{
	"cielo claro",
	"algo de nubes",
	"nubes dispersas",
	"muy nuboso",
	"llovizna ligera",
}

var mockDirections = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// MockProvider synthesizes plausible current-weather data so the endpoint
// stays usable when no API key is configured. It is not a fallback for
// upstream failures.
type MockProvider struct{}

var _ weather.CurrentProvider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string {
	return "mock"
}

// FetchCurrent returns a randomized snapshot: temperature 18-28°C, humidity
// 50-80%, wind 5-20 km/h, random cardinal direction and description.
func (p *MockProvider) FetchCurrent(_ context.Context, location string) (weather.WeatherSnapshot, error) {
	temp := 18 + rand.Float64()*10
	humidity := 50 + rand.Float64()*30
	wind := 5 + rand.Float64()*15
	direction := mockDirections[rand.IntN(len(mockDirections))]
	description := mockDescriptions[rand.IntN(len(mockDescriptions))]

	return weather.WeatherSnapshot{
		Location:      location,
		Temperature:   &temp,
		Humidity:      &humidity,
		WindSpeed:     &wind,
		WindDirection: &direction,
		Description:   &description,
	}, nil
}
