package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ParapenteColina/weather-api/internal/weather"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// OpenWeatherProvider fetches current weather and the 5-day/3-hour forecast
// series from OpenWeatherMap, with metric units and Spanish descriptions.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	country     string
	currentURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

var (
	_ weather.CurrentProvider  = (*OpenWeatherProvider)(nil)
	_ weather.ForecastProvider = (*OpenWeatherProvider)(nil)
)

func NewOpenWeatherProvider(client *http.Client, apiKey, country string, rps float64, burst int) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      apiKey,
		country:     country,
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Limiter: rate.NewLimiter(rate.Limit(rps), burst),
		},
		circuit: cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) query(location string) url.Values {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lang", "es")

	q := location
	if p.country != "" {
		q = fmt.Sprintf("%s,%s", location, p.country)
	}
	values.Set("q", q)

	return values
}

// FetchCurrent queries the current-weather endpoint. Temperature, humidity,
// wind speed, wind direction and description are independently optional and
// stay nil when absent from the response.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, location string) (weather.WeatherSnapshot, error) {
	u := fmt.Sprintf("%s?%s", p.currentURL, p.query(location).Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, req)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Main *struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
		Wind *struct {
			Speed *float64 `json:"speed"`
			Deg   *float64 `json:"deg"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	snapshot := weather.WeatherSnapshot{Location: location}

	if payload.Main != nil {
		snapshot.Temperature = payload.Main.Temp
		snapshot.Humidity = payload.Main.Humidity
	}
	if payload.Wind != nil {
		if payload.Wind.Speed != nil {
			kmh := weather.MSToKMH(*payload.Wind.Speed)
			snapshot.WindSpeed = &kmh
		}
		if payload.Wind.Deg != nil {
			dir := weather.CardinalFromDegrees(*payload.Wind.Deg)
			snapshot.WindDirection = &dir
		}
	}
	if len(payload.Weather) > 0 {
		desc := payload.Weather[0].Description
		snapshot.Description = &desc
	}

	return snapshot, nil
}

// FetchForecast queries the 5-day/3-hour forecast endpoint and returns the
// raw sample series in upstream order.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, location string) ([]weather.ForecastSample, error) {
	u := fmt.Sprintf("%s?%s", p.forecastURL, p.query(location).Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
			} `json:"weather"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		desc := ""
		if len(item.Weather) > 0 {
			desc = item.Weather[0].Description
		}
		samples = append(samples, weather.ForecastSample{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			Description: desc,
			WindSpeedMS: item.Wind.Speed,
		})
	}

	return samples, nil
}
