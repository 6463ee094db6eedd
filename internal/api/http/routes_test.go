package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ParapenteColina/weather-api/internal/store"
	"github.com/ParapenteColina/weather-api/internal/weather"
	"github.com/ParapenteColina/weather-api/internal/weather/providers"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Source  string          `json:"source"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details string          `json:"details"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decoding body %q: %v", body, err)
	}
	return env
}

type failingProvider struct{ err error }

func (p *failingProvider) Name() string { return "failing" }

func (p *failingProvider) FetchCurrent(context.Context, string) (weather.WeatherSnapshot, error) {
	return weather.WeatherSnapshot{}, p.err
}

func newTestApp(opts weather.ServiceOptions, seed func(*store.MemoryStore)) *fiber.App {
	memStore := store.NewMemoryStore()
	if seed != nil {
		seed(memStore)
	}
	if opts.Mock == nil {
		opts.Mock = providers.NewMockProvider()
	}
	svc := weather.NewService(memStore, opts)
	return NewApp(svc, "Santiago")
}

func TestPreflightOptions(t *testing.T) {
	app := newTestApp(weather.ServiceOptions{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/weather", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("preflight body = %q, want empty", body)
	}
}

func TestCurrentWeatherFromCache(t *testing.T) {
	temp := 21.0
	app := newTestApp(weather.ServiceOptions{}, func(s *store.MemoryStore) {
		s.SaveCurrent(context.Background(), weather.WeatherSnapshot{
			Location:    "Santiago",
			Temperature: &temp,
			FetchedAt:   time.Now().UTC().Add(-5 * time.Minute),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/weather?location=Santiago", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("missing CORS header on data response")
	}

	env := decodeEnvelope(t, resp)
	if env.Source != "cache" {
		t.Errorf("source = %q, want cache", env.Source)
	}

	var snap weather.WeatherSnapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if snap.Temperature == nil || *snap.Temperature != 21.0 {
		t.Errorf("unexpected cached payload: %+v", snap)
	}
}

func TestCurrentWeatherDefaultsLocation(t *testing.T) {
	app := newTestApp(weather.ServiceOptions{}, func(s *store.MemoryStore) {
		s.SaveCurrent(context.Background(), weather.WeatherSnapshot{
			Location:  "Santiago",
			FetchedAt: time.Now().UTC(),
		})
	})

	// No location parameter: the default location's fresh row is served.
	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env := decodeEnvelope(t, resp)
	if env.Source != "cache" {
		t.Errorf("source = %q, want cache", env.Source)
	}
}

func TestCurrentWeatherMockWhenUnconfigured(t *testing.T) {
	app := newTestApp(weather.ServiceOptions{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/weather?location=Santiago", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Source != "mock" {
		t.Errorf("source = %q, want mock", env.Source)
	}

	var snap weather.WeatherSnapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if snap.Temperature == nil || *snap.Temperature < 18 || *snap.Temperature > 28 {
		t.Errorf("mock temperature %v outside 18-28", snap.Temperature)
	}
}

func TestForecastWithoutKeyIsAnError(t *testing.T) {
	app := newTestApp(weather.ServiceOptions{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/forecast?location=Santiago", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Error != weather.ErrNoAPIKey.Error() {
		t.Errorf("error = %q, want %q", env.Error, weather.ErrNoAPIKey.Error())
	}
	if env.Details == "" {
		t.Error("error envelope is missing details")
	}
}

func TestUpstreamFailureProduces500Envelope(t *testing.T) {
	app := newTestApp(weather.ServiceOptions{
		Current: &failingProvider{err: &providers.UpstreamStatusError{StatusCode: 404}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/weather?location=Nowhere", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Error != "Weather API error: 404" {
		t.Errorf("error = %q, want the upstream status surfaced", env.Error)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("missing CORS header on error response")
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(weather.ServiceOptions{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
