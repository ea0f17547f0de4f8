package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// stubProvider serves canned facets for any coordinates and resolves every
// query except "nowhere" to a single Berlin candidate.
type stubProvider struct{}

func (stubProvider) Geocode(_ context.Context, query string, _ int) ([]weather.Location, error) {
	if strings.EqualFold(strings.TrimSpace(query), "nowhere") {
		return nil, nil
	}
	return []weather.Location{{Name: "Berlin", Country: "DE", Lat: 52.52, Lon: 13.40}}, nil
}

func (stubProvider) Current(context.Context, float64, float64) (weather.CurrentObservation, error) {
	return weather.CurrentObservation{
		TemperatureC: 21.3,
		FeelsLikeC:   20.1,
		Condition:    "Clouds",
		Description:  "scattered clouds",
		IconCode:     "03d",
		HumidityPct:  55,
		WindSpeedMS:  3.0,
		VisibilityM:  9000,
		SunriseUnix:  1714536000,
		SunsetUnix:   1714583000,
		TimezoneSec:  7200,
	}, nil
}

func (stubProvider) Forecast(context.Context, float64, float64) (weather.ForecastSeries, error) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	samples := make([]weather.ForecastSample, 0, 16)
	for i := 0; i < 16; i++ {
		samples = append(samples, weather.ForecastSample{
			Timestamp: base.Add(time.Duration(i) * 3 * time.Hour),
			TempC:     20,
			TempMinC:  18,
			TempMaxC:  23,
			Condition: "Clouds",
			IconCode:  "03d",
		})
	}
	return weather.ForecastSeries{Samples: samples, TimezoneSec: 7200}, nil
}

func (stubProvider) AirQuality(context.Context, float64, float64) (weather.AirQualityReading, error) {
	return weather.AirQualityReading{Index: 1, PM25: 5}, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": true, "message": err.Error()})
		},
	})

	RegisterRoutes(app, Deps{
		Service:   weather.NewService(stubProvider{}, clock),
		Prefs:     prefs.Open(filepath.Join(t.TempDir(), "settings.json")),
		Snapshots: store.NewSnapshotStore(time.Hour, clock),
		Metrics:   observability.NewMetricsForTesting(),
	})
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetWeatherRequiresLocation(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestGetWeatherUnknownLocation(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather?location=nowhere", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestGetWeatherAndLatest(t *testing.T) {
	app := newTestApp(t)

	// No snapshot stored yet.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/latest?location=Berlin", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather?location=Berlin", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var snapshot weather.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if got := snapshot.Location.DisplayName(); got != "Berlin, DE" {
		t.Fatalf("expected Berlin, DE, got %q", got)
	}
	if len(snapshot.Hourly) != 16 {
		t.Fatalf("expected 16 hourly entries, got %d", len(snapshot.Hourly))
	}

	// The successful fetch should now back /weather/latest.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/weather/latest?location=berlin", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestSearchLocationsShortQuery(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/locations/search?q=ab", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Locations []weather.Location `json:"locations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Locations) != 0 {
		t.Fatalf("expected empty result for short query, got %d entries", len(body.Locations))
	}
}

func TestPatchPreferences(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/api/v1/preferences", `{"theme":"dark","temperatureUnit":"fahrenheit"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var state prefs.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if state.Theme != prefs.ThemeDark {
		t.Fatalf("expected dark theme, got %q", state.Theme)
	}
	if state.TemperatureUnit != prefs.UnitFahrenheit {
		t.Fatalf("expected fahrenheit, got %q", state.TemperatureUnit)
	}
}

func TestPatchPreferencesRejectsUnknownTheme(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/api/v1/preferences", `{"theme":"sepia"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	app := newTestApp(t)

	// Location updates need an active session.
	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v1/session/location", `{"locationQuery":"Berlin"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/session/login", `{"displayName":"Ada","email":"ada@example.com"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(http.MethodPut, "/api/v1/session/location", `{"locationQuery":"Berlin"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var state prefs.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if state.Session == nil || state.Session.LocationQuery != "Berlin" {
		t.Fatalf("expected session location Berlin, got %+v", state.Session)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/session/logout", `{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestLoginRequiresDisplayName(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/session/login", `{"email":"ada@example.com"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
