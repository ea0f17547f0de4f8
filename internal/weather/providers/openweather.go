package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	facetGeocode    = "geocode"
	facetCurrent    = "current"
	facetForecast   = "forecast"
	facetAirQuality = "air_quality"
)

// OpenWeatherConfig holds the connection settings for the OpenWeatherMap API.
// URLs are overridable so tests can point the client at a local server.
type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string // data endpoints (weather, forecast, air_pollution)
	GeoURL  string // geocoding endpoints
}

// OpenWeatherProvider implements weather.Provider against OpenWeatherMap.
// All four endpoints share one circuit breaker and backoff policy.
type OpenWeatherProvider struct {
	cfg     OpenWeatherConfig
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
}

// NewOpenWeatherProvider creates the provider client.
func NewOpenWeatherProvider(client *http.Client, cfg OpenWeatherConfig, metrics *observability.Metrics) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.GeoURL == "" {
		cfg.GeoURL = "https://api.openweathermap.org/geo/1.0"
	}

	return &OpenWeatherProvider{
		cfg: cfg,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: cb,
		metrics: metrics,
	}
}

// Geocode resolves a free-text query into ranked location candidates.
func (p *OpenWeatherProvider) Geocode(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", fmt.Sprintf("%d", limit))
	values.Set("appid", p.cfg.APIKey)

	resp, err := p.get(ctx, p.cfg.GeoURL+"/direct", values)
	if err != nil {
		p.count(facetGeocode, "error")
		return nil, &weather.ProviderError{Facet: facetGeocode, Err: err}
	}
	defer resp.Body.Close()

	var payload []struct {
		Name    string  `json:"name"`
		State   string  `json:"state"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.count(facetGeocode, "malformed")
		return nil, &weather.MalformedResponseError{Facet: facetGeocode, Field: "body"}
	}

	locations := make([]weather.Location, 0, len(payload))
	for _, item := range payload {
		locations = append(locations, weather.Location{
			Name:    item.Name,
			Region:  item.State,
			Country: item.Country,
			Lat:     item.Lat,
			Lon:     item.Lon,
		})
	}

	p.count(facetGeocode, "success")
	return locations, nil
}

// Current fetches the current-conditions facet.
func (p *OpenWeatherProvider) Current(ctx context.Context, lat, lon float64) (weather.CurrentObservation, error) {
	resp, err := p.get(ctx, p.cfg.BaseURL+"/weather", p.coordValues(lat, lon, true))
	if err != nil {
		p.count(facetCurrent, "error")
		return weather.CurrentObservation{}, &weather.ProviderError{Facet: facetCurrent, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Visibility float64 `json:"visibility"`
		Sys        struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
		Timezone int `json:"timezone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.count(facetCurrent, "malformed")
		return weather.CurrentObservation{}, &weather.MalformedResponseError{Facet: facetCurrent, Field: "body"}
	}
	if len(payload.Weather) == 0 {
		p.count(facetCurrent, "malformed")
		return weather.CurrentObservation{}, &weather.MalformedResponseError{Facet: facetCurrent, Field: "weather"}
	}

	p.count(facetCurrent, "success")
	return weather.CurrentObservation{
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		Condition:    payload.Weather[0].Main,
		Description:  payload.Weather[0].Description,
		IconCode:     payload.Weather[0].Icon,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		WindDeg:      payload.Wind.Deg,
		PressureHpa:  payload.Main.Pressure,
		VisibilityM:  payload.Visibility,
		SunriseUnix:  payload.Sys.Sunrise,
		SunsetUnix:   payload.Sys.Sunset,
		TimezoneSec:  payload.Timezone,
	}, nil
}

// Forecast fetches the 5-day/3-hour forecast series.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, lat, lon float64) (weather.ForecastSeries, error) {
	resp, err := p.get(ctx, p.cfg.BaseURL+"/forecast", p.coordValues(lat, lon, true))
	if err != nil {
		p.count(facetForecast, "error")
		return weather.ForecastSeries{}, &weather.ProviderError{Facet: facetForecast, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				TempMin  float64 `json:"temp_min"`
				TempMax  float64 `json:"temp_max"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Main string `json:"main"`
				Icon string `json:"icon"`
			} `json:"weather"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Pop float64 `json:"pop"`
		} `json:"list"`
		City struct {
			Timezone int `json:"timezone"`
		} `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.count(facetForecast, "malformed")
		return weather.ForecastSeries{}, &weather.MalformedResponseError{Facet: facetForecast, Field: "body"}
	}
	if len(payload.List) == 0 {
		p.count(facetForecast, "malformed")
		return weather.ForecastSeries{}, &weather.MalformedResponseError{Facet: facetForecast, Field: "list"}
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		sample := weather.ForecastSample{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			TempC:       item.Main.Temp,
			TempMinC:    item.Main.TempMin,
			TempMaxC:    item.Main.TempMax,
			HumidityPct: item.Main.Humidity,
			WindSpeedMS: item.Wind.Speed,
			PrecipProb:  item.Pop,
		}
		if len(item.Weather) > 0 {
			sample.Condition = item.Weather[0].Main
			sample.IconCode = item.Weather[0].Icon
		}
		samples = append(samples, sample)
	}

	p.count(facetForecast, "success")
	return weather.ForecastSeries{
		Samples:     samples,
		TimezoneSec: payload.City.Timezone,
	}, nil
}

// AirQuality fetches the air-pollution facet.
func (p *OpenWeatherProvider) AirQuality(ctx context.Context, lat, lon float64) (weather.AirQualityReading, error) {
	resp, err := p.get(ctx, p.cfg.BaseURL+"/air_pollution", p.coordValues(lat, lon, false))
	if err != nil {
		p.count(facetAirQuality, "error")
		return weather.AirQualityReading{}, &weather.ProviderError{Facet: facetAirQuality, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components struct {
				PM25 float64 `json:"pm2_5"`
				PM10 float64 `json:"pm10"`
				O3   float64 `json:"o3"`
				NO2  float64 `json:"no2"`
				SO2  float64 `json:"so2"`
				CO   float64 `json:"co"`
			} `json:"components"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		p.count(facetAirQuality, "malformed")
		return weather.AirQualityReading{}, &weather.MalformedResponseError{Facet: facetAirQuality, Field: "body"}
	}
	if len(payload.List) == 0 {
		p.count(facetAirQuality, "malformed")
		return weather.AirQualityReading{}, &weather.MalformedResponseError{Facet: facetAirQuality, Field: "list"}
	}

	first := payload.List[0]
	p.count(facetAirQuality, "success")
	return weather.AirQualityReading{
		Index: first.Main.AQI,
		PM25:  first.Components.PM25,
		PM10:  first.Components.PM10,
		O3:    first.Components.O3,
		NO2:   first.Components.NO2,
		SO2:   first.Components.SO2,
		CO:    first.Components.CO,
	}, nil
}

func (p *OpenWeatherProvider) coordValues(lat, lon float64, metric bool) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("appid", p.cfg.APIKey)
	if metric {
		values.Set("units", "metric")
	}
	return values
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, values url.Values) (*http.Response, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	}
	return doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
}

func (p *OpenWeatherProvider) count(facet, outcome string) {
	if p.metrics != nil {
		p.metrics.ProviderRequests.WithLabelValues(facet, outcome).Inc()
	}
}
