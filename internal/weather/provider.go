package weather

import (
	"context"
	"time"
)

// CurrentObservation is a provider's raw-but-normalized current-conditions
// facet. Temperatures are Celsius, wind is m/s, visibility is meters.
type CurrentObservation struct {
	TemperatureC float64
	FeelsLikeC   float64
	Condition    string // provider condition group, e.g. "Rain"
	Description  string
	IconCode     string // provider icon code, e.g. "10d"
	HumidityPct  float64
	WindSpeedMS  float64
	WindDeg      float64
	PressureHpa  float64
	VisibilityM  float64
	SunriseUnix  int64
	SunsetUnix   int64
	TimezoneSec  int // location's UTC offset in seconds
}

// ForecastSample is one fixed-interval sample of the forecast series.
type ForecastSample struct {
	Timestamp   time.Time // UTC
	TempC       float64
	TempMinC    float64
	TempMaxC    float64
	Condition   string
	IconCode    string
	HumidityPct float64
	WindSpeedMS float64
	PrecipProb  float64 // 0..1, absent treated as zero
}

// ForecastSeries holds the full sub-daily forecast for one location.
type ForecastSeries struct {
	Samples     []ForecastSample
	TimezoneSec int
}

// AirQualityReading is the provider's coarse air-quality facet.
type AirQualityReading struct {
	Index int // provider scale, 1..5
	PM25  float64
	PM10  float64
	O3    float64
	NO2   float64
	SO2   float64
	CO    float64
}

// Provider abstracts the external weather data source. Implementations must
// return *ProviderError for transport failures and *MalformedResponseError
// for payloads missing required fields.
type Provider interface {
	Geocode(ctx context.Context, query string, limit int) ([]Location, error)
	Current(ctx context.Context, lat, lon float64) (CurrentObservation, error)
	Forecast(ctx context.Context, lat, lon float64) (ForecastSeries, error)
	AirQuality(ctx context.Context, lat, lon float64) (AirQualityReading, error)
}
