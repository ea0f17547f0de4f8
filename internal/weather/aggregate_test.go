package weather

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(ts time.Time, min, max float64) ForecastSample {
	return ForecastSample{
		Timestamp:   ts,
		TempC:       (min + max) / 2,
		TempMinC:    min,
		TempMaxC:    max,
		Condition:   "Clouds",
		IconCode:    "03d",
		HumidityPct: 60,
		WindSpeedMS: 5,
	}
}

func TestBuildDailyForecastSingleDay(t *testing.T) {
	base := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	series := ForecastSeries{Samples: []ForecastSample{
		sampleAt(base, 20, 20),
		sampleAt(base.Add(3*time.Hour), 25, 25),
		sampleAt(base.Add(6*time.Hour), 18, 18),
	}}
	series.Samples[0].PrecipProb = 0.1
	series.Samples[1].PrecipProb = 0.6
	series.Samples[2].PrecipProb = 0.3

	daily := BuildDailyForecast(series, MaxDailyBuckets)

	require.Len(t, daily, 1)
	assert.Equal(t, "2024-05-01", daily[0].Date)
	assert.Equal(t, 25, daily[0].High)
	assert.Equal(t, 18, daily[0].Low)
	// Max probability across the bucket, not the average.
	assert.Equal(t, 60, daily[0].Precipitation)
	assert.Equal(t, "clouds", daily[0].Condition)
	assert.Equal(t, 18, daily[0].WindSpeed) // 5 m/s → 18 km/h
}

func TestBuildDailyForecastCapsAtSevenDays(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var samples []ForecastSample
	for day := 0; day < 9; day++ {
		samples = append(samples, sampleAt(base.AddDate(0, 0, day), 10, 15))
	}

	daily := BuildDailyForecast(ForecastSeries{Samples: samples}, MaxDailyBuckets)

	require.Len(t, daily, MaxDailyBuckets)
	for i, d := range daily {
		assert.Equal(t, base.AddDate(0, 0, i).Format("2006-01-02"), d.Date)
	}
}

func TestBuildDailyForecastUsesLocalDate(t *testing.T) {
	// Late-evening UTC samples fall on the next local day at UTC+3.
	series := ForecastSeries{
		TimezoneSec: 3 * 3600,
		Samples: []ForecastSample{
			sampleAt(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), 12, 16),
			sampleAt(time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC), 8, 11),
			sampleAt(time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC), 7, 10),
		},
	}

	daily := BuildDailyForecast(series, MaxDailyBuckets)

	require.Len(t, daily, 2)
	assert.Equal(t, "2024-05-01", daily[0].Date)
	assert.Equal(t, "2024-05-02", daily[1].Date)
	assert.Equal(t, 11, daily[1].High)
	assert.Equal(t, 7, daily[1].Low)
}

func TestBuildDailyForecastRoundsAtEmission(t *testing.T) {
	base := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	series := ForecastSeries{Samples: []ForecastSample{
		sampleAt(base, 17.4, 24.3),
		sampleAt(base.Add(3*time.Hour), 17.6, 24.6),
	}}

	daily := BuildDailyForecast(series, MaxDailyBuckets)

	require.Len(t, daily, 1)
	assert.Equal(t, 25, daily[0].High) // max(24.3, 24.6) rounded once
	assert.Equal(t, 17, daily[0].Low)  // min(17.4, 17.6) rounded once
}

func TestBuildHourlyForecastLength(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, count := range []int{5, 24, 40} {
		var samples []ForecastSample
		for i := 0; i < count; i++ {
			samples = append(samples, sampleAt(base.Add(time.Duration(i)*3*time.Hour), 10, 12))
		}

		hourly := BuildHourlyForecast(ForecastSeries{Samples: samples}, MaxHourlySamples)

		want := count
		if want > MaxHourlySamples {
			want = MaxHourlySamples
		}
		assert.Lenf(t, hourly, want, "count=%d", count)
	}
}

func TestBuildHourlyForecastConversions(t *testing.T) {
	s := sampleAt(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), 10, 12)
	s.TempC = 19.6
	s.WindSpeedMS = 10
	s.PrecipProb = 0.45

	hourly := BuildHourlyForecast(ForecastSeries{Samples: []ForecastSample{s}}, MaxHourlySamples)

	require.Len(t, hourly, 1)
	assert.Equal(t, 20, hourly[0].Temperature)
	assert.Equal(t, 36, hourly[0].WindSpeed)
	assert.Equal(t, 45, hourly[0].Precipitation)
}

func TestBuildCurrentConditions(t *testing.T) {
	zone := time.FixedZone("local", 7200)
	sunrise := time.Date(2024, 5, 1, 6, 12, 0, 0, zone)
	sunset := time.Date(2024, 5, 1, 20, 47, 0, 0, zone)

	obs := CurrentObservation{
		TemperatureC: 21.4,
		FeelsLikeC:   22.6,
		Condition:    "Clear",
		Description:  "clear sky",
		IconCode:     "01d",
		HumidityPct:  55,
		WindSpeedMS:  4,
		WindDeg:      90,
		PressureHpa:  1013,
		VisibilityM:  8000,
		SunriseUnix:  sunrise.Unix(),
		SunsetUnix:   sunset.Unix(),
		TimezoneSec:  7200,
	}

	current := BuildCurrentConditions(obs)

	assert.Equal(t, 21, current.Temperature)
	assert.Equal(t, 23, current.FeelsLike)
	assert.Equal(t, "clear", current.Condition)
	assert.Equal(t, "☀️", current.Icon)
	assert.Equal(t, 14, current.WindSpeed) // 4 m/s → 14.4 km/h rounded
	assert.Equal(t, "E", current.WindCompass)
	assert.Equal(t, 8, current.Visibility)
	assert.Equal(t, 0, current.UVIndex)
	assert.Equal(t, "06:12", current.Sunrise)
	assert.Equal(t, "20:47", current.Sunset)
}

func TestBuildCurrentConditionsDefaultVisibility(t *testing.T) {
	current := BuildCurrentConditions(CurrentObservation{})
	assert.Equal(t, 10, current.Visibility)
}

func TestIconGlyph(t *testing.T) {
	assert.Equal(t, "🌙", IconGlyph("01n"))
	assert.Equal(t, "⛈️", IconGlyph("11d"))
	assert.Equal(t, "☀️", IconGlyph("no-such-code"))
}

func TestNormalizeAirQuality(t *testing.T) {
	tests := []struct {
		index     int
		wantAQI   int
		wantLevel string
	}{
		{1, 50, "Good"},
		{2, 100, "Moderate"},
		{3, 150, "Unhealthy for Sensitive Groups"},
		{4, 200, "Unhealthy"},
		{5, 250, "Very Unhealthy"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("index %d", tc.index), func(t *testing.T) {
			aq := NormalizeAirQuality(AirQualityReading{Index: tc.index, PM25: 12.5})
			assert.Equal(t, tc.wantAQI, aq.AQI)
			assert.Equal(t, tc.wantLevel, aq.Level)
			assert.Equal(t, 12.5, aq.PM25)
		})
	}
}

func TestDefaultAirQuality(t *testing.T) {
	aq := DefaultAirQuality()
	assert.Equal(t, 50, aq.AQI)
	assert.Equal(t, "Good", aq.Level)
	assert.Equal(t, 10.0, aq.PM25)
	assert.Equal(t, 0.5, aq.CO)
}
