package weather

import (
	"strings"
	"time"
)

const (
	// MaxDailyBuckets caps the daily view at one week.
	MaxDailyBuckets = 7
	// MaxHourlySamples caps the hourly view at one day of 3-hour samples.
	MaxHourlySamples = 24

	defaultVisibilityM = 10000
	defaultIconGlyph   = "☀️"
)

// iconGlyphs maps provider icon codes to stable display tokens.
var iconGlyphs = map[string]string{
	"01d": "☀️", "01n": "🌙",
	"02d": "⛅", "02n": "☁️",
	"03d": "☁️", "03n": "☁️",
	"04d": "☁️", "04n": "☁️",
	"09d": "🌧️", "09n": "🌧️",
	"10d": "🌦️", "10n": "🌧️",
	"11d": "⛈️", "11n": "⛈️",
	"13d": "❄️", "13n": "❄️",
	"50d": "🌫️", "50n": "🌫️",
}

// IconGlyph returns the display token for a provider icon code.
func IconGlyph(code string) string {
	if g, ok := iconGlyphs[code]; ok {
		return g
	}
	return defaultIconGlyph
}

// BuildCurrentConditions normalizes the current-weather facet. Temperatures
// are rounded to whole-degree Celsius, wind is converted to km/h, visibility
// to km (absent visibility defaults to 10 km). Sunrise/sunset are formatted
// as 24-hour clock strings in the location's own timezone. UV index is not
// supplied by the provider endpoint and is always reported as zero.
func BuildCurrentConditions(obs CurrentObservation) CurrentConditions {
	zone := time.FixedZone("local", obs.TimezoneSec)

	visibility := obs.VisibilityM
	if visibility == 0 {
		visibility = defaultVisibilityM
	}

	return CurrentConditions{
		Temperature:   roundInt(obs.TemperatureC),
		FeelsLike:     roundInt(obs.FeelsLikeC),
		Condition:     strings.ToLower(obs.Condition),
		Description:   obs.Description,
		Icon:          IconGlyph(obs.IconCode),
		Humidity:      roundInt(obs.HumidityPct),
		WindSpeed:     roundInt(MSToKMH(obs.WindSpeedMS)),
		WindDirection: roundInt(obs.WindDeg),
		WindCompass:   CompassDirection(obs.WindDeg),
		Pressure:      roundInt(obs.PressureHpa),
		Visibility:    roundInt(visibility / 1000),
		UVIndex:       0,
		Sunrise:       time.Unix(obs.SunriseUnix, 0).In(zone).Format("15:04"),
		Sunset:        time.Unix(obs.SunsetUnix, 0).In(zone).Format("15:04"),
	}
}

// dailyBucket accumulates one calendar date at full precision; rounding
// happens only when the bucket is emitted.
type dailyBucket struct {
	date      string
	high      float64
	low       float64
	precip    float64
	condition string
	icon      string
	humidity  float64
	windMS    float64
}

// BuildDailyForecast groups the forecast series into calendar-date buckets
// using the location's local date, not a timezone-naive cutoff. Per bucket:
// high is the max of sample maxima, low the min of sample minima, and
// precipitation the max probability seen (a single high-probability sample
// should surface the risk). Condition, icon, humidity, and wind come from
// the bucket's first sample. At most maxDays buckets are emitted, in
// chronological order.
func BuildDailyForecast(series ForecastSeries, maxDays int) []DailyForecast {
	zone := time.FixedZone("local", series.TimezoneSec)

	var order []string
	buckets := make(map[string]*dailyBucket)

	for _, s := range series.Samples {
		date := s.Timestamp.In(zone).Format("2006-01-02")

		b, ok := buckets[date]
		if !ok {
			b = &dailyBucket{
				date:      date,
				high:      s.TempMaxC,
				low:       s.TempMinC,
				precip:    s.PrecipProb * 100,
				condition: strings.ToLower(s.Condition),
				icon:      IconGlyph(s.IconCode),
				humidity:  s.HumidityPct,
				windMS:    s.WindSpeedMS,
			}
			buckets[date] = b
			order = append(order, date)
			continue
		}

		if s.TempMaxC > b.high {
			b.high = s.TempMaxC
		}
		if s.TempMinC < b.low {
			b.low = s.TempMinC
		}
		if p := s.PrecipProb * 100; p > b.precip {
			b.precip = p
		}
	}

	if len(order) > maxDays {
		order = order[:maxDays]
	}

	daily := make([]DailyForecast, 0, len(order))
	for _, date := range order {
		b := buckets[date]
		daily = append(daily, DailyForecast{
			Date:          b.date,
			High:          roundInt(b.high),
			Low:           roundInt(b.low),
			Condition:     b.condition,
			Icon:          b.icon,
			Precipitation: roundInt(b.precip),
			Humidity:      roundInt(b.humidity),
			WindSpeed:     roundInt(MSToKMH(b.windMS)),
		})
	}
	return daily
}

// BuildHourlyForecast passes the first maxHours raw samples through verbatim:
// no bucketing, temperature rounded, precipitation as a percentage, wind
// converted from m/s to km/h. Timestamps are expressed in the location's zone.
func BuildHourlyForecast(series ForecastSeries, maxHours int) []HourlyForecast {
	zone := time.FixedZone("local", series.TimezoneSec)

	samples := series.Samples
	if len(samples) > maxHours {
		samples = samples[:maxHours]
	}

	hourly := make([]HourlyForecast, 0, len(samples))
	for _, s := range samples {
		hourly = append(hourly, HourlyForecast{
			Time:          s.Timestamp.In(zone),
			Temperature:   roundInt(s.TempC),
			Condition:     strings.ToLower(s.Condition),
			Icon:          IconGlyph(s.IconCode),
			Precipitation: roundInt(s.PrecipProb * 100),
			WindSpeed:     roundInt(MSToKMH(s.WindSpeedMS)),
		})
	}
	return hourly
}

// DefaultAirQuality is the documented fallback used when the air-quality
// facet fails: the snapshot still assembles with a neutral "Good" reading.
func DefaultAirQuality() AirQuality {
	return AirQuality{
		AQI:   50,
		Level: "Good",
		PM25:  10,
		PM10:  20,
		O3:    60,
		NO2:   20,
		SO2:   5,
		CO:    0.5,
	}
}

// NormalizeAirQuality scales the provider's coarse 1-5 index onto a 0-250
// AQI-like scale and attaches a level label. Missing pollutant components
// arrive as zero and are kept as zero.
func NormalizeAirQuality(r AirQualityReading) AirQuality {
	aqi := r.Index * 50

	level := "Good"
	switch {
	case aqi > 200:
		level = "Very Unhealthy"
	case aqi > 150:
		level = "Unhealthy"
	case aqi > 100:
		level = "Unhealthy for Sensitive Groups"
	case aqi > 50:
		level = "Moderate"
	}

	return AirQuality{
		AQI:   aqi,
		Level: level,
		PM25:  r.PM25,
		PM10:  r.PM10,
		O3:    r.O3,
		NO2:   r.NO2,
		SO2:   r.SO2,
		CO:    r.CO,
	}
}
