package weather

import (
	"time"
)

// AlertSeverity classifies how serious a derived weather alert is.
type AlertSeverity string

const (
	SeverityMinor    AlertSeverity = "minor"
	SeverityModerate AlertSeverity = "moderate"
	SeveritySevere   AlertSeverity = "severe"
	SeverityExtreme  AlertSeverity = "extreme"
)

// Location is a geocoded place resolved from a free-text query.
type Location struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// DisplayName returns the canonical "<name>[, <region>], <country>" label,
// omitting the region when the geocoder did not supply one.
func (l Location) DisplayName() string {
	s := l.Name
	if l.Region != "" {
		s += ", " + l.Region
	}
	if l.Country != "" {
		s += ", " + l.Country
	}
	return s
}

// CurrentConditions is the normalized view of the current-weather facet.
// All temperatures are whole-degree Celsius; wind is km/h.
type CurrentConditions struct {
	Temperature   int    `json:"temperature"`
	FeelsLike     int    `json:"feelsLike"`
	Condition     string `json:"condition"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Humidity      int    `json:"humidity"`
	WindSpeed     int    `json:"windSpeed"`
	WindDirection int    `json:"windDirection"`
	WindCompass   string `json:"windCompass"`
	Pressure      int    `json:"pressure"`
	Visibility    int    `json:"visibility"` // km
	UVIndex       int    `json:"uvIndex"`
	Sunrise       string `json:"sunrise"` // 24-hour local clock, HH:MM
	Sunset        string `json:"sunset"`
}

// DailyForecast is one calendar-date bucket aggregated from the forecast series.
type DailyForecast struct {
	Date          string `json:"date"` // local calendar date, YYYY-MM-DD
	High          int    `json:"high"`
	Low           int    `json:"low"`
	Condition     string `json:"condition"`
	Icon          string `json:"icon"`
	Precipitation int    `json:"precipitation"` // probability, percent
	Humidity      int    `json:"humidity"`
	WindSpeed     int    `json:"windSpeed"` // km/h
}

// HourlyForecast is one raw forecast sample passed through without bucketing.
type HourlyForecast struct {
	Time          time.Time `json:"time"`
	Temperature   int       `json:"temperature"`
	Condition     string    `json:"condition"`
	Icon          string    `json:"icon"`
	Precipitation int       `json:"precipitation"`
	WindSpeed     int       `json:"windSpeed"`
}

// Alert is a threshold-derived advisory. Alerts are regenerated on every
// fetch; none are persisted or deduplicated across calls.
type Alert struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Severity    AlertSeverity `json:"severity"`
	StartTime   time.Time     `json:"startTime"`
	EndTime     time.Time     `json:"endTime"`
}

// AirQuality is the normalized air-quality facet.
type AirQuality struct {
	AQI   int     `json:"aqi"`
	Level string  `json:"level"`
	PM25  float64 `json:"pm25"`
	PM10  float64 `json:"pm10"`
	O3    float64 `json:"o3"`
	NO2   float64 `json:"no2"`
	SO2   float64 `json:"so2"`
	CO    float64 `json:"co"`
}

// Snapshot is the complete result of one pipeline invocation. It is built
// atomically from the three provider facets and replaces any prior snapshot
// wholesale; callers must not mutate it.
type Snapshot struct {
	Location   Location          `json:"location"`
	Current    CurrentConditions `json:"current"`
	Daily      []DailyForecast   `json:"dailyForecast"`
	Hourly     []HourlyForecast  `json:"hourlyForecast"`
	Alerts     []Alert           `json:"alerts"`
	AirQuality AirQuality        `json:"airQuality"`
	FetchedAt  time.Time         `json:"fetchedAt"` // always UTC
}
