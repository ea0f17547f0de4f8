package weather

import (
	"context"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
)

const (
	searchLimit    = 10
	minSearchRunes = 3
)

// Service is the aggregation pipeline: it turns a free-text location query
// into one internally consistent Snapshot, or a typed failure. It holds no
// state across calls; concurrent invocations are independent and the caller
// is responsible for discarding stale results (last caller wins).
type Service struct {
	provider   Provider
	clock      clockwork.Clock
	thresholds AlertThresholds
}

// NewService creates a Service around the given provider.
func NewService(provider Provider, clock clockwork.Clock) *Service {
	return &Service{
		provider:   provider,
		clock:      clock,
		thresholds: DefaultAlertThresholds(),
	}
}

// WithThresholds overrides the alert trigger values.
func (s *Service) WithThresholds(th AlertThresholds) *Service {
	s.thresholds = th
	return s
}

// GetSnapshot resolves the query, fetches the three weather facets
// concurrently, and assembles a Snapshot. Current-conditions and forecast
// failures are fatal; an air-quality failure degrades to the documented
// default reading. The pipeline performs no retries of its own.
func (s *Service) GetSnapshot(ctx context.Context, query string) (*Snapshot, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrLocationNotFound
	}

	candidates, err := s.provider.Geocode(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrLocationNotFound
	}
	loc := candidates[0]

	// Fan out the three independent facets so total latency is bounded by
	// the slowest single call, then fan in.
	var (
		wg sync.WaitGroup

		obs    CurrentObservation
		obsErr error

		series    ForecastSeries
		seriesErr error

		air    AirQualityReading
		airErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		obs, obsErr = s.provider.Current(ctx, loc.Lat, loc.Lon)
	}()
	go func() {
		defer wg.Done()
		series, seriesErr = s.provider.Forecast(ctx, loc.Lat, loc.Lon)
	}()
	go func() {
		defer wg.Done()
		air, airErr = s.provider.AirQuality(ctx, loc.Lat, loc.Lon)
	}()
	wg.Wait()

	if obsErr != nil {
		return nil, obsErr
	}
	if seriesErr != nil {
		return nil, seriesErr
	}

	airQuality := DefaultAirQuality()
	if airErr != nil {
		log.Printf("air quality fetch failed for %s: %v; using default reading", loc.DisplayName(), airErr)
	} else {
		airQuality = NormalizeAirQuality(air)
	}

	now := s.clock.Now()

	return &Snapshot{
		Location:   loc,
		Current:    BuildCurrentConditions(obs),
		Daily:      BuildDailyForecast(series, MaxDailyBuckets),
		Hourly:     BuildHourlyForecast(series, MaxHourlySamples),
		Alerts:     DeriveAlerts(now, obs, series.Samples, s.thresholds),
		AirQuality: airQuality,
		FetchedAt:  now.UTC(),
	}, nil
}

// SearchLocations returns up to ten geocoding candidates for autocomplete.
// Queries shorter than three runes return an empty list without calling the
// provider.
func (s *Service) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchRunes {
		return nil, nil
	}
	return s.provider.Geocode(ctx, query, searchLimit)
}
