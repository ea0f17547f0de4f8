package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/observability"
)

func TestCachedProviderGeocode(t *testing.T) {
	var calls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("q") == "atlantis" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"name":"Paris","country":"FR","lat":48.85,"lon":2.35}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	metrics := observability.NewMetricsForTesting()
	inner := NewOpenWeatherProvider(server.Client(), OpenWeatherConfig{
		APIKey: "test-key",
		GeoURL: server.URL + "/geo/1.0",
	}, metrics)
	cached := NewCachedProvider(inner, 10, metrics)

	t.Run("repeated query hits the cache", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			locations, err := cached.Geocode(context.Background(), "Paris", 1)
			require.NoError(t, err)
			require.Len(t, locations, 1)
		}
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("key is query-insensitive to case and spacing", func(t *testing.T) {
		_, err := cached.Geocode(context.Background(), "  PARIS ", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("empty results are not cached", func(t *testing.T) {
		before := calls.Load()
		for i := 0; i < 2; i++ {
			locations, err := cached.Geocode(context.Background(), "atlantis", 1)
			require.NoError(t, err)
			assert.Empty(t, locations)
		}
		assert.Equal(t, before+2, calls.Load())
	})
}

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", nil)
	c.put("b", nil)
	if _, ok := c.get("a"); !ok { // touch "a" so "b" becomes the eviction victim
		t.Fatal("expected a to be cached")
	}
	c.put("c", nil)

	_, okA := c.get("a")
	_, okB := c.get("b")
	_, okC := c.get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}
