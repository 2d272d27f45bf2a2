package nominatim

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory TTL cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *cache.Cache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. Entries
// expire after ttl.
func NewCachedGeocoder(inner domain.Geocoder, ttl time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, place string) (domain.GeocodingResult, error) {
	key := cacheKey(place)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(domain.GeocodingResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Geocode(ctx, place)
	if err != nil {
		return result, err
	}
	// Only cache matches so "not found" answers are retried on the next request.
	if result.Matched {
		c.cache.SetDefault(key, result)
	}
	return result, nil
}

// Len returns the number of live cache entries.
func (c *CachedGeocoder) Len() int { return c.cache.ItemCount() }

func cacheKey(place string) string {
	return "fwd:" + strings.Join(strings.Fields(strings.ToLower(place)), " ")
}
