package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Syed-Ali-7/civicfix-backend/internal/api/metrics"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
	"github.com/Syed-Ali-7/civicfix-backend/internal/infrastructure/geocode"
)

const defaultGeocodeTTL = 24 * time.Hour

// GeocodeCache decorates a Geocoder with a Redis lookup cache.
// Key format: geocode:<lat>:<lon> at six decimal places (~10 cm), matching
// the precision reported by devices. Only real addresses are cached;
// sentinel values would mask later successful lookups.
type GeocodeCache struct {
	client *redis.Client
	inner  ports.Geocoder
	ttl    time.Duration
	log    zerolog.Logger
}

// NewGeocodeCache creates a GeocodeCache wrapping the given client and live
// geocoder.
func NewGeocodeCache(client *redis.Client, inner ports.Geocoder, ttl time.Duration, log zerolog.Logger) *GeocodeCache {
	if ttl <= 0 {
		ttl = defaultGeocodeTTL
	}
	return &GeocodeCache{client: client, inner: inner, ttl: ttl, log: log}
}

// ReverseGeocode returns the cached address when present, falling through to
// the live geocoder otherwise. Cache errors are non-fatal.
func (g *GeocodeCache) ReverseGeocode(ctx context.Context, point domain.Point) string {
	key := g.key(point)

	cached, err := g.client.Get(ctx, key).Result()
	if err == nil && cached != "" {
		metrics.GeocodeLookupsTotal.WithLabelValues("cache_hit").Inc()
		return cached
	}
	if err != nil && err != redis.Nil {
		g.log.Warn().Err(err).Msg("geocode cache read failed, using live lookup")
	}

	addr := g.inner.ReverseGeocode(ctx, point)

	if !geocode.IsSentinel(addr) {
		if err := g.client.Set(ctx, key, addr, g.ttl).Err(); err != nil {
			g.log.Warn().Err(err).Msg("failed to cache geocode result")
		}
	}
	return addr
}

func (g *GeocodeCache) key(point domain.Point) string {
	return fmt.Sprintf("geocode:%.6f:%.6f", point.Lat, point.Lng)
}
