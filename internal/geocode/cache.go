// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"strings"
	"time"

	"github.com/wneessen/weather-search/internal/logger"
)

// CachedGeocoder remembers search results of the wrapped Geocoder in a Store. Queries
// with matches are kept for ttlHit, queries without any match for ttlMiss.
type CachedGeocoder struct {
	coder   Geocoder
	store   Store
	log     *logger.Logger
	ttlHit  time.Duration
	ttlMiss time.Duration
}

func NewCachedGeocoder(coder Geocoder, store Store, log *logger.Logger, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		store:   store,
		log:     log,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

func (c *CachedGeocoder) Search(ctx context.Context, query string) ([]Place, error) {
	key := cacheKey(c.coder.Name(), query)

	places, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("failed to read geocode cache, querying provider", logger.Err(err))
	}
	if ok {
		hits := make([]Place, len(places))
		for i, place := range places {
			place.CacheHit = true
			hits[i] = place
		}
		return hits, nil
	}

	places, err = c.coder.Search(ctx, query)
	if err != nil {
		return places, err
	}

	ttl := c.ttlHit
	if len(places) == 0 {
		ttl = c.ttlMiss
	}
	if err = c.store.Set(ctx, key, places, ttl); err != nil {
		c.log.Warn("failed to write geocode cache", logger.Err(err))
	}

	return places, nil
}

// cacheKey normalizes query so that case and surrounding or repeated whitespace do not
// cause separate cache entries.
func cacheKey(provider, query string) string {
	return provider + ":" + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
