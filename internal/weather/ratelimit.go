// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedSource wraps a Source with a token bucket shared by both operations.
type RateLimitedSource struct {
	source  Source
	limiter *rate.Limiter
}

// NewRateLimitedSource creates a new rate limited source. rps is the maximum requests per
// second allowed (can be fractional), burst the maximum burst size.
func NewRateLimitedSource(source Source, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedSource) Name() string {
	return r.source.Name() + " [rate limited]"
}

func (r *RateLimitedSource) ResolveLocation(ctx context.Context, query string) ([]LocationCandidate, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait canceled: %w", ErrUnreachable, err)
	}
	return r.source.ResolveLocation(ctx, query)
}

func (r *RateLimitedSource) FetchForecast(ctx context.Context, locationKey string) (*RawForecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait canceled: %w", ErrUnreachable, err)
	}
	return r.source.FetchForecast(ctx, locationKey)
}
