// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"

	"github.com/wneessen/weather-search/internal/metrics"
)

// InstrumentedSource counts every request of the wrapped Source.
type InstrumentedSource struct {
	source Source
}

func NewInstrumentedSource(source Source) *InstrumentedSource {
	return &InstrumentedSource{source: source}
}

func (i *InstrumentedSource) Name() string {
	return i.source.Name()
}

func (i *InstrumentedSource) ResolveLocation(ctx context.Context, query string) ([]LocationCandidate, error) {
	candidates, err := i.source.ResolveLocation(ctx, query)
	metrics.RecordSourceRequest(i.source.Name(), "resolve_location", err)
	return candidates, err
}

func (i *InstrumentedSource) FetchForecast(ctx context.Context, locationKey string) (*RawForecast, error) {
	forecast, err := i.source.FetchForecast(ctx, locationKey)
	metrics.RecordSourceRequest(i.source.Name(), "fetch_forecast", err)
	return forecast, err
}
