// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"time"
	// Embedded zone data for locations that name their IANA time zone.
	_ "time/tzdata"

	"github.com/wneessen/weather-search/internal/vartype"
)

// ErrUnreachable is wrapped by every transport or server failure of a Source.
var ErrUnreachable = errors.New("weather source unreachable")

// Source is implemented by each weather API backend. ResolveLocation and FetchForecast are
// independent of each other; an empty candidate list is a valid result.
type Source interface {
	Name() string
	ResolveLocation(ctx context.Context, query string) ([]LocationCandidate, error)
	FetchForecast(ctx context.Context, locationKey string) (*RawForecast, error)
}

type Coordinate struct {
	Lat float64
	Lon float64
}

// LocationCandidate is one result of a location search. Key is opaque to everybody but
// the Source that issued it.
type LocationCandidate struct {
	Key         string
	Title       string
	Coordinates vartype.Variable[Coordinate]
}

// RawForecast is the forecast as delivered by a Source. Days are ordered by date and
// the first entry is today. Location is the time zone of the forecast location; nil means
// the Source could not tell and times stay in UTC.
type RawForecast struct {
	Title       string
	GeneratedAt time.Time
	Location    *time.Location
	Coordinates vartype.Variable[Coordinate]
	Sunrise     vartype.Variable[time.Time]
	Sunset      vartype.Variable[time.Time]
	Days        []DailyRecord
}

type DailyRecord struct {
	ApplicableDate time.Time
	Temperature    float64
	MinTemperature float64
	MaxTemperature float64
	WindSpeed      float64
	Humidity       vartype.VarFloat64
	AirPressure    vartype.VarFloat64
	Predictability vartype.VarFloat64
	StateName      string
	StateIcon      string
}
