// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import "context"

// Place is a single geocoding match for a free-text query.
type Place struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Country     string  `json:"country"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	// Timezone is the IANA zone name of the place, empty if the provider does not know it.
	Timezone string `json:"timezone,omitempty"`
	CacheHit bool   `json:"-"`
}

// Geocoder looks up places by name. Providers return the matches in the order of
// relevance they were delivered in; no match is an empty slice and not an error.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) ([]Place, error)
}
