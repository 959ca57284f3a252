// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-search/internal/geocode"
	"github.com/wneessen/weather-search/internal/http"
)

const (
	APISearchEndpoint = "https://geocoding-api.open-meteo.com/v1/search"
	name              = "open-meteo"
	resultCount       = "10"
)

type OpenMeteo struct {
	http *http.Client
	lang language.Tag
}

type response struct {
	Results []result `json:"results"`
}

type result struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Timezone  string  `json:"timezone"`
}

func New(client *http.Client, lang language.Tag) *OpenMeteo {
	return &OpenMeteo{http: client, lang: lang}
}

func (o *OpenMeteo) Name() string {
	return name
}

func (o *OpenMeteo) Search(ctx context.Context, query string) ([]geocode.Place, error) {
	var res response

	base, _ := o.lang.Base()
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", resultCount)
	params.Set("language", base.String())
	params.Set("format", "json")

	if _, err := o.http.Get(ctx, APISearchEndpoint, &res, params, nil); err != nil {
		return nil, fmt.Errorf("failed to search places with Open-Meteo geocoding API: %w", err)
	}

	places := make([]geocode.Place, 0, len(res.Results))
	for _, r := range res.Results {
		places = append(places, geocode.Place{
			Name:        r.Name,
			DisplayName: displayName(r.Name, r.Admin1, r.Country),
			Country:     r.Country,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Timezone:    r.Timezone,
		})
	}
	return places, nil
}

func displayName(parts ...string) string {
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			names = append(names, part)
		}
	}
	return strings.Join(names, ", ")
}
