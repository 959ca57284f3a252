// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-search/internal/geocode"
	"github.com/wneessen/weather-search/internal/http"
)

const (
	APISearchEndpoint = "https://nominatim.openstreetmap.org/search"
	name              = "osm-nominatim"
	resultLimit       = "10"
)

type Nominatim struct {
	http *http.Client
	lang language.Tag
}

type SearchResult struct {
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Country string `json:"country"`
}

func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		lang: lang,
		http: client,
	}
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Search(ctx context.Context, query string) ([]geocode.Place, error) {
	var results []SearchResult

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", resultLimit)
	params.Set("q", query)
	params.Set("accept-language", n.lang.String())

	if _, err := n.http.Get(ctx, APISearchEndpoint, &results, params, nil); err != nil {
		return nil, fmt.Errorf("failed to search places with Nominatim API: %w", err)
	}

	places := make([]geocode.Place, 0, len(results))
	for _, result := range results {
		place, err := result.place()
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}

	return places, nil
}

func (r SearchResult) place() (geocode.Place, error) {
	var err error
	place := geocode.Place{
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Country:     r.Address.Country,
	}
	if place.Name == "" {
		switch {
		case r.Address.City != "":
			place.Name = r.Address.City
		case r.Address.Town != "":
			place.Name = r.Address.Town
		default:
			place.Name = r.Address.Village
		}
	}
	place.Latitude, err = strconv.ParseFloat(r.APILat, 64)
	if err != nil {
		return place, fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err)
	}
	place.Longitude, err = strconv.ParseFloat(r.APILon, 64)
	if err != nil {
		return place, fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err)
	}
	return place, nil
}
