// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package metaweather implements a weather.Source for APIs speaking the MetaWeather location
// and forecast schema.
package metaweather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/weather-search/internal/http"
	"github.com/wneessen/weather-search/internal/vartype"
	"github.com/wneessen/weather-search/internal/weather"
)

const (
	DefaultBaseURL = "https://www.metaweather.com/api/location"
	name           = "metaweather"
	dateLayout     = "2006-01-02"
)

type MetaWeather struct {
	http    *http.Client
	baseURL string
}

type location struct {
	Title        string `json:"title"`
	LocationType string `json:"location_type"`
	WOEID        int64  `json:"woeid"`
	LattLong     string `json:"latt_long"`
}

type response struct {
	location
	Time                apiTime        `json:"time"`
	SunRise             apiTime        `json:"sun_rise"`
	SunSet              apiTime        `json:"sun_set"`
	Timezone            string         `json:"timezone"`
	ConsolidatedWeather []consolidated `json:"consolidated_weather"`
}

type consolidated struct {
	ID               int64    `json:"id"`
	WeatherStateName string   `json:"weather_state_name"`
	WeatherStateAbbr string   `json:"weather_state_abbr"`
	ApplicableDate   apiDate  `json:"applicable_date"`
	MinTemp          float64  `json:"min_temp"`
	MaxTemp          float64  `json:"max_temp"`
	TheTemp          float64  `json:"the_temp"`
	WindSpeed        float64  `json:"wind_speed"`
	AirPressure      *float64 `json:"air_pressure"`
	Humidity         *float64 `json:"humidity"`
	Predictability   *float64 `json:"predictability"`
}

type apiTime struct {
	time.Time
}

type apiDate struct {
	time.Time
}

// New returns a MetaWeather source for the API rooted at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(client *http.Client, baseURL string) (*MetaWeather, error) {
	if client == nil {
		return nil, errors.New("http client is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return &MetaWeather{http: client, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (m *MetaWeather) Name() string {
	return name
}

func (m *MetaWeather) ResolveLocation(ctx context.Context, query string) ([]weather.LocationCandidate, error) {
	var locations []location
	params := url.Values{}
	params.Set("query", query)

	if _, err := m.http.Get(ctx, m.baseURL+"/search/", &locations, params, nil); err != nil {
		return nil, fmt.Errorf("%w: location search failed: %w", weather.ErrUnreachable, err)
	}

	candidates := make([]weather.LocationCandidate, 0, len(locations))
	for _, loc := range locations {
		candidate := weather.LocationCandidate{
			Key:   strconv.FormatInt(loc.WOEID, 10),
			Title: loc.Title,
		}
		if coords, err := parseLattLong(loc.LattLong); err == nil {
			candidate.Coordinates.Set(coords)
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (m *MetaWeather) FetchForecast(ctx context.Context, locationKey string) (*weather.RawForecast, error) {
	res := new(response)
	endpoint := m.baseURL + "/" + url.PathEscape(locationKey) + "/"

	if _, err := m.http.Get(ctx, endpoint, res, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: forecast fetch failed: %w", weather.ErrUnreachable, err)
	}

	forecast := &weather.RawForecast{
		Title:       res.Title,
		GeneratedAt: res.Time.Time,
		Days:        make([]weather.DailyRecord, 0, len(res.ConsolidatedWeather)),
	}
	if coords, err := parseLattLong(res.LattLong); err == nil {
		forecast.Coordinates.Set(coords)
	}
	if zone, err := time.LoadLocation(res.Timezone); err == nil && res.Timezone != "" {
		forecast.Location = zone
	}
	if !res.SunRise.IsZero() {
		forecast.Sunrise.Set(res.SunRise.Time)
	}
	if !res.SunSet.IsZero() {
		forecast.Sunset.Set(res.SunSet.Time)
	}
	for _, day := range res.ConsolidatedWeather {
		forecast.Days = append(forecast.Days, weather.DailyRecord{
			ApplicableDate: day.ApplicableDate.Time,
			Temperature:    day.TheTemp,
			MinTemperature: day.MinTemp,
			MaxTemperature: day.MaxTemp,
			WindSpeed:      day.WindSpeed,
			Humidity:       optional(day.Humidity),
			AirPressure:    optional(day.AirPressure),
			Predictability: optional(day.Predictability),
			StateName:      day.WeatherStateName,
			StateIcon:      day.WeatherStateAbbr,
		})
	}

	return forecast, nil
}

func optional(val *float64) vartype.VarFloat64 {
	if val == nil {
		return vartype.VarFloat64{}
	}
	return vartype.NewVariable(*val)
}

// parseLattLong parses the "lat,lon" notation of the API.
func parseLattLong(val string) (weather.Coordinate, error) {
	lat, lon, ok := strings.Cut(val, ",")
	if !ok {
		return weather.Coordinate{}, fmt.Errorf("invalid latt_long value: %q", val)
	}
	var coords weather.Coordinate
	var err error
	if coords.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return coords, fmt.Errorf("failed to parse latitude: %w", err)
	}
	if coords.Lon, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
		return coords, fmt.Errorf("failed to parse longitude: %w", err)
	}
	return coords, nil
}

func (r *apiTime) UnmarshalJSON(b []byte) error {
	val, err := unquote(b)
	if err != nil || val == "" {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return fmt.Errorf("failed to parse time: %w", err)
	}
	r.Time = parsed
	return nil
}

func (r *apiDate) UnmarshalJSON(b []byte) error {
	val, err := unquote(b)
	if err != nil {
		return err
	}
	parsed, err := time.Parse(dateLayout, val)
	if err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}
	r.Time = parsed
	return nil
}

// unquote returns the string content of a JSON string token. null yields an empty string.
func unquote(b []byte) (string, error) {
	if string(b) == "null" {
		return "", nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return "", fmt.Errorf("invalid time format: %s", string(b))
	}
	return string(b[1 : len(b)-1]), nil
}
