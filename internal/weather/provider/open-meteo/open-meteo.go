// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package openmeteo implements a weather.Source that resolves locations through a geocoder
// and fetches daily forecasts from the Open-Meteo API.
package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/weather-search/internal/geocode"
	"github.com/wneessen/weather-search/internal/http"
	"github.com/wneessen/weather-search/internal/vartype"
	"github.com/wneessen/weather-search/internal/weather"
)

const (
	name = "open-meteo"

	metricWeatherCode = "weather_code"
	metricTempMax     = "temperature_2m_max"
	metricTempMin     = "temperature_2m_min"
	metricWindMax     = "wind_speed_10m_max"
	metricHumidity    = "relative_humidity_2m_mean"
	metricPressure    = "pressure_msl_mean"
)

var dailyMetrics = []string{
	metricWeatherCode, metricTempMax, metricTempMin, metricWindMax, metricHumidity, metricPressure,
}

// forecaster is satisfied by *omgo.Client.
type forecaster interface {
	Forecast(ctx context.Context, loc omgo.Location, opts *omgo.Options) (*omgo.Forecast, error)
}

type OpenMeteo struct {
	coder  geocode.Geocoder
	client forecaster
}

// New returns an Open-Meteo source. Forecast requests go out through client, so they
// share its timeout and proxy prefix with every other API request.
func New(coder geocode.Geocoder, client *http.Client) (*OpenMeteo, error) {
	if coder == nil {
		return nil, errors.New("geocoder is required")
	}
	if client == nil {
		return nil, errors.New("http client is required")
	}
	omClient, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	omClient.URL = client.ProxiedURL(omClient.URL)
	omClient.UserAgent = http.UserAgent
	omClient.Client = client.Client
	return &OpenMeteo{coder: coder, client: &omClient}, nil
}

func (o *OpenMeteo) Name() string {
	return name + " via " + o.coder.Name()
}

// ResolveLocation searches the geocoder. The location key carries coordinates, name and
// time zone so that FetchForecast needs no second lookup.
func (o *OpenMeteo) ResolveLocation(ctx context.Context, query string) ([]weather.LocationCandidate, error) {
	places, err := o.coder.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: location search failed: %w", weather.ErrUnreachable, err)
	}

	candidates := make([]weather.LocationCandidate, 0, len(places))
	for _, place := range places {
		coords := weather.Coordinate{Lat: place.Latitude, Lon: place.Longitude}
		candidates = append(candidates, weather.LocationCandidate{
			Key:         encodeKey(coords, place.Name, place.Timezone),
			Title:       place.Name,
			Coordinates: vartype.NewVariable(coords),
		})
	}
	return candidates, nil
}

func (o *OpenMeteo) FetchForecast(ctx context.Context, locationKey string) (*weather.RawForecast, error) {
	key, err := decodeKey(locationKey)
	if err != nil {
		return nil, err
	}
	loc, err := omgo.NewLocation(key.coords.Lat, key.coords.Lon)
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo location: %w", err)
	}

	// omgo places the zone into the query verbatim
	timezone := "auto"
	if key.timezone != "" {
		timezone = url.QueryEscape(key.timezone)
	}
	res, err := o.client.Forecast(ctx, loc, &omgo.Options{
		TemperatureUnit:   "celsius",
		WindspeedUnit:     "kmh",
		PrecipitationUnit: "mm",
		Timezone:          timezone,
		DailyMetrics:      dailyMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: forecast fetch failed: %w", weather.ErrUnreachable, err)
	}

	return convert(res, key), nil
}

func convert(res *omgo.Forecast, key placeKey) *weather.RawForecast {
	forecast := &weather.RawForecast{
		Title:       key.title,
		GeneratedAt: time.Now(),
		Location:    zoneFor(key),
		Coordinates: vartype.NewVariable(key.coords),
		Days:        make([]weather.DailyRecord, 0, len(res.DailyTimes)),
	}
	for i, day := range res.DailyTimes {
		stateName, stateIcon := stateForCode(int(metric(res, metricWeatherCode, i).Value()))
		record := weather.DailyRecord{
			ApplicableDate: time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			MinTemperature: metric(res, metricTempMin, i).Value(),
			MaxTemperature: metric(res, metricTempMax, i).Value(),
			WindSpeed:      metric(res, metricWindMax, i).Value(),
			Humidity:       metric(res, metricHumidity, i),
			AirPressure:    metric(res, metricPressure, i),
			StateName:      stateName,
			StateIcon:      stateIcon,
		}
		record.Temperature = (record.MinTemperature + record.MaxTemperature) / 2
		forecast.Days = append(forecast.Days, record)
	}
	if len(forecast.Days) > 0 && !res.CurrentWeather.Time.IsZero() {
		forecast.Days[0].Temperature = res.CurrentWeather.Temperature
	}
	return forecast
}

func metric(res *omgo.Forecast, key string, idx int) vartype.VarFloat64 {
	values, ok := res.DailyMetrics[key]
	if !ok || idx >= len(values) {
		return vartype.VarFloat64{}
	}
	return vartype.NewVariable(values[idx])
}

// zoneFor returns the named zone of the location. Places without a known zone get a fixed
// zone of whole hours derived from the longitude.
func zoneFor(key placeKey) *time.Location {
	if key.timezone != "" {
		if zone, err := time.LoadLocation(key.timezone); err == nil {
			return zone
		}
	}
	hours := int(math.Round(key.coords.Lon / 15))
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
}

type placeKey struct {
	coords   weather.Coordinate
	title    string
	timezone string
}

func encodeKey(coords weather.Coordinate, title, timezone string) string {
	vals := url.Values{}
	vals.Set("lat", strconv.FormatFloat(coords.Lat, 'f', 4, 64))
	vals.Set("lon", strconv.FormatFloat(coords.Lon, 'f', 4, 64))
	vals.Set("name", title)
	if timezone != "" {
		vals.Set("tz", timezone)
	}
	return vals.Encode()
}

func decodeKey(raw string) (placeKey, error) {
	var key placeKey
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return key, fmt.Errorf("invalid location key %q: %w", raw, err)
	}
	if key.coords.Lat, err = strconv.ParseFloat(vals.Get("lat"), 64); err != nil {
		return key, fmt.Errorf("invalid latitude in location key %q: %w", raw, err)
	}
	if key.coords.Lon, err = strconv.ParseFloat(vals.Get("lon"), 64); err != nil {
		return key, fmt.Errorf("invalid longitude in location key %q: %w", raw, err)
	}
	key.title = vals.Get("name")
	key.timezone = vals.Get("tz")
	return key, nil
}
