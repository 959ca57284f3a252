// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package forecast turns the raw forecast of a weather source into the display ready
// structure the presenters render.
package forecast

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weather-search/internal/vartype"
	"github.com/wneessen/weather-search/internal/weather"
)

// ErrEmptyForecast is returned for forecasts without a single daily record.
var ErrEmptyForecast = errors.New("forecast contains no daily records")

const (
	UnitPercent     = "%"
	UnitSpeed       = "km/h"
	UnitPressure    = "mb"
	UnitTemperature = "°C"
)

type Forecast struct {
	Today    TodaySummary  `json:"today"`
	Details  []Detail      `json:"details"`
	Upcoming []UpcomingDay `json:"upcoming"`
}

type TodaySummary struct {
	Weekday      string                      `json:"weekday"`
	FullDate     string                      `json:"full_date"`
	LocationName string                      `json:"location_name"`
	IconCode     string                      `json:"icon_code"`
	Temperature  int                         `json:"temperature"`
	WeatherState string                      `json:"weather_state"`
	Sunrise      vartype.Variable[time.Time] `json:"sunrise"`
	Sunset       vartype.Variable[time.Time] `json:"sunset"`
	MoonPhase    string                      `json:"moon_phase"`
}

// Detail is one named metric of today's forecast.
type Detail struct {
	Name  string             `json:"name"`
	Value vartype.VarFloat64 `json:"value"`
	Unit  string             `json:"unit"`
}

type UpcomingDay struct {
	Weekday        string `json:"weekday"`
	IconCode       string `json:"icon_code"`
	MaxTemperature int    `json:"max_temperature"`
}

// Normalize derives the display structure from raw. Record 0 is today, all following
// records are upcoming days in delivery order. Normalize has no side effects.
func Normalize(raw *weather.RawForecast) (Forecast, error) {
	if raw == nil || len(raw.Days) == 0 {
		return Forecast{}, ErrEmptyForecast
	}

	today := raw.Days[0]
	forecast := Forecast{
		Today:    summary(raw, today),
		Details:  details(today),
		Upcoming: make([]UpcomingDay, 0, len(raw.Days)-1),
	}
	for _, day := range raw.Days[1:] {
		forecast.Upcoming = append(forecast.Upcoming, UpcomingDay{
			Weekday:        WeekdayAbbrev(day.ApplicableDate),
			IconCode:       day.StateIcon,
			MaxTemperature: Round(day.MaxTemperature),
		})
	}

	return forecast, nil
}

// Round rounds half up towards positive infinity: 16.5 → 17, -2.5 → -2.
// The fraction is compared on its own since val+0.5 can round up in float64.
func Round(val float64) int {
	whole := math.Floor(val)
	if val-whole >= 0.5 {
		whole++
	}
	return int(whole)
}

// WeekdayAbbrev returns the first three letters of the weekday of t.
func WeekdayAbbrev(t time.Time) string {
	return t.Weekday().String()[:3]
}

// FullDate formats t as month name and ordinal day, e.g. "October 8th".
func FullDate(t time.Time) string {
	return t.Month().String() + " " + ordinal(t.Day())
}

func summary(raw *weather.RawForecast, today weather.DailyRecord) TodaySummary {
	sum := TodaySummary{
		Weekday:      today.ApplicableDate.Weekday().String(),
		FullDate:     FullDate(today.ApplicableDate),
		LocationName: raw.Title,
		IconCode:     today.StateIcon,
		Temperature:  Round(today.Temperature),
		WeatherState: today.StateName,
		Sunrise:      raw.Sunrise,
		Sunset:       raw.Sunset,
		MoonPhase:    moonphase.New(noon(today.ApplicableDate)).PhaseName(),
	}

	if (!sum.Sunrise.IsSet() || !sum.Sunset.IsSet()) && raw.Coordinates.IsSet() {
		coords := raw.Coordinates.Value()
		date := today.ApplicableDate
		rise, set := sunrise.SunriseSunset(coords.Lat, coords.Lon, date.Year(), date.Month(), date.Day())
		// Polar day and night have no sunrise or sunset
		if !rise.IsZero() && !set.IsZero() {
			if raw.Location != nil {
				rise, set = rise.In(raw.Location), set.In(raw.Location)
			}
			sum.Sunrise.Set(rise)
			sum.Sunset.Set(set)
		}
	}

	return sum
}

func details(today weather.DailyRecord) []Detail {
	rounded := func(val float64) float64 { return float64(Round(val)) }
	list := []Detail{
		{Name: "predictability", Value: today.Predictability, Unit: UnitPercent},
		{Name: "humidity", Value: today.Humidity, Unit: UnitPercent},
		{Name: "wind", Value: vartype.NewVariable(rounded(today.WindSpeed)), Unit: UnitSpeed},
		{Name: "air pressure", Value: today.AirPressure, Unit: UnitPressure},
		{Name: "max temp", Value: vartype.NewVariable(rounded(today.MaxTemperature)), Unit: UnitTemperature},
		{Name: "min temp", Value: vartype.NewVariable(rounded(today.MinTemperature)), Unit: UnitTemperature},
	}
	for i := range list {
		list[i].Name = strings.ToUpper(list[i].Name)
	}
	return list
}

func ordinal(day int) string {
	suffix := "th"
	switch {
	case day%100 >= 11 && day%100 <= 13:
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(day) + suffix
}

func noon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}
