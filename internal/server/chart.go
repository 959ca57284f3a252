// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package server

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wneessen/weather-search/internal/presenter"
)

const maxTempDetail = "MAX TEMP"

// temperatureChart plots the maximum temperature of today and every upcoming day.
func temperatureChart(state presenter.ViewState) *charts.Line {
	days := make([]string, 0, len(state.Upcoming)+1)
	temps := make([]opts.LineData, 0, len(state.Upcoming)+1)
	for _, detail := range state.Details {
		if detail.Name == maxTempDetail && detail.Value.IsSet() {
			days = append(days, abbrev(state.Today.Weekday))
			temps = append(temps, opts.LineData{Value: detail.Value.Value()})
		}
	}
	for _, day := range state.Upcoming {
		days = append(days, day.Weekday)
		temps = append(temps, opts.LineData{Value: day.MaxTemperature})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "weather-search: " + state.Today.LocationName,
			Width:     "800px",
			Height:    "400px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    state.Today.LocationName,
			Subtitle: state.Today.Weekday + ", " + state.Today.FullDate,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(days).AddSeries("Max temperature (°C)", temps,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{c}°",
		}),
	)
	return line
}

func abbrev(weekday string) string {
	runes := []rune(weekday)
	if len(runes) <= 3 {
		return weekday
	}
	return string(runes[:3])
}
