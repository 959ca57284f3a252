// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"text/template"
	"time"

	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-search/internal/config"
	"github.com/wneessen/weather-search/internal/forecast"
	"github.com/wneessen/weather-search/internal/vartype"
)

// Terminal is a Sink for the command line. Progress and error messages go to the status
// writer, a rendered forecast goes to the output writer.
type Terminal struct {
	*View

	funcs  *Funcs
	tpl    *template.Template
	mu     sync.Mutex
	out    io.Writer
	status io.Writer
}

var _ Sink = (*Terminal)(nil)

// New parses the forecast template of the config and returns a Terminal sink. The
// template is test-rendered once, so execution errors surface here and not on the first
// forecast.
func New(conf *config.Config, lang *spreak.Localizer, out, status io.Writer) (*Terminal, error) {
	term := &Terminal{
		View:   NewView(),
		funcs:  NewFuncs(lang),
		out:    out,
		status: status,
	}

	tpl, err := template.New("forecast").Funcs(term.funcs.Map()).Parse(conf.Templates.Forecast)
	if err != nil {
		return nil, fmt.Errorf("failed to parse forecast template: %w", err)
	}
	if err = tpl.Execute(io.Discard, sampleState()); err != nil {
		return nil, fmt.Errorf("failed to render forecast template: %w", err)
	}
	term.tpl = tpl

	return term, nil
}

func (t *Terminal) ShowLoading() {
	t.View.ShowLoading()
	t.printStatus(t.funcs.Loc("searching") + "...")
}

func (t *Terminal) ShowError(message string) {
	t.View.ShowError(message)
	t.printStatus(message)
}

// ShowForecast renders the recorded forecast to the output writer.
func (t *Terminal) ShowForecast() {
	t.View.ShowForecast()

	buf := bytes.NewBuffer(nil)
	if err := t.tpl.Execute(buf, t.State()); err != nil {
		t.printStatus(fmt.Sprintf("failed to render forecast: %s", err))
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.out.Write(buf.Bytes())
}

func (t *Terminal) printStatus(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.status, message)
}

func sampleState() ViewState {
	date := time.Date(2020, time.October, 8, 0, 0, 0, 0, time.UTC)
	return ViewState{
		InputVisible: true,
		Today: forecast.TodaySummary{
			Weekday:      "Thursday",
			FullDate:     "October 8th",
			LocationName: "London",
			IconCode:     "lc",
			Temperature:  15,
			WeatherState: "Light Cloud",
			Sunrise:      vartype.NewVariable(date.Add(time.Hour * 6)),
			Sunset:       vartype.NewVariable(date.Add(time.Hour * 17)),
			MoonPhase:    "Waning Crescent",
		},
		Details: []forecast.Detail{
			{Name: "PREDICTABILITY", Value: vartype.NewVariable(70.0), Unit: forecast.UnitPercent},
		},
		Upcoming: []forecast.UpcomingDay{{Weekday: "Fri", IconCode: "hr", MaxTemperature: 14}},
	}
}
