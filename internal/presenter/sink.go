// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"sync"

	"github.com/wneessen/weather-search/internal/forecast"
)

// Sink is the presentation surface driven by the search pipeline. Implementations only
// display what they are told and never call back into the pipeline.
type Sink interface {
	ShowLoading()
	HideLoading()
	ShowInputForm()
	HideInputForm()
	ShowError(message string)
	ClearError()
	ShowForecast()
	HideForecast()
	RenderTodaySummary(forecast.TodaySummary)
	RenderTodayDetails([]forecast.Detail)
	RenderUpcomingDays([]forecast.UpcomingDay)
}

// ViewState is a point-in-time copy of everything a View displays.
type ViewState struct {
	Loading         bool
	InputVisible    bool
	ForecastVisible bool
	Error           string

	Today    forecast.TodaySummary
	Details  []forecast.Detail
	Upcoming []forecast.UpcomingDay
}

// HasError reports whether an error message is currently shown.
func (s ViewState) HasError() bool {
	return s.Error != ""
}

// View is a Sink that records the display state in memory. It starts with the input
// form visible, like a freshly loaded page.
type View struct {
	mu    sync.RWMutex
	state ViewState
}

var _ Sink = (*View)(nil)

func NewView() *View {
	return &View{state: ViewState{InputVisible: true}}
}

// State returns a copy of the current display state.
func (v *View) State() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	state := v.state
	state.Details = append([]forecast.Detail(nil), v.state.Details...)
	state.Upcoming = append([]forecast.UpcomingDay(nil), v.state.Upcoming...)
	return state
}

func (v *View) ShowLoading()   { v.set(func(s *ViewState) { s.Loading = true }) }
func (v *View) HideLoading()   { v.set(func(s *ViewState) { s.Loading = false }) }
func (v *View) ShowInputForm() { v.set(func(s *ViewState) { s.InputVisible = true }) }
func (v *View) HideInputForm() { v.set(func(s *ViewState) { s.InputVisible = false }) }
func (v *View) ShowForecast()  { v.set(func(s *ViewState) { s.ForecastVisible = true }) }
func (v *View) HideForecast()  { v.set(func(s *ViewState) { s.ForecastVisible = false }) }
func (v *View) ClearError()    { v.set(func(s *ViewState) { s.Error = "" }) }

func (v *View) ShowError(message string) {
	v.set(func(s *ViewState) { s.Error = message })
}

func (v *View) RenderTodaySummary(today forecast.TodaySummary) {
	v.set(func(s *ViewState) { s.Today = today })
}

func (v *View) RenderTodayDetails(details []forecast.Detail) {
	v.set(func(s *ViewState) { s.Details = append([]forecast.Detail(nil), details...) })
}

func (v *View) RenderUpcomingDays(days []forecast.UpcomingDay) {
	v.set(func(s *ViewState) { s.Upcoming = append([]forecast.UpcomingDay(nil), days...) })
}

func (v *View) set(fn func(*ViewState)) {
	v.mu.Lock()
	fn(&v.state)
	v.mu.Unlock()
}
