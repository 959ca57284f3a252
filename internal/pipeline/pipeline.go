// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package pipeline drives one search from a typed query to a rendered forecast.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-search/internal/forecast"
	"github.com/wneessen/weather-search/internal/i18n"
	"github.com/wneessen/weather-search/internal/logger"
	"github.com/wneessen/weather-search/internal/metrics"
	"github.com/wneessen/weather-search/internal/presenter"
	"github.com/wneessen/weather-search/internal/weather"
)

var (
	ErrEmptyQuery           = errors.New("search query is empty")
	ErrLocationNotFound     = errors.New("location not found")
	ErrLocationLookupFailed = errors.New("location lookup failed")
	ErrForecastFetchFailed  = errors.New("forecast fetch failed")
	ErrSuperseded           = errors.New("search superseded by a newer submission")
)

// Stage is the step a search is in.
type Stage int

const (
	Idle Stage = iota
	SearchingLocation
	FetchingForecast
	Displaying
	Failed
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case SearchingLocation:
		return "searching location"
	case FetchingForecast:
		return "fetching forecast"
	case Displaying:
		return "displaying"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("unknown stage %d", int(s))
	}
}

// State is the controller's current stage. Reason is set only in the Failed stage and is
// one of ErrLocationNotFound, ErrLocationLookupFailed or ErrForecastFetchFailed.
type State struct {
	Stage  Stage
	Reason error
}

func (s State) String() string {
	if s.Reason != nil {
		return fmt.Sprintf("%s (%s)", s.Stage, s.Reason)
	}
	return s.Stage.String()
}

// TransitionHook is called on every state change. It runs while the controller holds its
// lock and must not call back into the controller.
type TransitionHook func(from, to State)

type Option func(*Controller)

// WithLocalizer translates the error messages shown to the user.
func WithLocalizer(localizer *spreak.Localizer) Option {
	return func(c *Controller) {
		c.localizer = localizer
	}
}

func WithTransitionHook(hook TransitionHook) Option {
	return func(c *Controller) {
		c.hook = hook
	}
}

var messages = map[error]string{
	ErrLocationNotFound:     i18n.MsgLocationNotFound,
	ErrLocationLookupFailed: i18n.MsgLocationLookupFailed,
	ErrForecastFetchFailed:  i18n.MsgForecastFetchFailed,
}

var outcomes = map[error]string{
	ErrLocationNotFound:     "location_not_found",
	ErrLocationLookupFailed: "location_lookup_failed",
	ErrForecastFetchFailed:  "forecast_fetch_failed",
}

// Controller runs searches against a weather source and reports every step to a sink.
// Submissions may overlap: a new one cancels the run before it, and only the newest run
// is allowed to change the state or touch the sink.
type Controller struct {
	source    weather.Source
	sink      presenter.Sink
	logger    *logger.Logger
	localizer *spreak.Localizer
	hook      TransitionHook

	mu     sync.Mutex
	state  State
	token  uint64
	cancel context.CancelFunc
}

func New(source weather.Source, sink presenter.Sink, log *logger.Logger, opts ...Option) (*Controller, error) {
	if source == nil {
		return nil, errors.New("weather source is required")
	}
	if sink == nil {
		return nil, errors.New("presentation sink is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	ctrl := &Controller{
		source: source,
		sink:   sink,
		logger: log,
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl, nil
}

// State returns the current state of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs a search for query and blocks until it is displayed, has failed or was
// superseded by a later Submit. The returned error wraps the failure reason.
func (c *Controller) Submit(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}

	runCtx, token := c.begin(ctx, query)
	defer c.finish(token)

	start := time.Now()
	candidates, err := c.source.ResolveLocation(runCtx, query)
	metrics.RecordStage("resolve_location", start)
	switch {
	case err != nil:
		return c.fail(token, ErrLocationLookupFailed, err)
	case len(candidates) == 0:
		return c.fail(token, ErrLocationNotFound, nil)
	}

	location := candidates[0]
	if !c.advance(token, FetchingForecast) {
		return ErrSuperseded
	}
	c.logger.Debug("location resolved", "query", query, "location", location.Title,
		"candidates", len(candidates))

	start = time.Now()
	raw, err := c.source.FetchForecast(runCtx, location.Key)
	metrics.RecordStage("fetch_forecast", start)
	if err != nil {
		return c.fail(token, ErrForecastFetchFailed, err)
	}
	result, err := forecast.Normalize(raw)
	if err != nil {
		return c.fail(token, ErrForecastFetchFailed, err)
	}

	return c.display(token, result)
}

// begin supersedes any running search and moves the controller into SearchingLocation.
func (c *Controller) begin(ctx context.Context, query string) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.token++
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	if c.state.Stage != Idle {
		c.transition(State{Stage: Idle})
	}
	c.transition(State{Stage: SearchingLocation})
	c.sink.ShowLoading()
	c.sink.HideInputForm()
	c.logger.Debug("search submitted", "query", query, "run", c.token)

	return runCtx, c.token
}

func (c *Controller) finish(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == c.token && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) advance(token uint64, stage Stage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		metrics.RecordRun("superseded")
		return false
	}
	c.transition(State{Stage: stage})
	return true
}

func (c *Controller) fail(token uint64, reason, cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		metrics.RecordRun("superseded")
		return ErrSuperseded
	}

	c.transition(State{Stage: Failed, Reason: reason})
	c.sink.HideLoading()
	c.sink.ShowInputForm()
	c.sink.HideForecast()
	c.sink.ShowError(c.message(reason))
	metrics.RecordRun(outcomes[reason])

	if cause == nil {
		c.logger.Warn("search failed", "reason", reason)
		return reason
	}
	// Callers report the returned error themselves
	c.logger.Warn("search failed", "reason", reason, logger.Err(cause))
	return fmt.Errorf("%w: %w", reason, cause)
}

func (c *Controller) display(token uint64, result forecast.Forecast) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token {
		metrics.RecordRun("superseded")
		return ErrSuperseded
	}

	c.sink.ClearError()
	c.sink.RenderTodaySummary(result.Today)
	c.sink.RenderTodayDetails(result.Details)
	c.sink.RenderUpcomingDays(result.Upcoming)
	c.sink.HideLoading()
	c.sink.ShowForecast()
	c.transition(State{Stage: Displaying})
	metrics.RecordRun("displayed")

	return nil
}

// transition must be called with c.mu held.
func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	c.logger.Debug("pipeline state changed", "from", from.String(), "to", to.String())
	if c.hook != nil {
		c.hook(from, to)
	}
}

func (c *Controller) message(reason error) string {
	msg := messages[reason]
	if c.localizer == nil {
		return msg
	}
	return c.localizer.Get(msg)
}
