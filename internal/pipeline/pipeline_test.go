// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wneessen/weather-search/internal/forecast"
	"github.com/wneessen/weather-search/internal/http"
	"github.com/wneessen/weather-search/internal/i18n"
	"github.com/wneessen/weather-search/internal/logger"
	"github.com/wneessen/weather-search/internal/presenter"
	"github.com/wneessen/weather-search/internal/testhelper"
	"github.com/wneessen/weather-search/internal/weather"
	"github.com/wneessen/weather-search/internal/weather/provider/metaweather"
)

var errSource = errors.New("connection refused")

// fakeSource answers from its fields. The query "slow" blocks until the run is cancelled.
type fakeSource struct {
	mu          sync.Mutex
	candidates  []weather.LocationCandidate
	resolveErr  error
	raw         *weather.RawForecast
	fetchErr    error
	resolves    int
	fetchedKeys []string
	started     chan struct{}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) ResolveLocation(ctx context.Context, query string) ([]weather.LocationCandidate, error) {
	f.mu.Lock()
	f.resolves++
	f.mu.Unlock()
	if query == "slow" {
		close(f.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.candidates, f.resolveErr
}

func (f *fakeSource) FetchForecast(_ context.Context, key string) (*weather.RawForecast, error) {
	f.mu.Lock()
	f.fetchedKeys = append(f.fetchedKeys, key)
	f.mu.Unlock()
	return f.raw, f.fetchErr
}

// recordingSink records the order of sink calls on top of a presenter.View.
type recordingSink struct {
	*presenter.View
	mu    sync.Mutex
	calls []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{View: presenter.NewView()}
}

func (r *recordingSink) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

func (r *recordingSink) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingSink) ShowLoading()   { r.record("ShowLoading"); r.View.ShowLoading() }
func (r *recordingSink) HideLoading()   { r.record("HideLoading"); r.View.HideLoading() }
func (r *recordingSink) ShowInputForm() { r.record("ShowInputForm"); r.View.ShowInputForm() }
func (r *recordingSink) HideInputForm() { r.record("HideInputForm"); r.View.HideInputForm() }
func (r *recordingSink) ShowForecast()  { r.record("ShowForecast"); r.View.ShowForecast() }
func (r *recordingSink) HideForecast()  { r.record("HideForecast"); r.View.HideForecast() }
func (r *recordingSink) ClearError()    { r.record("ClearError"); r.View.ClearError() }
func (r *recordingSink) ShowError(msg string) {
	r.record("ShowError")
	r.View.ShowError(msg)
}

func (r *recordingSink) RenderTodaySummary(today forecast.TodaySummary) {
	r.record("RenderTodaySummary")
	r.View.RenderTodaySummary(today)
}

func (r *recordingSink) RenderTodayDetails(details []forecast.Detail) {
	r.record("RenderTodayDetails")
	r.View.RenderTodayDetails(details)
}

func (r *recordingSink) RenderUpcomingDays(days []forecast.UpcomingDay) {
	r.record("RenderUpcomingDays")
	r.View.RenderUpcomingDays(days)
}

var (
	submitCalls  = []string{"ShowLoading", "HideInputForm"}
	failureCalls = []string{"HideLoading", "ShowInputForm", "HideForecast", "ShowError"}
	successCalls = []string{
		"ClearError", "RenderTodaySummary", "RenderTodayDetails", "RenderUpcomingDays",
		"HideLoading", "ShowForecast",
	}
)

func TestNew(t *testing.T) {
	t.Run("new controller starts idle", func(t *testing.T) {
		ctrl, err := New(&fakeSource{}, presenter.NewView(), testLogger())
		if err != nil {
			t.Fatalf("failed to create controller: %s", err)
		}
		if ctrl.State().Stage != Idle {
			t.Errorf("expected controller to be idle, got %s", ctrl.State())
		}
	})
	t.Run("missing dependencies fail", func(t *testing.T) {
		if _, err := New(nil, presenter.NewView(), testLogger()); err == nil {
			t.Error("expected controller without source to fail")
		}
		if _, err := New(&fakeSource{}, nil, testLogger()); err == nil {
			t.Error("expected controller without sink to fail")
		}
		if _, err := New(&fakeSource{}, presenter.NewView(), nil); err == nil {
			t.Error("expected controller without logger to fail")
		}
	})
}

func TestController_Submit(t *testing.T) {
	t.Run("empty queries are rejected without side effects", func(t *testing.T) {
		for _, query := range []string{"", "   ", "\t\n"} {
			source := &fakeSource{}
			sink := newRecordingSink()
			ctrl := testController(t, source, sink)
			if err := ctrl.Submit(context.Background(), query); !errors.Is(err, ErrEmptyQuery) {
				t.Errorf("expected ErrEmptyQuery for %q, got %v", query, err)
			}
			if ctrl.State().Stage != Idle {
				t.Errorf("expected controller to stay idle, got %s", ctrl.State())
			}
			if source.resolves != 0 {
				t.Errorf("expected no network call, got %d", source.resolves)
			}
			if calls := sink.Calls(); len(calls) != 0 {
				t.Errorf("expected no sink calls, got %v", calls)
			}
		}
	})
	t.Run("searching london displays the forecast", func(t *testing.T) {
		server, _ := testhelper.MetaWeatherServer(t, "../../testdata")
		source, err := metaweather.New(http.New(testLogger()), server.URL+"/api/location")
		if err != nil {
			t.Fatalf("failed to create source: %s", err)
		}
		sink := newRecordingSink()
		ctrl := testController(t, source, sink)

		if err = ctrl.Submit(context.Background(), "london"); err != nil {
			t.Fatalf("search failed: %s", err)
		}
		if ctrl.State().Stage != Displaying {
			t.Errorf("expected controller to be displaying, got %s", ctrl.State())
		}
		want := append(append([]string{}, submitCalls...), successCalls...)
		if calls := sink.Calls(); !reflect.DeepEqual(calls, want) {
			t.Errorf("expected sink calls %v, got %v", want, calls)
		}

		state := sink.State()
		if state.Loading || state.InputVisible || !state.ForecastVisible || state.HasError() {
			t.Errorf("unexpected view state: %+v", state)
		}
		if state.Today.LocationName != "London" {
			t.Errorf("expected location London, got %q", state.Today.LocationName)
		}
		if state.Today.Temperature != 15 {
			t.Errorf("expected temperature 15, got %d", state.Today.Temperature)
		}
		if state.Today.WeatherState != "Light Cloud" {
			t.Errorf("expected weather state Light Cloud, got %q", state.Today.WeatherState)
		}
		if len(state.Details) != 6 {
			t.Errorf("expected 6 details, got %d", len(state.Details))
		}
		if len(state.Upcoming) != 5 {
			t.Errorf("expected 5 upcoming days, got %d", len(state.Upcoming))
		}
	})
	t.Run("unknown location fails without fetching a forecast", func(t *testing.T) {
		server, requests := testhelper.MetaWeatherServer(t, "../../testdata")
		source, err := metaweather.New(http.New(testLogger()), server.URL+"/api/location")
		if err != nil {
			t.Fatalf("failed to create source: %s", err)
		}
		sink := newRecordingSink()
		ctrl := testController(t, source, sink)

		err = ctrl.Submit(context.Background(), "zzzzz")
		if !errors.Is(err, ErrLocationNotFound) {
			t.Fatalf("expected ErrLocationNotFound, got %v", err)
		}
		if requests.Load() != 1 {
			t.Errorf("expected exactly one request, got %d", requests.Load())
		}
		state := ctrl.State()
		if state.Stage != Failed || !errors.Is(state.Reason, ErrLocationNotFound) {
			t.Errorf("expected failed state with location not found, got %s", state)
		}
		want := append(append([]string{}, submitCalls...), failureCalls...)
		if calls := sink.Calls(); !reflect.DeepEqual(calls, want) {
			t.Errorf("expected sink calls %v, got %v", want, calls)
		}
		view := sink.State()
		if view.Error != i18n.MsgLocationNotFound {
			t.Errorf("expected error message %q, got %q", i18n.MsgLocationNotFound, view.Error)
		}
		if view.Loading || !view.InputVisible || view.ForecastVisible {
			t.Errorf("unexpected view state: %+v", view)
		}
	})
	t.Run("lookup failure", func(t *testing.T) {
		source := &fakeSource{resolveErr: errors.Join(weather.ErrUnreachable, errSource)}
		sink := newRecordingSink()
		ctrl := testController(t, source, sink)

		err := ctrl.Submit(context.Background(), "london")
		if !errors.Is(err, ErrLocationLookupFailed) {
			t.Fatalf("expected ErrLocationLookupFailed, got %v", err)
		}
		if !errors.Is(err, weather.ErrUnreachable) {
			t.Errorf("expected error to wrap the source error, got %v", err)
		}
		if len(source.fetchedKeys) != 0 {
			t.Errorf("expected no forecast fetch, got %v", source.fetchedKeys)
		}
		if sink.State().Error != i18n.MsgLocationLookupFailed {
			t.Errorf("expected error message %q, got %q", i18n.MsgLocationLookupFailed, sink.State().Error)
		}
	})
	t.Run("failures are logged once as warning", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		source := &fakeSource{resolveErr: errors.Join(weather.ErrUnreachable, errSource)}
		ctrl, err := New(source, newRecordingSink(), logger.NewLogger(slog.LevelDebug, buf))
		if err != nil {
			t.Fatalf("failed to create controller: %s", err)
		}
		if err = ctrl.Submit(context.Background(), "london"); err == nil {
			t.Fatal("expected search to fail")
		}
		out := buf.String()
		if strings.Contains(out, "level=ERROR") {
			t.Errorf("expected no error level log entries, got %q", out)
		}
		if strings.Count(out, "search failed") != 1 || !strings.Contains(out, "level=WARN") {
			t.Errorf("expected a single warning for the failure, got %q", out)
		}
	})
	t.Run("fetch failure shows a distinct message", func(t *testing.T) {
		source := &fakeSource{candidates: testCandidates(), fetchErr: weather.ErrUnreachable}
		sink := newRecordingSink()
		ctrl := testController(t, source, sink)

		err := ctrl.Submit(context.Background(), "london")
		if !errors.Is(err, ErrForecastFetchFailed) {
			t.Fatalf("expected ErrForecastFetchFailed, got %v", err)
		}
		if ctrl.State().Stage != Failed {
			t.Errorf("expected failed state, got %s", ctrl.State())
		}
		if sink.State().Error != i18n.MsgForecastFetchFailed {
			t.Errorf("expected error message %q, got %q", i18n.MsgForecastFetchFailed, sink.State().Error)
		}
		want := append(append([]string{}, submitCalls...), failureCalls...)
		if calls := sink.Calls(); !reflect.DeepEqual(calls, want) {
			t.Errorf("expected sink calls %v, got %v", want, calls)
		}
	})
	t.Run("empty forecast counts as fetch failure", func(t *testing.T) {
		source := &fakeSource{candidates: testCandidates(), raw: &weather.RawForecast{Title: "London"}}
		ctrl := testController(t, source, newRecordingSink())

		err := ctrl.Submit(context.Background(), "london")
		if !errors.Is(err, ErrForecastFetchFailed) {
			t.Fatalf("expected ErrForecastFetchFailed, got %v", err)
		}
		if !errors.Is(err, forecast.ErrEmptyForecast) {
			t.Errorf("expected error to wrap ErrEmptyForecast, got %v", err)
		}
	})
	t.Run("first candidate is used", func(t *testing.T) {
		source := &fakeSource{candidates: testCandidates(), raw: testRaw()}
		ctrl := testController(t, source, newRecordingSink())

		if err := ctrl.Submit(context.Background(), "london"); err != nil {
			t.Fatalf("search failed: %s", err)
		}
		if !reflect.DeepEqual(source.fetchedKeys, []string{"44418"}) {
			t.Errorf("expected forecast for key 44418, got %v", source.fetchedKeys)
		}
	})
	t.Run("successful search clears a previous error", func(t *testing.T) {
		source := &fakeSource{}
		sink := newRecordingSink()
		ctrl := testController(t, source, sink)

		if err := ctrl.Submit(context.Background(), "zzzzz"); !errors.Is(err, ErrLocationNotFound) {
			t.Fatalf("expected ErrLocationNotFound, got %v", err)
		}
		source.candidates, source.raw = testCandidates(), testRaw()
		if err := ctrl.Submit(context.Background(), "london"); err != nil {
			t.Fatalf("search failed: %s", err)
		}
		state := sink.State()
		if state.HasError() || !state.ForecastVisible {
			t.Errorf("expected forecast without error, got %+v", state)
		}
	})
	t.Run("error messages are localized", func(t *testing.T) {
		lang, err := i18n.New("de")
		if err != nil {
			t.Fatalf("failed to create localizer: %s", err)
		}
		sink := newRecordingSink()
		ctrl, err := New(&fakeSource{}, sink, testLogger(), WithLocalizer(lang))
		if err != nil {
			t.Fatalf("failed to create controller: %s", err)
		}
		_ = ctrl.Submit(context.Background(), "zzzzz")
		want := "Dieser Ort wurde nicht gefunden, bitte erneut versuchen."
		if sink.State().Error != want {
			t.Errorf("expected error message %q, got %q", want, sink.State().Error)
		}
	})
}

func TestController_Transitions(t *testing.T) {
	var (
		mu          sync.Mutex
		transitions []string
	)
	hook := func(from, to State) {
		mu.Lock()
		transitions = append(transitions, from.Stage.String()+" -> "+to.Stage.String())
		mu.Unlock()
	}
	source := &fakeSource{candidates: testCandidates(), raw: testRaw()}
	ctrl, err := New(source, presenter.NewView(), testLogger(), WithTransitionHook(hook))
	if err != nil {
		t.Fatalf("failed to create controller: %s", err)
	}

	t.Run("successful search walks through all stages", func(t *testing.T) {
		if err = ctrl.Submit(context.Background(), "london"); err != nil {
			t.Fatalf("search failed: %s", err)
		}
		want := []string{
			"idle -> searching location",
			"searching location -> fetching forecast",
			"fetching forecast -> displaying",
		}
		if !reflect.DeepEqual(transitions, want) {
			t.Errorf("expected transitions %v, got %v", want, transitions)
		}
	})
	t.Run("resubmission resets to idle first", func(t *testing.T) {
		transitions = nil
		source.candidates = nil
		if err = ctrl.Submit(context.Background(), "zzzzz"); !errors.Is(err, ErrLocationNotFound) {
			t.Fatalf("expected ErrLocationNotFound, got %v", err)
		}
		want := []string{
			"displaying -> idle",
			"idle -> searching location",
			"searching location -> failed",
		}
		if !reflect.DeepEqual(transitions, want) {
			t.Errorf("expected transitions %v, got %v", want, transitions)
		}
	})
	t.Run("resubmission from failed resets to idle first", func(t *testing.T) {
		transitions = nil
		_ = ctrl.Submit(context.Background(), "zzzzz")
		if len(transitions) == 0 || transitions[0] != "failed -> idle" {
			t.Errorf("expected first transition to be failed -> idle, got %v", transitions)
		}
	})
}

func TestController_Supersede(t *testing.T) {
	t.Run("a newer submission supersedes a running search", func(t *testing.T) {
		source := &fakeSource{candidates: testCandidates(), raw: testRaw(), started: make(chan struct{})}
		sink := newRecordingSink()
		ctrl := testController(t, source, sink)

		slowErr := make(chan error, 1)
		go func() {
			slowErr <- ctrl.Submit(context.Background(), "slow")
		}()
		select {
		case <-source.started:
		case <-time.After(time.Second * 5):
			t.Fatal("slow search did not start")
		}

		if err := ctrl.Submit(context.Background(), "london"); err != nil {
			t.Fatalf("search failed: %s", err)
		}
		select {
		case err := <-slowErr:
			if !errors.Is(err, ErrSuperseded) {
				t.Errorf("expected slow search to be superseded, got %v", err)
			}
		case <-time.After(time.Second * 5):
			t.Fatal("slow search did not return")
		}

		if ctrl.State().Stage != Displaying {
			t.Errorf("expected controller to be displaying, got %s", ctrl.State())
		}
		want := append(append(append([]string{}, submitCalls...), submitCalls...), successCalls...)
		if calls := sink.Calls(); !reflect.DeepEqual(calls, want) {
			t.Errorf("expected sink calls %v, got %v", want, calls)
		}
		if sink.State().HasError() {
			t.Error("expected superseded search not to show an error")
		}
	})
	t.Run("cancelled parent context fails the lookup", func(t *testing.T) {
		source := &fakeSource{started: make(chan struct{})}
		ctrl := testController(t, source, newRecordingSink())
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-source.started
			cancel()
		}()
		err := ctrl.Submit(ctx, "slow")
		if !errors.Is(err, ErrLocationLookupFailed) || !errors.Is(err, context.Canceled) {
			t.Errorf("expected lookup failure caused by cancellation, got %v", err)
		}
	})
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{Idle, "idle"},
		{SearchingLocation, "searching location"},
		{FetchingForecast, "fetching forecast"},
		{Displaying, "displaying"},
		{Failed, "failed"},
		{Stage(42), "unknown stage 42"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.stage.String(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
	t.Run("failed state carries its reason", func(t *testing.T) {
		state := State{Stage: Failed, Reason: ErrLocationNotFound}
		if state.String() != "failed (location not found)" {
			t.Errorf("unexpected state string: %q", state.String())
		}
	})
}

func testController(t *testing.T, source weather.Source, sink presenter.Sink) *Controller {
	t.Helper()
	ctrl, err := New(source, sink, testLogger())
	if err != nil {
		t.Fatalf("failed to create controller: %s", err)
	}
	return ctrl
}

func testLogger() *logger.Logger {
	return logger.NewLogger(slog.LevelDebug, io.Discard)
}

func testCandidates() []weather.LocationCandidate {
	return []weather.LocationCandidate{
		{Key: "44418", Title: "London"},
		{Key: "4118", Title: "Toronto"},
	}
}

func testRaw() *weather.RawForecast {
	return &weather.RawForecast{
		Title: "London",
		Days: []weather.DailyRecord{
			{
				ApplicableDate: time.Date(2020, 10, 8, 0, 0, 0, 0, time.UTC),
				Temperature:    15.3, MinTemperature: 9.14, MaxTemperature: 16.5, WindSpeed: 7.4,
				StateName: "Light Cloud", StateIcon: "lc",
			},
			{
				ApplicableDate: time.Date(2020, 10, 9, 0, 0, 0, 0, time.UTC),
				MaxTemperature: 14.49, StateName: "Heavy Rain", StateIcon: "hr",
			},
		},
	}
}
