// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-search/internal/config"
	"github.com/wneessen/weather-search/internal/logger"
	"github.com/wneessen/weather-search/internal/pipeline"
	"github.com/wneessen/weather-search/internal/presenter"
	"github.com/wneessen/weather-search/internal/weather"
)

const refreshJobName = "forecast_refresh_job"

// ErrNoQuery is returned when watch mode has nothing to watch.
var ErrNoQuery = errors.New("watch mode requires a search query")

// Service runs searches from the command line and prints them to a terminal.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	scheduler gocron.Scheduler
	onRefresh refreshTrigger
	sources   *Sources
	source    weather.Source
	sink      *presenter.Terminal
	ctrl      *pipeline.Controller

	queryLock sync.RWMutex
	lastQuery string
}

func New(ctx context.Context, conf *config.Config, log *logger.Logger, lang *spreak.Localizer, out,
	status io.Writer,
) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	sources := NewSources(conf, log, lang.Language())
	source, err := sources.WeatherSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather source: %w", err)
	}

	sink, err := presenter.New(conf, lang, out, status)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal presenter: %w", err)
	}

	ctrl, err := pipeline.New(source, sink, log, pipeline.WithLocalizer(lang))
	if err != nil {
		return nil, fmt.Errorf("failed to create search pipeline: %w", err)
	}

	return &Service{
		config:    conf,
		logger:    log,
		scheduler: scheduler,
		onRefresh: userSignals,
		sources:   sources,
		source:    source,
		sink:      sink,
		ctrl:      ctrl,
	}, nil
}

// Source returns the weather source the service searches with.
func (s *Service) Source() weather.Source {
	return s.source
}

// Close releases the resources of the weather source.
func (s *Service) Close() error {
	return s.sources.Close()
}

// Run searches for the query given as args. Without args, every line of in is searched
// in turn. With a watch interval configured, Run keeps refreshing the last query until
// ctx is cancelled. The error of the last search is returned.
func (s *Service) Run(ctx context.Context, args []string, in io.Reader) error {
	var err error
	if len(args) > 0 {
		err = s.search(ctx, strings.Join(args, " "))
	} else {
		err = s.searchLines(ctx, in)
	}

	if s.config.Watch.Interval <= 0 {
		return err
	}
	if err != nil {
		s.logger.Warn("last search failed, watching anyway", logger.Err(err))
	}
	return s.watch(ctx)
}

// LastQuery returns the most recently submitted query.
func (s *Service) LastQuery() string {
	s.queryLock.RLock()
	defer s.queryLock.RUnlock()
	return s.lastQuery
}

func (s *Service) search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) != "" {
		s.queryLock.Lock()
		s.lastQuery = query
		s.queryLock.Unlock()
	}
	return s.ctrl.Submit(ctx, query)
}

func (s *Service) searchLines(ctx context.Context, in io.Reader) error {
	var err error
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		err = s.search(ctx, line)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return fmt.Errorf("failed to read queries: %w", scanErr)
	}
	return err
}

func (s *Service) watch(ctx context.Context) error {
	if s.LastQuery() == "" {
		return ErrNoQuery
	}
	if err := s.createScheduledJob(ctx, s.config.Watch.Interval, s.refresh, refreshJobName); err != nil {
		return err
	}
	s.scheduler.Start()

	requests, cancel := s.onRefresh()
	defer cancel()
	go s.awaitRefresh(ctx, requests)

	s.logger.Info("watching forecast", "query", s.LastQuery(), "interval", s.config.Watch.Interval.String())
	<-ctx.Done()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// refresh searches the last query again.
func (s *Service) refresh(ctx context.Context) {
	err := s.search(ctx, s.LastQuery())
	switch {
	case err == nil, errors.Is(err, pipeline.ErrSuperseded):
	case ctx.Err() != nil:
		s.logger.Debug("forecast refresh interrupted", logger.Err(err))
	default:
		s.logger.Error("failed to refresh forecast", logger.Err(err))
	}
}
