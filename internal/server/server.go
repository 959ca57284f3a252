// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server provides the search widget as a web page and a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-search/internal/config"
	"github.com/wneessen/weather-search/internal/logger"
	"github.com/wneessen/weather-search/internal/pipeline"
	"github.com/wneessen/weather-search/internal/presenter"
	"github.com/wneessen/weather-search/internal/weather"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves searches against a weather source. Every request runs its own pipeline
// with its own view, so concurrent visitors never see each other's results.
type Server struct {
	config    *config.Config
	logger    *logger.Logger
	localizer *spreak.Localizer
	source    weather.Source
	page      *template.Template
	router    *mux.Router
}

func New(conf *config.Config, log *logger.Logger, lang *spreak.Localizer, source weather.Source) (*Server, error) {
	if source == nil {
		return nil, errors.New("weather source is required")
	}
	funcs := presenter.NewFuncs(lang)
	page, err := template.New("page").Funcs(template.FuncMap(funcs.Map())).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	server := &Server{
		config:    conf,
		logger:    log,
		localizer: lang,
		source:    source,
		page:      page,
		router:    mux.NewRouter(),
	}
	server.registerRoutes()
	return server, nil
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	// expects ?query={location name}
	s.router.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	s.router.HandleFunc("/api/forecast", s.handleAPIForecast).Methods(http.MethodGet)
	s.router.HandleFunc("/chart", s.handleChart).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// ServeHTTP makes the Server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured listen address until ctx is cancelled and
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("starting web server", "listen", s.config.Server.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}

// search runs one pipeline for query and returns what it displayed.
func (s *Server) search(ctx context.Context, query string) (presenter.ViewState, error) {
	view := presenter.NewView()
	ctrl, err := pipeline.New(s.source, view, s.logger, pipeline.WithLocalizer(s.localizer))
	if err != nil {
		return view.State(), err
	}
	err = ctrl.Submit(ctx, query)
	return view.State(), err
}

// statusFor maps a search error to the HTTP status of the API.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, pipeline.ErrEmptyQuery):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrLocationLookupFailed), errors.Is(err, pipeline.ErrForecastFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
