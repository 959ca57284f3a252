// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wneessen/weather-search/internal/forecast"
	"github.com/wneessen/weather-search/internal/logger"
	"github.com/wneessen/weather-search/internal/pipeline"
	"github.com/wneessen/weather-search/internal/presenter"
)

type pageData struct {
	Lang  string
	Query string
	View  presenter.ViewState
}

type forecastResponse struct {
	Query    string             `json:"query"`
	Error    string             `json:"error,omitempty"`
	Forecast *forecast.Forecast `json:"forecast,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, pageData{View: presenter.NewView().State()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	state, err := s.search(r.Context(), query)
	if err != nil && !errors.Is(err, pipeline.ErrEmptyQuery) {
		s.logger.Debug("search failed", "query", query, logger.Err(err))
	}
	s.renderPage(w, pageData{Query: query, View: state})
}

func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	state, err := s.search(r.Context(), query)

	resp := forecastResponse{Query: query}
	switch {
	case err == nil:
		resp.Forecast = &forecast.Forecast{Today: state.Today, Details: state.Details, Upcoming: state.Upcoming}
	case state.HasError():
		resp.Error = state.Error
	default:
		resp.Error = err.Error()
	}
	s.writeJSON(w, statusFor(err), resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	state, err := s.search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		message := err.Error()
		if state.HasError() {
			message = state.Error
		}
		http.Error(w, message, statusFor(err))
		return
	}

	buf := bytes.NewBuffer(nil)
	if err = temperatureChart(state).Render(buf); err != nil {
		s.logger.Error("failed to render chart", logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) renderPage(w http.ResponseWriter, data pageData) {
	data.Lang = s.localizer.Language().String()
	buf := bytes.NewBuffer(nil)
	if err := s.page.Execute(buf, data); err != nil {
		s.logger.Error("failed to render page", logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("failed to marshal response", logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
