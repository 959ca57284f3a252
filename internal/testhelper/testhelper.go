// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper contains shared helpers for the package tests.
package testhelper

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

const (
	// TestOnlineAPIURL is a slow endpoint used to provoke client side timeouts
	TestOnlineAPIURL = "https://httpbin.org/delay/3"

	integrationEnv = "PERFORM_ONLINE_API_TESTS"

	// MetaWeatherLondonWOEID is the location key of "london" on the MetaWeatherServer
	MetaWeatherLondonWOEID = "44418"
)

// MockRoundTripper replaces the HTTP transport of a client with Fn.
type MockRoundTripper struct {
	Fn func(*http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// FileResponder returns a round trip function that answers every request with the
// given status and the contents of file.
func FileResponder(t *testing.T, status int, file string) func(*http.Request) (*http.Response, error) {
	t.Helper()
	return func(*http.Request) (*http.Response, error) {
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &http.Response{
			StatusCode: status,
			Body:       data,
			Header:     make(http.Header),
		}, nil
	}
}

// PerformIntegrationTests skips the calling test unless online API tests are enabled.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv(integrationEnv) == "" {
		t.Skipf("skipping online API test, set %s to enable", integrationEnv)
	}
}

// MetaWeatherServer starts a server that speaks the MetaWeather location API under
// /api/location. The query "london" resolves to MetaWeatherLondonWOEID, every other
// query resolves to nothing. Fixtures are read from the testdata directory dir.
func MetaWeatherServer(t *testing.T, dir string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	requests := new(atomic.Int64)
	serveFile := func(w http.ResponseWriter, file string) {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			t.Errorf("failed to read fixture: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/location/search/", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Query().Get("query") == "london" {
			serveFile(w, "metaweather_search_london.json")
			return
		}
		serveFile(w, "metaweather_search_empty.json")
	})
	mux.HandleFunc("/api/location/"+MetaWeatherLondonWOEID+"/", func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		serveFile(w, "metaweather_forecast_london.json")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found."}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, requests
}
