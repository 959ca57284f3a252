// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	const (
		expectLogLevel        = slog.LevelInfo
		expectWeatherProvider = "open-meteo"
		expectGeoCoder        = "open-meteo"
		expectTimeout         = time.Second * 10
		expectTTLHit          = time.Hour * 6
		expectTTLMiss         = time.Minute * 10
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Weather.Provider != expectWeatherProvider {
			t.Errorf("expected weather provider to be: %s, got %s", expectWeatherProvider, conf.Weather.Provider)
		}
		if conf.GeoCoder.Provider != expectGeoCoder {
			t.Errorf("expected geocoder to be: %s, got %s", expectGeoCoder, conf.GeoCoder.Provider)
		}
		if conf.Weather.Timeout != expectTimeout {
			t.Errorf("expected weather timeout to be: %s, got %s", expectTimeout, conf.Weather.Timeout)
		}
		if conf.Weather.RateLimit != 1 || conf.Weather.RateBurst != 2 {
			t.Errorf("expected rate limit 1/2, got %f/%d", conf.Weather.RateLimit, conf.Weather.RateBurst)
		}
		if conf.Cache.TTLHit != expectTTLHit || conf.Cache.TTLMiss != expectTTLMiss {
			t.Errorf("expected cache TTLs %s/%s, got %s/%s", expectTTLHit, expectTTLMiss,
				conf.Cache.TTLHit, conf.Cache.TTLMiss)
		}
		if conf.Cache.Disable {
			t.Error("expected cache to be enabled by default")
		}
		if conf.Watch.Interval != 0 {
			t.Errorf("expected watch mode to be off, got interval %s", conf.Watch.Interval)
		}
		if conf.Templates.Forecast != DefaultForecastTpl {
			t.Error("expected default forecast template")
		}
	})
	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("WEATHERSEARCH_WEATHER_PROVIDER", "MetaWeather")
		t.Setenv("WEATHERSEARCH_WEATHER_BASE_URL", "http://localhost:8000/api/location")
		t.Setenv("WEATHERSEARCH_WEATHER_PROXY_PREFIX", "https://proxy.example.com/")
		t.Setenv("WEATHERSEARCH_CACHE_DISABLE", "true")
		t.Setenv("WEATHERSEARCH_WATCH_INTERVAL", "5m")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.Provider != "metaweather" {
			t.Errorf("expected provider to be lower-cased metaweather, got %s", conf.Weather.Provider)
		}
		if conf.Weather.BaseURL != "http://localhost:8000/api/location" {
			t.Errorf("unexpected base URL: %s", conf.Weather.BaseURL)
		}
		if conf.Weather.ProxyPrefix != "https://proxy.example.com/" {
			t.Errorf("unexpected proxy prefix: %s", conf.Weather.ProxyPrefix)
		}
		if !conf.Cache.Disable {
			t.Error("expected cache to be disabled")
		}
		if conf.Watch.Interval != time.Minute*5 {
			t.Errorf("expected watch interval 5m, got %s", conf.Watch.Interval)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("WEATHERSEARCH_LOGLEVEL", "invalid")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validation fails", func(t *testing.T) {
		tests := []struct {
			name  string
			env   string
			value string
		}{
			{"unknown weather provider", "WEATHERSEARCH_WEATHER_PROVIDER", "yahoo"},
			{"unknown geocoder", "WEATHERSEARCH_GEOCODER_PROVIDER", "opencage"},
			{"negative timeout", "WEATHERSEARCH_WEATHER_TIMEOUT", "-1s"},
			{"negative rate limit", "WEATHERSEARCH_WEATHER_RATE_LIMIT", "-0.5"},
			{"negative burst", "WEATHERSEARCH_WEATHER_RATE_BURST", "-1"},
			{"negative cache TTL", "WEATHERSEARCH_CACHE_TTL_MISS", "-1m"},
			{"negative watch interval", "WEATHERSEARCH_WATCH_INTERVAL", "-1m"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Setenv(tc.env, tc.value)
				if _, err := New(); err == nil {
					t.Errorf("expected config to fail with %s=%s, but didn't", tc.env, tc.value)
				}
			})
		}
	})
	t.Run("providers are matched case-insensitively", func(t *testing.T) {
		t.Setenv("WEATHERSEARCH_WEATHER_PROVIDER", "Open-Meteo")
		t.Setenv("WEATHERSEARCH_GEOCODER_PROVIDER", "NOMINATIM")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.Provider != "open-meteo" || conf.GeoCoder.Provider != "nominatim" {
			t.Errorf("expected normalized providers, got %q/%q", conf.Weather.Provider, conf.GeoCoder.Provider)
		}
	})
	t.Run("locale falls back to LC_MESSAGES", func(t *testing.T) {
		t.Setenv("LC_MESSAGES", "de_DE.UTF-8")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Locale != "de-DE" {
			t.Errorf("expected locale to be de-DE, got %s", conf.Locale)
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("load example config file", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.Provider != "open-meteo" {
			t.Errorf("expected provider to be open-meteo, got %s", conf.Weather.Provider)
		}
	})
	t.Run("non-existing file fails", func(t *testing.T) {
		if _, err := NewFromFile("../../etc", "nonexisting.toml"); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("broken file fails", func(t *testing.T) {
		if _, err := NewFromFile("../../testdata", "invalid.toml"); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("no config file found", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		dir, file := FindConfigFile()
		if dir != "" || file != "" {
			t.Errorf("expected no config file, got %s/%s", dir, file)
		}
	})
	t.Run("config file in user config dir is found", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		confDir := filepath.Join(home, ".config", "weather-search")
		if err := os.MkdirAll(confDir, 0o755); err != nil {
			t.Fatalf("failed to create config dir: %s", err)
		}
		if err := os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte("loglevel: 0\n"), 0o600); err != nil {
			t.Fatalf("failed to write config file: %s", err)
		}
		dir, file := FindConfigFile()
		if dir != confDir || file != "config.yaml" {
			t.Errorf("expected %s/config.yaml, got %s/%s", confDir, dir, file)
		}
	})
}
