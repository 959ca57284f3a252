// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-search/internal/config"
	"github.com/wneessen/weather-search/internal/geocode"
	geoopenmeteo "github.com/wneessen/weather-search/internal/geocode/provider/open-meteo"
	nominatim "github.com/wneessen/weather-search/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/weather-search/internal/http"
	"github.com/wneessen/weather-search/internal/logger"
	"github.com/wneessen/weather-search/internal/weather"
	"github.com/wneessen/weather-search/internal/weather/provider/metaweather"
	openmeteo "github.com/wneessen/weather-search/internal/weather/provider/open-meteo"
)

// Sources builds the weather source configured in conf and owns the connections it opens.
type Sources struct {
	config *config.Config
	logger *logger.Logger
	lang   language.Tag
	redis  *geocode.RedisStore
}

// NewSources returns a Sources for the given config. lang selects the language of location names.
func NewSources(conf *config.Config, log *logger.Logger, lang language.Tag) *Sources {
	return &Sources{config: conf, logger: log, lang: lang}
}

// WeatherSource returns the configured provider, instrumented and rate limited.
func (s *Sources) WeatherSource(ctx context.Context) (weather.Source, error) {
	var source weather.Source
	switch s.config.Weather.Provider {
	case "metaweather":
		provider, err := metaweather.New(s.httpClient(), s.config.Weather.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create MetaWeather weather provider: %w", err)
		}
		source = provider
	case "open-meteo":
		coder, err := s.Geocoder(ctx)
		if err != nil {
			return nil, err
		}
		provider, err := openmeteo.New(coder, s.httpClient())
		if err != nil {
			return nil, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
		source = provider
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", s.config.Weather.Provider)
	}

	s.logger.Debug("weather source selected", "source", source.Name())
	return weather.NewRateLimitedSource(weather.NewInstrumentedSource(source), s.config.Weather.RateLimit,
		s.config.Weather.RateBurst), nil
}

// Geocoder returns the configured geocoder, wrapped in a cache unless caching is disabled.
func (s *Sources) Geocoder(ctx context.Context) (geocode.Geocoder, error) {
	var coder geocode.Geocoder
	switch s.config.GeoCoder.Provider {
	case "nominatim":
		coder = nominatim.New(s.httpClient(), s.lang)
	case "open-meteo":
		coder = geoopenmeteo.New(s.httpClient(), s.lang)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", s.config.GeoCoder.Provider)
	}
	if s.config.Cache.Disable {
		return coder, nil
	}

	store, err := s.cacheStore(ctx)
	if err != nil {
		return nil, err
	}
	return geocode.NewCachedGeocoder(coder, store, s.logger, s.config.Cache.TTLHit, s.config.Cache.TTLMiss), nil
}

// Close releases the connections opened for the sources.
func (s *Sources) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

func (s *Sources) cacheStore(ctx context.Context) (geocode.Store, error) {
	if s.config.Cache.RedisAddr == "" {
		return geocode.NewMemoryStore(), nil
	}
	if s.redis != nil {
		return s.redis, nil
	}
	store, err := geocode.NewRedisStore(ctx, s.config.Cache.RedisAddr, s.config.Cache.RedisPassword,
		s.config.Cache.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder cache: %w", err)
	}
	s.redis = store
	return store, nil
}

func (s *Sources) httpClient() *http.Client {
	return http.New(s.logger, http.WithProxyPrefix(s.config.Weather.ProxyPrefix),
		http.WithTimeout(s.config.Weather.Timeout))
}
