// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv          = "WEATHERSEARCH"
	DefaultForecastTpl = "{{.Today.Weekday}}, {{.Today.FullDate}} - {{.Today.LocationName}}\n" +
		"{{icon .Today.IconCode}} {{.Today.Temperature}}°C {{.Today.WeatherState}}\n\n" +
		"{{range .Details}}{{pad .Name 16}}{{.Value}} {{.Unit}}\n{{end}}\n" +
		"{{if .Today.Sunrise.IsSet}}{{loc \"sunrise\"}}: {{clock .Today.Sunrise.Value}}  " +
		"{{loc \"sunset\"}}: {{clock .Today.Sunset.Value}}\n{{end}}" +
		"{{loc \"moonphase\"}}: {{loc .Today.MoonPhase}}\n\n" +
		"{{range .Upcoming}}{{.Weekday}} {{icon .IconCode}} {{.MaxTemperature}}°  {{end}}\n"
)

var (
	weatherProviders  = []string{"metaweather", "open-meteo"}
	geocodeProviders  = []string{"open-meteo", "nominatim"}
	defaultConfigExts = []string{"toml", "yaml", "yml", "json"}
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Weather struct {
		// Allowed values: metaweather, open-meteo
		Provider string `fig:"provider" default:"open-meteo"`
		// Root of the MetaWeather compatible API, e.g. https://www.metaweather.com/api/location
		BaseURL string `fig:"base_url"`
		// Prefix placed in front of every request URL, e.g. a relaying CORS proxy
		ProxyPrefix string        `fig:"proxy_prefix"`
		Timeout     time.Duration `fig:"timeout" default:"10s"`
		RateLimit   float64       `fig:"rate_limit" default:"1"`
		RateBurst   int           `fig:"rate_burst" default:"2"`
	} `fig:"weather"`

	GeoCoder struct {
		// Allowed values: open-meteo, nominatim
		Provider string `fig:"provider" default:"open-meteo"`
	} `fig:"geocoder"`

	Cache struct {
		Disable       bool          `fig:"disable"`
		TTLHit        time.Duration `fig:"ttl_hit" default:"6h"`
		TTLMiss       time.Duration `fig:"ttl_miss" default:"10m"`
		RedisAddr     string        `fig:"redis_addr"`
		RedisPassword string        `fig:"redis_password"`
		RedisDB       int           `fig:"redis_db"`
	} `fig:"cache"`

	Server struct {
		Listen string `fig:"listen"`
	} `fig:"server"`

	Watch struct {
		Interval time.Duration `fig:"interval"`
	} `fig:"watch"`

	Templates struct {
		Forecast string `fig:"forecast"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// FindConfigFile looks for a config file in the user's config directory and returns its
// directory and file name, or two empty strings if there is none.
func FindConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	for _, ext := range defaultConfigExts {
		path := filepath.Join(homedir, ".config", "weather-search", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}

func (c *Config) Validate() error {
	c.Weather.Provider = strings.ToLower(c.Weather.Provider)
	if !slices.Contains(weatherProviders, c.Weather.Provider) {
		return fmt.Errorf("invalid weather provider: %s", c.Weather.Provider)
	}
	c.GeoCoder.Provider = strings.ToLower(c.GeoCoder.Provider)
	if !slices.Contains(geocodeProviders, c.GeoCoder.Provider) {
		return fmt.Errorf("invalid geocoder provider: %s", c.GeoCoder.Provider)
	}
	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("invalid weather timeout: %s", c.Weather.Timeout)
	}
	if c.Weather.RateLimit <= 0 {
		return fmt.Errorf("invalid weather rate limit: %f", c.Weather.RateLimit)
	}
	if c.Weather.RateBurst < 1 {
		return fmt.Errorf("invalid weather rate burst: %d", c.Weather.RateBurst)
	}
	if c.Cache.TTLHit <= 0 || c.Cache.TTLMiss <= 0 {
		return fmt.Errorf("invalid cache TTLs: %s/%s", c.Cache.TTLHit, c.Cache.TTLMiss)
	}
	if c.Watch.Interval < 0 {
		return fmt.Errorf("invalid watch interval: %s", c.Watch.Interval)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Templates.Forecast == "" {
		c.Templates.Forecast = DefaultForecastTpl
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
