// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the weather-search command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/wneessen/weather-search/internal/config"
	"github.com/wneessen/weather-search/internal/i18n"
	"github.com/wneessen/weather-search/internal/logger"
	"github.com/wneessen/weather-search/internal/pipeline"
	"github.com/wneessen/weather-search/internal/server"
	"github.com/wneessen/weather-search/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	listen := flag.String("listen", "", "serve the web front end on this address instead of searching")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [location]\n\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(flag.CommandLine.Output(), "Without a location, one location per line is read from stdin.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("weather-search %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		return 1
	}
	if *listen != "" {
		conf.Server.Listen = *listen
	}

	log = logger.New(conf.LogLevel)
	lang, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		return 1
	}

	serv, err := service.New(ctx, conf, log, lang, os.Stdout, os.Stderr)
	if err != nil {
		log.Error("failed to initialize weather-search service", logger.Err(err))
		return 1
	}
	defer func() {
		if err := serv.Close(); err != nil {
			log.Error("failed to close weather source", logger.Err(err))
		}
	}()

	log.Debug("starting weather-search", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))

	if conf.Server.Listen != "" {
		web, err := server.New(conf, log, lang, serv.Source())
		if err != nil {
			log.Error("failed to initialize web server", logger.Err(err))
			return 1
		}
		if err = web.ListenAndServe(ctx); err != nil {
			log.Error("web server failed", logger.Err(err))
			return 1
		}
		return 0
	}

	err = serv.Run(ctx, flag.Args(), os.Stdin)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	case errors.Is(err, pipeline.ErrLocationNotFound), errors.Is(err, pipeline.ErrLocationLookupFailed),
		errors.Is(err, pipeline.ErrForecastFetchFailed):
		// The message was already shown to the user
		log.Debug("search failed", logger.Err(err))
		return 1
	default:
		log.Error("search failed", logger.Err(err))
		return 1
	}
}

// loadConfig reads the config file given by path, the one in the user's config directory
// or, if there is none, the defaults and the environment.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.NewFromFile(filepath.Dir(path), filepath.Base(path))
	}
	if dir, file := config.FindConfigFile(); dir != "" && file != "" {
		return config.NewFromFile(dir, file)
	}
	return config.New()
}
