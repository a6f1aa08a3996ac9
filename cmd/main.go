package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/duskrunner/vibemix/internal/cache"
	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var completer services.Completer
	if config.Credentials.Anthropic.APIKey != "" {
		if svc, err := services.NewLLMService(
			config.Credentials.Anthropic.APIKey,
			config.Credentials.Anthropic.MaxTokens,
			config.Credentials.Anthropic.Temperature,
			time.Duration(config.Credentials.Anthropic.TimeoutSeconds)*time.Second,
		); err == nil {
			completer = svc
		} else {
			logger.Warn("language model unavailable", "error", err)
		}
	}

	searchTimeout := time.Duration(config.Search.TimeoutSeconds) * time.Second
	providers := make([]services.SearchProvider, 0, len(config.Search.Endpoints))
	for _, endpoint := range config.Search.Endpoints {
		providers = append(providers, services.NewSearxProvider(endpoint, searchTimeout, nil))
	}

	scrapeTimeout := time.Duration(config.Scrape.TimeoutSeconds) * time.Second
	var scraper services.ScrapeProvider
	if config.Scrape.Provider == "firecrawl" {
		scraper = services.NewFirecrawlService(
			config.Credentials.Firecrawl.BaseURL,
			config.Credentials.Firecrawl.APIKey,
			scrapeTimeout, nil,
		)
	} else {
		scraper = services.NewReaderService(scrapeTimeout, nil)
	}

	// Search and video endpoints share one rate-limit cache so a flagged host
	// is skipped everywhere.
	limits := cache.NewRateLimits(0, 0)

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Completer: completer,
		Providers: providers,
		Scraper:   scraper,
		Limits:    limits,
		LastFM:    services.NewLastFMService("", config.Credentials.LastFM.APIKey, nil),
		Videos:    services.NewVideoService(config.Search.VideoEndpoints, limits, nil),
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "vibemix",
		Usage:    "Turn a natural-language vibe into a playlist",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
