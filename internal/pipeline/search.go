package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/duskrunner/vibemix/internal/cache"
	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
)

// SearchOutcome is the result of a successful multi-endpoint search.
type SearchOutcome struct {
	URLs           []string
	ChosenEndpoint string
	SearchURL      string
}

// SearchOrchestrator tries search providers in configured order until one
// answers. Endpoints known to be rate-limited are skipped via a shared
// time-expiring cache so a flaky backend is not hammered on every run.
type SearchOrchestrator struct {
	providers []services.SearchProvider
	limits    *cache.RateLimits
	logger    *log.Logger
}

// NewSearchOrchestrator creates an orchestrator over the given providers.
// Provider order is priority order; the first configured endpoint is always
// tried first.
func NewSearchOrchestrator(providers []services.SearchProvider, limits *cache.RateLimits, logger *log.Logger) *SearchOrchestrator {
	if limits == nil {
		limits = cache.NewRateLimits(0, 0)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SearchOrchestrator{
		providers: providers,
		limits:    limits,
		logger:    logger,
	}
}

// Search runs the optimized query against providers in order and returns the
// first structurally valid result.
//
// A provider answering with a rate-limit signature is marked limited and
// skipped on subsequent runs until the cache entry expires. A terminal
// signature stops the loop entirely: it means the query itself cannot be
// satisfied, not that the backend is unhealthy.
func (s *SearchOrchestrator) Search(ctx context.Context, optimizedQuery string) (*SearchOutcome, error) {
	if len(s.providers) == 0 {
		return nil, fmt.Errorf("%w: no search endpoints configured", shared.ErrMissingConfig)
	}

	var lastErr error
	total := len(s.providers)

	for i, provider := range s.providers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}

		endpoint := provider.Endpoint()
		if s.limits.IsLimited(endpoint) {
			s.logger.Debug("skipping rate-limited endpoint", "endpoint", endpoint)
			continue
		}

		s.logger.Info("trying search endpoint", "attempt", i+1, "total", total, "endpoint", endpoint)

		urls, err := provider.Search(ctx, optimizedQuery)
		if err != nil {
			switch {
			case errors.Is(err, shared.ErrCancelled):
				return nil, err
			case errors.Is(err, shared.ErrTerminalSearch):
				return nil, err
			case errors.Is(err, shared.ErrRateLimited):
				s.logger.Warn("endpoint rate limited", "endpoint", endpoint, "error", err)
				s.limits.MarkLimited(endpoint)
			default:
				s.logger.Warn("search endpoint failed", "endpoint", endpoint, "error", err)
			}
			lastErr = err
			continue
		}

		s.logger.Info("search succeeded", "endpoint", endpoint, "urls", len(urls))
		return &SearchOutcome{
			URLs:           urls,
			ChosenEndpoint: endpoint,
			SearchURL:      provider.SearchURL(optimizedQuery),
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("every endpoint is currently rate limited")
	}
	return nil, fmt.Errorf("%w: last error: %v", shared.ErrProvidersExhausted, lastErr)
}
