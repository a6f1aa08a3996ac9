package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
)

// ScrapedContent is the markdown pulled from one candidate URL.
type ScrapedContent struct {
	URL      string
	Markdown string
}

// ScrapeOrchestrator tries candidate URLs in order until one scrapes cleanly.
type ScrapeOrchestrator struct {
	provider services.ScrapeProvider
	logger   *log.Logger
}

// NewScrapeOrchestrator creates an orchestrator over the given provider.
func NewScrapeOrchestrator(provider services.ScrapeProvider, logger *log.Logger) *ScrapeOrchestrator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ScrapeOrchestrator{provider: provider, logger: logger}
}

// ScrapeFirstSuccess returns content from the first URL that scrapes without
// error. Empty markdown is still a success; thin content is the extractor's
// problem, not the scraper's.
func (s *ScrapeOrchestrator) ScrapeFirstSuccess(ctx context.Context, urls []string) (*ScrapedContent, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no candidate urls to scrape", shared.ErrScrapesFailed)
	}

	var lastErr error
	total := len(urls)

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}

		s.logger.Info("trying scrape", "attempt", i+1, "total", total, "url", url, "provider", s.provider.Name())

		markdown, err := s.provider.Scrape(ctx, url, services.ScrapeOptions{
			MainContentOnly: true,
			RemoveImages:    true,
			UseCache:        true,
		})
		if err != nil {
			if errors.Is(err, shared.ErrCancelled) {
				return nil, err
			}
			s.logger.Warn("scrape failed", "url", url, "error", err)
			lastErr = err
			continue
		}

		s.logger.Info("scrape succeeded", "url", url, "chars", len(markdown))
		return &ScrapedContent{URL: url, Markdown: markdown}, nil
	}

	return nil, fmt.Errorf("%w: last error: %v", shared.ErrScrapesFailed, lastErr)
}
