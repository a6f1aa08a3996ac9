package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultMinSongs is the yield threshold below which supplemental sources are
// tried.
const DefaultMinSongs = 10

// YieldGuard tops up a thin first-pass draft from the remaining candidate
// URLs. Supplemental scrapes are paced with a rate limiter so a burst of thin
// results does not hammer the scrape backend.
type YieldGuard struct {
	provider  services.ScrapeProvider
	extractor *SongExtractor
	limiter   *rate.Limiter
	minSongs  int
	logger    *log.Logger
}

// NewYieldGuard creates a guard with the given threshold. A non-positive
// minSongs falls back to the default.
func NewYieldGuard(provider services.ScrapeProvider, extractor *SongExtractor, minSongs int, logger *log.Logger) *YieldGuard {
	if minSongs <= 0 {
		minSongs = DefaultMinSongs
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &YieldGuard{
		provider:  provider,
		extractor: extractor,
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
		minSongs:  minSongs,
		logger:    logger,
	}
}

// EnsureMinimumYield returns the first-pass draft unchanged when it already
// meets the threshold. Otherwise it tries each remaining candidate URL with a
// fresh scrape (earlier scrape failures carry no state into these attempts)
// and returns on the first supplemental extraction yielding at least one song,
// merged and with the source URL updated.
//
// Insufficient yield is not a failure: when every remaining URL fails or
// yields nothing, the original draft comes back unchanged.
func (g *YieldGuard) EnsureMinimumYield(ctx context.Context, firstPass models.Draft, candidateURLs []string, usedURL, originalQuery string, progress chan<- ProgressUpdate) (models.Draft, error) {
	if len(firstPass.Songs) >= g.minSongs {
		return firstPass, nil
	}

	g.logger.Info("yield below threshold, trying supplemental sources",
		"songs", len(firstPass.Songs), "threshold", g.minSongs)

	remaining := make([]string, 0, len(candidateURLs))
	for _, u := range candidateURLs {
		if u != usedURL {
			remaining = append(remaining, u)
		}
	}

	for i, url := range remaining {
		if err := ctx.Err(); err != nil {
			return firstPass, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		if err := g.limiter.Wait(ctx); err != nil {
			return firstPass, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}

		sendProgress(progress, supplementUpdate(i+1, len(remaining), url))

		markdown, err := g.provider.Scrape(ctx, url, services.ScrapeOptions{
			MainContentOnly: true,
			RemoveImages:    true,
		})
		if err != nil {
			if errors.Is(err, shared.ErrCancelled) {
				return firstPass, err
			}
			g.logger.Warn("supplemental scrape failed", "url", url, "error", err)
			continue
		}

		extraction, err := g.extractor.Extract(ctx, markdown, originalQuery)
		if err != nil {
			if errors.Is(err, shared.ErrCancelled) {
				return firstPass, err
			}
			g.logger.Warn("supplemental extraction failed", "url", url, "error", err)
			continue
		}

		if len(extraction.RawSongs) > 0 {
			merged := append(append([]string{}, firstPass.RawSongs...), extraction.RawSongs...)
			songs, rawSongs := BuildSongs(merged)

			g.logger.Info("supplemental source yielded songs",
				"url", url, "added", len(songs)-len(firstPass.Songs), "total", len(songs))

			return models.Draft{
				Title:       firstPass.Title,
				Songs:       songs,
				RawSongs:    rawSongs,
				SourceURL:   url,
				SearchQuery: firstPass.SearchQuery,
			}, nil
		}
	}

	g.logger.Info("no supplemental source improved the yield", "songs", len(firstPass.Songs))
	return firstPass, nil
}
