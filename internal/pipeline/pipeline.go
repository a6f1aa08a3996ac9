package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/duskrunner/vibemix/internal/cache"
	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
)

// PlaylistStore persists a finished draft for an identified user.
type PlaylistStore interface {
	Save(ctx context.Context, userID string, draft models.Draft) (string, error)
}

// Diagnostics carries the intermediate state of a run for observability. None
// of it affects correctness.
type Diagnostics struct {
	OriginalQuery  string   `json:"originalQuery"`
	OptimizedQuery string   `json:"optimizedQuery,omitempty"`
	SearchURL      string   `json:"searchUrl,omitempty"`
	ChosenEndpoint string   `json:"chosenEndpoint,omitempty"`
	AllURLs        []string `json:"allUrls,omitempty"`
	FilteredURLs   []string `json:"filteredUrls,omitempty"`
	RelevantURLs   []string `json:"relevantUrls,omitempty"`
	SelectedURL    string   `json:"selectedUrl,omitempty"`
}

// Result is the discriminated outcome of a pipeline run.
type Result struct {
	Success     bool
	Draft       models.Draft
	PlaylistID  string
	Diagnostics Diagnostics
	Reason      string
	Message     string
}

// ResponseData is the payload of a successful run in wire form.
type ResponseData struct {
	AllURLs       []string      `json:"allUrls"`
	FilteredURLs  []string      `json:"filteredUrls"`
	RelevantURLs  []string      `json:"relevantUrls"`
	SelectedURL   string        `json:"selectedUrl"`
	Songs         []models.Song `json:"songs"`
	PlaylistTitle string        `json:"playlistTitle"`
	PlaylistID    string        `json:"playlistId,omitempty"`
}

// Response is the wire form of a Result, discriminated by Success.
type Response struct {
	Success        bool          `json:"success"`
	Data           *ResponseData `json:"data,omitempty"`
	OriginalQuery  string        `json:"originalQuery"`
	OptimizedQuery string        `json:"optimizedQuery,omitempty"`
	SearchURL      string        `json:"searchUrl,omitempty"`
	Error          string        `json:"error,omitempty"`
	Reason         string        `json:"reason,omitempty"`
}

// Response serializes the result for the HTTP/CLI boundary.
func (r *Result) Response() Response {
	resp := Response{
		Success:        r.Success,
		OriginalQuery:  r.Diagnostics.OriginalQuery,
		OptimizedQuery: r.Diagnostics.OptimizedQuery,
		SearchURL:      r.Diagnostics.SearchURL,
	}

	if !r.Success {
		resp.Error = r.Message
		resp.Reason = r.Reason
		return resp
	}

	resp.Data = &ResponseData{
		AllURLs:       r.Diagnostics.AllURLs,
		FilteredURLs:  r.Diagnostics.FilteredURLs,
		RelevantURLs:  r.Diagnostics.RelevantURLs,
		SelectedURL:   r.Diagnostics.SelectedURL,
		Songs:         r.Draft.Songs,
		PlaylistTitle: r.Draft.Title,
		PlaylistID:    r.PlaylistID,
	}
	return resp
}

// Options tune a pipeline engine.
type Options struct {
	MinSongs int // Yield threshold; default 10
	TopURLs  int // URLs the filter keeps; default 4
}

// Engine composes the pipeline stages and owns one run's intermediate state.
// Concurrent runs are independent; the only shared mutable resource is the
// injected rate-limit cache.
type Engine struct {
	optimizer *QueryOptimizer
	searcher  *SearchOrchestrator
	filter    *URLFilter
	scraper   *ScrapeOrchestrator
	extractor *SongExtractor
	guard     *YieldGuard
	store     PlaylistStore
	logger    *log.Logger
}

// NewEngine wires the pipeline from its external collaborators. The store may
// be nil; runs are then always ephemeral.
func NewEngine(completer services.Completer, providers []services.SearchProvider, scraper services.ScrapeProvider, limits *cache.RateLimits, store PlaylistStore, opts Options, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	extractor := NewSongExtractor(completer)
	return &Engine{
		optimizer: NewQueryOptimizer(completer),
		searcher:  NewSearchOrchestrator(providers, limits, logger),
		filter:    NewURLFilter(completer, opts.TopURLs),
		scraper:   NewScrapeOrchestrator(scraper, logger),
		extractor: extractor,
		guard:     NewYieldGuard(scraper, extractor, opts.MinSongs, logger),
		store:     store,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls a run.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes the full flow for one raw query. userID may be empty; the
// draft is then returned ephemeral and never persisted. Any stage failure
// short-circuits into a Failure result carrying the original query; no error
// crosses the pipeline boundary.
func (e *Engine) Run(ctx context.Context, rawQuery, userID string, progress chan<- ProgressUpdate) Result {
	diag := Diagnostics{OriginalQuery: rawQuery}

	fail := func(err error) Result {
		e.logger.Error("pipeline run failed", "query", rawQuery, "reason", shared.Reason(err), "error", err)
		return Result{
			Success:     false,
			Diagnostics: diag,
			Reason:      shared.Reason(err),
			Message:     err.Error(),
		}
	}

	sendProgress(progress, optimizeUpdate(rawQuery))
	optimized, err := e.optimizer.Optimize(ctx, rawQuery)
	if err != nil {
		return fail(err)
	}
	diag.OptimizedQuery = optimized
	e.logger.Info("query optimized", "original", rawQuery, "optimized", optimized)

	sendProgress(progress, searchUpdate(1, 1, "configured endpoints"))
	outcome, err := e.searcher.Search(ctx, optimized)
	if err != nil {
		return fail(err)
	}
	diag.SearchURL = outcome.SearchURL
	diag.ChosenEndpoint = outcome.ChosenEndpoint
	diag.AllURLs = outcome.URLs
	diag.FilteredURLs = e.filter.StaticFilter(outcome.URLs)

	sendProgress(progress, filterUpdate(len(diag.FilteredURLs)))
	relevant, err := e.filter.Filter(ctx, outcome.URLs, rawQuery)
	if err != nil {
		return fail(err)
	}
	diag.RelevantURLs = relevant

	sendProgress(progress, scrapeUpdate(1, len(relevant), "candidates"))
	content, err := e.scraper.ScrapeFirstSuccess(ctx, relevant)
	if err != nil {
		return fail(err)
	}
	diag.SelectedURL = content.URL

	sendProgress(progress, extractUpdate())
	extraction, err := e.extractor.Extract(ctx, content.Markdown, rawQuery)
	if err != nil {
		return fail(err)
	}

	songs, rawSongs := BuildSongs(extraction.RawSongs)
	draft := models.Draft{
		Title:       extraction.Title,
		Songs:       songs,
		RawSongs:    rawSongs,
		SourceURL:   content.URL,
		SearchQuery: optimized,
	}

	draft, err = e.guard.EnsureMinimumYield(ctx, draft, relevant, content.URL, rawQuery, progress)
	if err != nil {
		return fail(err)
	}
	diag.SelectedURL = draft.SourceURL

	result := Result{
		Success:     true,
		Draft:       draft,
		Diagnostics: diag,
	}

	if userID != "" && e.store != nil {
		// Cancellation observed here must not leave a partial persist behind.
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("%w: %v", shared.ErrCancelled, err))
		}

		sendProgress(progress, persistUpdate(draft.Title))
		playlistID, err := e.store.Save(ctx, userID, draft)
		if err != nil {
			return fail(err)
		}
		result.PlaylistID = playlistID
		e.logger.Info("playlist persisted", "id", playlistID, "user", userID, "songs", len(draft.Songs))
	}

	return result
}
