// package services defines interfaces for the pipeline's external collaborators
//
// Language model, web search, page scraping, song metadata
package services

import (
	"context"
	"strings"

	"github.com/duskrunner/vibemix/internal/shared"
)

// Completer is the language-model completion service consumed by the query
// optimizer, URL filter, and song extractor.
type Completer interface {
	// Complete sends a single prompt under optional system instructions and
	// returns the trimmed response text. An empty response is an error.
	Complete(ctx context.Context, prompt, system string) (string, error)
}

// SearchProvider wraps one search backend endpoint.
type SearchProvider interface {
	// Endpoint returns the configured base URL identifying this provider.
	Endpoint() string

	// SearchURL returns the full query URL this provider would fetch.
	// Retained in pipeline diagnostics.
	SearchURL(query string) string

	// Search returns candidate result URLs for the query, or a classified
	// error (rate-limit signature, terminal condition, or plain failure).
	Search(ctx context.Context, query string) ([]string, error)
}

// ScrapeOptions control how a page is reduced to markdown.
type ScrapeOptions struct {
	MainContentOnly bool // strip navigation/boilerplate
	RemoveImages    bool // drop embedded base64 images
	UseCache        bool // allow the backend to serve a cached scrape
}

// ScrapeProvider wraps one scraping backend.
type ScrapeProvider interface {
	// Name identifies the backend ("firecrawl", "reader").
	Name() string

	// Scrape returns page content as markdown. An empty-but-successful scrape
	// is not an error; emptiness is the extractor's concern.
	Scrape(ctx context.Context, url string, opts ScrapeOptions) (string, error)
}

// rateLimitSignatures are response-body substrings that mark an endpoint as
// rate-limited or blocked. Matching any of them flags the endpoint in the
// shared rate-limit cache.
var rateLimitSignatures = []string{
	"Too Many Requests",
	"Gateway",
	"Bad Response",
	"API disabled",
	"blocked",
	"undefined",
}

// terminalSignature marks a query as unsatisfiable rather than an endpoint as
// unhealthy. Known fragility: this matches a provider's error message string.
const terminalSignature = "Could not create mix"

// classifyBody inspects a failure response body and returns the matching
// sentinel classification, or nil when the body carries no known signature.
func classifyBody(body string) error {
	if strings.Contains(body, terminalSignature) {
		return shared.ErrTerminalSearch
	}
	for _, sig := range rateLimitSignatures {
		if strings.Contains(body, sig) {
			return shared.ErrRateLimited
		}
	}
	return nil
}

// isHTMLResponse reports whether a content-type header indicates an HTML
// block/CAPTCHA page where structured data was expected.
func isHTMLResponse(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}
