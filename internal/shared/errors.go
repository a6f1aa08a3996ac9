package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Pipeline errors
	ErrUpstream           = fmt.Errorf("language model unavailable or returned unusable output")
	ErrProvidersExhausted = fmt.Errorf("all search providers failed")
	ErrTerminalSearch     = fmt.Errorf("query cannot be satisfied")
	ErrScrapesFailed      = fmt.Errorf("all candidate urls failed to scrape")
	ErrExtractionParse    = fmt.Errorf("model output is not valid extraction JSON")
	ErrCancelled          = fmt.Errorf("pipeline cancelled")

	// Provider-level classification
	ErrRateLimited = fmt.Errorf("provider rate limited")

	// API and store errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrUserNotFound     = fmt.Errorf("user not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// Reason maps an error chain to the machine-readable failure reason carried in
// a pipeline result.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, ErrTerminalSearch):
		return "terminal_search_condition"
	case errors.Is(err, ErrProvidersExhausted):
		return "all_providers_exhausted"
	case errors.Is(err, ErrScrapesFailed):
		return "all_scrapes_failed"
	case errors.Is(err, ErrExtractionParse):
		return "extraction_parse_error"
	case errors.Is(err, ErrMissingConfig), errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrMissingCredentials):
		return "configuration_error"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	default:
		return "internal_error"
	}
}
