// SearXNG-compatible [SearchProvider] implementation.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/duskrunner/vibemix/internal/shared"
)

const defaultSearchTimeout = 15 * time.Second

// SearxProvider queries one SearXNG-style search endpoint and extracts result
// URLs. One instance exists per configured endpoint; priority order between
// instances belongs to the pipeline's search orchestrator.
type SearxProvider struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// NewSearxProvider creates a provider for a single endpoint base URL.
func NewSearxProvider(endpoint string, timeout time.Duration, client *http.Client) *SearxProvider {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SearxProvider{
		endpoint:   endpoint,
		timeout:    timeout,
		httpClient: client,
	}
}

// Endpoint returns the configured base URL.
func (p *SearxProvider) Endpoint() string {
	return p.endpoint
}

// SearchURL builds the full query URL for the given optimized query.
func (p *SearxProvider) SearchURL(query string) string {
	return fmt.Sprintf("%ssearch?q=%s&language=auto&time_range=&safesearch=0&categories=general&format=json",
		p.endpoint, url.QueryEscape(query))
}

// searxResponse is the subset of the SearXNG JSON response the provider reads.
type searxResponse struct {
	Results []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"results"`
}

// Search fetches result URLs for the query.
//
// Failures are classified: an HTML content-type or a known rate-limit
// signature in the body wraps [shared.ErrRateLimited]; the
// unsatisfiable-query signature wraps [shared.ErrTerminalSearch]; anything
// else is a plain error the caller may skip past.
func (p *SearxProvider) Search(ctx context.Context, query string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.SearchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if isHTMLResponse(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: %s returned an html page (Bad Response)", shared.ErrRateLimited, p.endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if classified := classifyBody(string(body)); classified != nil {
			return nil, fmt.Errorf("%w: %s returned status %d", classified, p.endpoint, resp.StatusCode)
		}
		return nil, fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	var parsed searxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if classified := classifyBody(string(body)); classified != nil {
			return nil, fmt.Errorf("%w: %s returned an unparseable body", classified, p.endpoint)
		}
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	urls := make([]string, 0, len(parsed.Results))
	seen := make(map[string]struct{}, len(parsed.Results))
	for _, result := range parsed.Results {
		if result.URL == "" {
			continue
		}
		if _, ok := seen[result.URL]; ok {
			continue
		}
		seen[result.URL] = struct{}{}
		urls = append(urls, result.URL)
	}

	return urls, nil
}
