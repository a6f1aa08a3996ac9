// [ScrapeProvider] implementations: hosted (Firecrawl API) and local (direct
// fetch + HTML-to-markdown conversion).
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/duskrunner/vibemix/internal/shared"
)

const (
	defaultScrapeTimeout   = 30 * time.Second
	defaultFirecrawlAPIURL = "https://api.firecrawl.dev"
)

// FirecrawlService implements [ScrapeProvider] against the Firecrawl scrape API.
type FirecrawlService struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewFirecrawlService creates a Firecrawl-backed scrape provider.
func NewFirecrawlService(baseURL, apiKey string, timeout time.Duration, client *http.Client) *FirecrawlService {
	if baseURL == "" {
		baseURL = defaultFirecrawlAPIURL
	}
	if timeout <= 0 {
		timeout = defaultScrapeTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &FirecrawlService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: client,
	}
}

// Name returns the provider identifier.
func (f *FirecrawlService) Name() string {
	return "firecrawl"
}

// Scrape requests markdown-only content for the URL.
func (f *FirecrawlService) Scrape(ctx context.Context, pageURL string, opts ScrapeOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reqBody := struct {
		URL               string   `json:"url"`
		Formats           []string `json:"formats"`
		OnlyMainContent   bool     `json:"onlyMainContent"`
		RemoveBase64Image bool     `json:"removeBase64Images"`
		StoreInCache      bool     `json:"storeInCache"`
	}{
		URL:               pageURL,
		Formats:           []string{"markdown"},
		OnlyMainContent:   opts.MainContentOnly,
		RemoveBase64Image: opts.RemoveImages,
		StoreInCache:      opts.UseCache,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		return "", fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read scrape response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("scrape failed with status %d: %s", resp.StatusCode, shared.TruncateForPrompt(string(body), 50))
	}

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Markdown string `json:"markdown"`
		} `json:"data"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode scrape response: %w", err)
	}
	if !parsed.Success {
		return "", fmt.Errorf("scrape rejected: %s", parsed.Error)
	}

	// Empty markdown is passed forward; yield handling decides what to do.
	return parsed.Data.Markdown, nil
}

// ReaderService implements [ScrapeProvider] without external credentials: it
// fetches the page and converts the HTML to markdown locally.
type ReaderService struct {
	timeout    time.Duration
	httpClient *http.Client
	converter  *md.Converter
}

// NewReaderService creates the local fetch-and-convert scrape provider.
func NewReaderService(timeout time.Duration, client *http.Client) *ReaderService {
	if timeout <= 0 {
		timeout = defaultScrapeTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ReaderService{
		timeout:    timeout,
		httpClient: client,
		converter:  md.NewConverter("", true, nil),
	}
}

// Name returns the provider identifier.
func (r *ReaderService) Name() string {
	return "reader"
}

// Scrape fetches the page and converts its HTML to markdown. The
// MainContentOnly and RemoveImages options are approximated by the converter
// configuration; UseCache is ignored (there is no cache layer).
func (r *ReaderService) Scrape(ctx context.Context, pageURL string, opts ScrapeOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	markdown, err := r.converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}

	return markdown, nil
}
