// Invidious-backed video lookup for extracted songs.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/duskrunner/vibemix/internal/cache"
	"github.com/duskrunner/vibemix/internal/shared"
)

const maxVideoResults = 5

// Video is a playable video match for a song.
type Video struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	VideoID      string `json:"videoId"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// VideoService searches Invidious-compatible endpoints for videos matching a
// song. Endpoints are tried in configured order; one that answers with a
// rate-limit signature is cached as limited and skipped until the entry
// expires.
type VideoService struct {
	endpoints  []string
	limits     *cache.RateLimits
	timeout    time.Duration
	httpClient *http.Client
}

// NewVideoService creates a video lookup client over the given endpoints.
func NewVideoService(endpoints []string, limits *cache.RateLimits, client *http.Client) *VideoService {
	if limits == nil {
		limits = cache.NewRateLimits(0, 0)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &VideoService{
		endpoints:  endpoints,
		limits:     limits,
		timeout:    defaultSearchTimeout,
		httpClient: client,
	}
}

// invidiousResult is the subset of the Invidious search response the service
// reads. Search returns a mixed list; only type "video" entries are kept.
type invidiousResult struct {
	Type            string `json:"type"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	VideoID         string `json:"videoId"`
	VideoThumbnails []struct {
		Quality string `json:"quality"`
		URL     string `json:"url"`
	} `json:"videoThumbnails"`
}

// SearchVideos returns the top matches for the query, trying each endpoint in
// order until one succeeds.
func (v *VideoService) SearchVideos(ctx context.Context, query string) ([]Video, error) {
	if len(v.endpoints) == 0 {
		return nil, fmt.Errorf("%w: no video endpoints configured", shared.ErrMissingConfig)
	}

	var lastErr error
	for _, endpoint := range v.endpoints {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		if v.limits.IsLimited(endpoint) {
			continue
		}

		videos, err := v.searchEndpoint(ctx, endpoint, query)
		if err != nil {
			if errors.Is(err, shared.ErrCancelled) {
				return nil, err
			}
			if errors.Is(err, shared.ErrRateLimited) {
				v.limits.MarkLimited(endpoint)
			}
			lastErr = err
			continue
		}
		return videos, nil
	}

	if lastErr == nil {
		lastErr = errors.New("every endpoint is currently rate limited")
	}
	return nil, fmt.Errorf("%w: %v", shared.ErrProvidersExhausted, lastErr)
}

func (v *VideoService) searchEndpoint(ctx context.Context, endpoint, query string) ([]Video, error) {
	searchURL := fmt.Sprintf("%sapi/v1/search?q=%s&sortBy=relevance&page=1",
		endpoint, url.QueryEscape(query))

	body, err := v.fetch(ctx, endpoint, searchURL)
	if err != nil {
		return nil, err
	}

	var results []invidiousResult
	if err := json.Unmarshal(body, &results); err != nil {
		if classified := classifyBody(string(body)); classified != nil {
			return nil, fmt.Errorf("%w: %s returned an unparseable body", classified, endpoint)
		}
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	videos := make([]Video, 0, maxVideoResults)
	for _, result := range results {
		if result.Type != "video" || result.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			Title:        result.Title,
			Artist:       result.Author,
			VideoID:      result.VideoID,
			VideoURL:     "https://www.youtube.com/watch?v=" + result.VideoID,
			ThumbnailURL: thumbnailURL(result.VideoThumbnails),
		})
		if len(videos) == maxVideoResults {
			break
		}
	}

	return videos, nil
}

// Mix fetches the auto-generated mix seeded by a video. An endpoint that
// cannot build the mix answers terminally for every endpoint, so that
// signature stops the fallback loop.
func (v *VideoService) Mix(ctx context.Context, videoID string) ([]Video, error) {
	if len(v.endpoints) == 0 {
		return nil, fmt.Errorf("%w: no video endpoints configured", shared.ErrMissingConfig)
	}

	var lastErr error
	for _, endpoint := range v.endpoints {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		if v.limits.IsLimited(endpoint) {
			continue
		}

		mixURL := fmt.Sprintf("%sapi/v1/mixes/RD%s", endpoint, url.PathEscape(videoID))
		body, err := v.fetch(ctx, endpoint, mixURL)
		if err != nil {
			if errors.Is(err, shared.ErrCancelled) || errors.Is(err, shared.ErrTerminalSearch) {
				return nil, err
			}
			if errors.Is(err, shared.ErrRateLimited) {
				v.limits.MarkLimited(endpoint)
			}
			lastErr = err
			continue
		}

		var parsed struct {
			Videos []invidiousResult `json:"videos"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			lastErr = fmt.Errorf("failed to decode mix response: %w", err)
			continue
		}

		videos := make([]Video, 0, len(parsed.Videos))
		for _, result := range parsed.Videos {
			if result.VideoID == "" {
				continue
			}
			videos = append(videos, Video{
				Title:        result.Title,
				Artist:       result.Author,
				VideoID:      result.VideoID,
				VideoURL:     "https://www.youtube.com/watch?v=" + result.VideoID,
				ThumbnailURL: thumbnailURL(result.VideoThumbnails),
			})
		}
		return videos, nil
	}

	if lastErr == nil {
		lastErr = errors.New("every endpoint is currently rate limited")
	}
	return nil, fmt.Errorf("%w: %v", shared.ErrProvidersExhausted, lastErr)
}

// fetch performs one GET against an endpoint and classifies the response the
// same way the search provider does.
func (v *VideoService) fetch(ctx context.Context, endpoint, requestURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", shared.ErrCancelled, err)
		}
		return nil, fmt.Errorf("video request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read video response: %w", err)
	}

	if isHTMLResponse(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: %s returned an html page (Bad Response)", shared.ErrRateLimited, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if classified := classifyBody(string(body)); classified != nil {
			return nil, fmt.Errorf("%w: %s returned status %d", classified, endpoint, resp.StatusCode)
		}
		return nil, fmt.Errorf("video request failed with status %d", resp.StatusCode)
	}

	return body, nil
}

// thumbnailURL picks the medium-quality thumbnail, falling back to the first.
func thumbnailURL(thumbnails []struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}) string {
	for _, thumb := range thumbnails {
		if strings.EqualFold(thumb.Quality, "medium") && thumb.URL != "" {
			return thumb.URL
		}
	}
	if len(thumbnails) > 0 {
		return thumbnails[0].URL
	}
	return ""
}
