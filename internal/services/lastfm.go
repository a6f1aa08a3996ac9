// Last.fm metadata enrichment for extracted songs.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/duskrunner/vibemix/internal/shared"
)

const defaultLastFMBaseURL = "http://ws.audioscrobbler.com/2.0/"

// AlbumInfo is the album metadata attached to a song for display purposes.
type AlbumInfo struct {
	Artist   string `json:"artist"`
	Title    string `json:"title"`
	CoverURL string `json:"coverUrl"`
}

// LastFMService looks up track and album metadata from the Last.fm API.
type LastFMService struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewLastFMService creates a Last.fm metadata client.
func NewLastFMService(baseURL, apiKey string, client *http.Client) *LastFMService {
	if baseURL == "" {
		baseURL = defaultLastFMBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &LastFMService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    defaultSearchTimeout,
		httpClient: client,
	}
}

// lastFMTrackResponse is the subset of track.getInfo the service reads.
type lastFMTrackResponse struct {
	Track *struct {
		Artist struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album *struct {
			Title string `json:"title"`
			Image []struct {
				URL  string `json:"#text"`
				Size string `json:"size"`
			} `json:"image"`
		} `json:"album"`
	} `json:"track"`
}

// AlbumForTrack fetches album metadata for a song. A track without album data
// yields empty metadata with the artist passed through, not an error.
func (l *LastFMService) AlbumForTrack(ctx context.Context, artist, track string) (*AlbumInfo, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("%w: lastfm api key is not set", shared.ErrMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("method", "track.getInfo")
	params.Set("format", "json")
	params.Set("api_key", l.apiKey)
	params.Set("artist", artist)
	params.Set("track", track)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: lastfm returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var parsed lastFMTrackResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode lastfm response: %w", err)
	}

	info := &AlbumInfo{Artist: artist}
	if parsed.Track == nil || parsed.Track.Album == nil {
		return info, nil
	}

	info.Artist = parsed.Track.Artist.Name
	info.Title = parsed.Track.Album.Title
	info.CoverURL = coverImageURL(parsed.Track.Album.Image)
	return info, nil
}

// coverImageURL picks the best cover image by size preference.
func coverImageURL(images []struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}) string {
	bySize := make(map[string]string, len(images))
	for _, img := range images {
		if _, ok := bySize[img.Size]; !ok {
			bySize[img.Size] = img.URL
		}
	}

	for _, size := range []string{"extralarge", "large", "medium"} {
		if u, ok := bySize[size]; ok && u != "" {
			return u
		}
	}
	return ""
}
