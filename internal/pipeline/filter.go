package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
)

// DefaultTopURLs is how many candidate URLs the filter asks the model to keep.
const DefaultTopURLs = 4

// excludedDomains are statically removed before the model sees the list.
var excludedDomains = []string{"stackexchange", "stackoverflow"}

// URLFilter narrows raw search result URLs to the few most likely to hold a
// usable music list, using a static exclude pass then a model ranking pass.
type URLFilter struct {
	completer services.Completer
	topURLs   int
}

// NewURLFilter creates a filter backed by the given completion service.
func NewURLFilter(completer services.Completer, topURLs int) *URLFilter {
	if topURLs <= 0 {
		topURLs = DefaultTopURLs
	}
	return &URLFilter{completer: completer, topURLs: topURLs}
}

// StaticFilter removes URLs from domains known to never hold music lists.
func (f *URLFilter) StaticFilter(rawURLs []string) []string {
	filtered := make([]string, 0, len(rawURLs))
	for _, u := range rawURLs {
		excluded := false
		for _, domain := range excludedDomains {
			if strings.Contains(u, domain) {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// Filter returns the top candidate URLs for the original request, most
// relevant first. Malformed model output is a hard failure, never a silent
// empty list.
func (f *URLFilter) Filter(ctx context.Context, rawURLs []string, originalQuery string) ([]string, error) {
	filtered := f.StaticFilter(rawURLs)

	encoded, err := json.Marshal(filtered)
	if err != nil {
		return nil, fmt.Errorf("failed to encode url list: %w", err)
	}

	prompt := fmt.Sprintf(`Given the original user request %q and these extracted URLs from search results, select the %d most relevant URLs for finding music/playlists that are not from music streaming sites or reddit. Return only the URLs as a JSON array.
Extracted URLs: %s
Return format: ["url1", "url2", "url3", "url4"]`, originalQuery, f.topURLs, encoded)

	text, err := f.completer.Complete(ctx, prompt, "")
	if err != nil {
		return nil, fmt.Errorf("url ranking failed: %w", err)
	}

	var relevant []string
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &relevant); err != nil {
		return nil, fmt.Errorf("%w: url ranking returned malformed JSON: %v", shared.ErrUpstream, err)
	}

	if len(relevant) > f.topURLs {
		relevant = relevant[:f.topURLs]
	}
	return relevant, nil
}

// stripCodeFence unwraps a model response wrapped in a markdown code fence.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
