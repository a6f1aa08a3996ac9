package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
)

// maxContentTokens bounds how much scraped markdown goes into one prompt.
const maxContentTokens = 24000

// Extraction is the raw output of one extraction pass, before dedup/splitting.
type Extraction struct {
	RawSongs []string `json:"songs"`
	Title    string   `json:"title"`
}

// SongExtractor pulls structured song entries and a playlist title out of
// scraped page content.
type SongExtractor struct {
	completer services.Completer
}

// NewSongExtractor creates an extractor backed by the given completion service.
func NewSongExtractor(completer services.Completer) *SongExtractor {
	return &SongExtractor{completer: completer}
}

// Extract asks the model for songs and a title. The response must be valid
// JSON of the expected shape; model output is untrusted text and anything else
// fails with a parse error. No retries happen here.
func (e *SongExtractor) Extract(ctx context.Context, markdown, originalQuery string) (*Extraction, error) {
	prompt := fmt.Sprintf(`Extract songs from this text in the format "Artist - Song Title" and generate a creative playlist title. Be very strict - only return actual songs with both artist and song name, if you find album names, put them in the Song Title field. The title should be catchy, descriptive, and capture the mood/vibe of the playlist.

Text: %s
`, shared.TruncateForPrompt(markdown, maxContentTokens))
	if originalQuery != "" {
		prompt += fmt.Sprintf("Original request: %s\n", originalQuery)
	}
	prompt += `
Return as a JSON object with this exact format:
{
  "songs": ["Artist Name - Song Title", "Another Artist - Another Song"],
  "title": "Creative Playlist Title"
}`

	text, err := e.completer.Complete(ctx, prompt, "")
	if err != nil {
		return nil, fmt.Errorf("song extraction failed: %w", err)
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &extraction); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrExtractionParse, err)
	}

	return &extraction, nil
}

// BuildSongs turns raw extracted strings into structured entries: exact dedup
// of the raw strings first, then splitting each survivor on its first " - ".
func BuildSongs(rawSongs []string) ([]models.Song, []string) {
	deduped := shared.DedupeStrings(rawSongs)

	songs := make([]models.Song, 0, len(deduped))
	for _, raw := range deduped {
		artist, title := shared.SplitSongString(raw)
		songs = append(songs, models.Song{Artist: artist, Title: title})
	}

	return songs, deduped
}
