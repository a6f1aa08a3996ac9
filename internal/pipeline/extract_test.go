package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/duskrunner/vibemix/internal/shared"
	tu "github.com/duskrunner/vibemix/internal/testing"
)

func TestSongExtractor(t *testing.T) {
	t.Run("parses songs and title", func(t *testing.T) {
		completer := &tu.MockCompleter{Responses: []string{
			`{"songs":["Khruangbin - Maria Tambien","Men I Trust - Show Me How"],"title":"Golden Hour Grooves"}`,
		}}
		e := NewSongExtractor(completer)

		extraction, err := e.Extract(context.Background(), "# Top Songs\n...", "chill study playlist")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(extraction.RawSongs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(extraction.RawSongs))
		}
		if extraction.Title != "Golden Hour Grooves" {
			t.Errorf("unexpected title: %s", extraction.Title)
		}
		if !strings.Contains(completer.Calls[0], "Original request: chill study playlist") {
			t.Error("expected original request hint in prompt")
		}
	})

	t.Run("unwraps code-fenced extraction output", func(t *testing.T) {
		completer := &tu.MockCompleter{Responses: []string{
			"```json\n{\"songs\":[\"A - B\"],\"title\":\"T\"}\n```",
		}}
		e := NewSongExtractor(completer)

		extraction, err := e.Extract(context.Background(), "content", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(extraction.RawSongs) != 1 {
			t.Errorf("unexpected songs: %v", extraction.RawSongs)
		}
	})

	t.Run("malformed output is an extraction parse error", func(t *testing.T) {
		completer := &tu.MockCompleter{Responses: []string{"not json"}}
		e := NewSongExtractor(completer)

		if _, err := e.Extract(context.Background(), "content", ""); !errors.Is(err, shared.ErrExtractionParse) {
			t.Fatalf("expected parse error, got %v", err)
		}
	})

	t.Run("truncated JSON is an extraction parse error", func(t *testing.T) {
		completer := &tu.MockCompleter{Responses: []string{`{"songs":["A - B"`}}
		e := NewSongExtractor(completer)

		if _, err := e.Extract(context.Background(), "content", ""); !errors.Is(err, shared.ErrExtractionParse) {
			t.Fatalf("expected parse error, got %v", err)
		}
	})

	t.Run("completer failure is not misreported as parse error", func(t *testing.T) {
		completer := &tu.MockCompleter{Err: shared.ErrUpstream}
		e := NewSongExtractor(completer)

		_, err := e.Extract(context.Background(), "content", "")
		if !errors.Is(err, shared.ErrUpstream) {
			t.Fatalf("expected upstream error, got %v", err)
		}
		if errors.Is(err, shared.ErrExtractionParse) {
			t.Error("upstream failure should not carry the parse sentinel")
		}
	})
}

func TestBuildSongs(t *testing.T) {
	t.Run("dedups raw strings then splits", func(t *testing.T) {
		songs, raw := BuildSongs([]string{
			"Khruangbin - Maria Tambien",
			"Khruangbin - Maria Tambien",
			"Instrumental Interlude",
		})

		if len(raw) != 2 {
			t.Fatalf("expected 2 raw strings, got %d", len(raw))
		}
		if len(songs) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(songs))
		}
		if songs[0].Artist != "Khruangbin" || songs[0].Title != "Maria Tambien" {
			t.Errorf("unexpected first song: %+v", songs[0])
		}
		if songs[1].Artist != shared.UnknownArtist || songs[1].Title != "Instrumental Interlude" {
			t.Errorf("unexpected sentinel entry: %+v", songs[1])
		}
	})

	t.Run("near-duplicates survive", func(t *testing.T) {
		songs, _ := BuildSongs([]string{"a - b", "A - B", "a - b "})
		if len(songs) != 3 {
			t.Errorf("expected case/whitespace variants to be kept, got %d", len(songs))
		}
	})
}
