package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/duskrunner/vibemix/internal/models"
	th "github.com/duskrunner/vibemix/internal/testing"
)

func testDraft() models.Draft {
	return models.Draft{
		Title: "Golden Hour Grooves",
		Songs: []models.Song{
			{Artist: "Khruangbin", Title: "Maria Tambien"},
			{Artist: "Men I Trust", Title: "Show Me How"},
		},
		SourceURL:   "https://blog.example.com/songs",
		SearchQuery: "chill study songs",
	}
}

func TestExports(t *testing.T) {
	t.Run("CSV has headers and one row per song", func(t *testing.T) {
		data, err := ExportToCSV(testDraft())
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "Position,Artist,Title" {
			t.Errorf("unexpected header: %s", lines[0])
		}
		if !strings.Contains(lines[1], "Khruangbin") {
			t.Errorf("unexpected first row: %s", lines[1])
		}
	})

	t.Run("markdown carries title, source, and numbered songs", func(t *testing.T) {
		data, err := ExportToMarkdown(testDraft())
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		md := string(data)
		if !strings.HasPrefix(md, "# Golden Hour Grooves") {
			t.Errorf("missing title heading: %s", md)
		}
		if !strings.Contains(md, "https://blog.example.com/songs") {
			t.Error("missing source url")
		}
		if !strings.Contains(md, "1. Khruangbin - Maria Tambien") {
			t.Error("missing numbered song entry")
		}
	})

	t.Run("plain text lists all songs", func(t *testing.T) {
		data, err := ExportToText(testDraft())
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		text := string(data)
		if !strings.Contains(text, "Playlist: Golden Hour Grooves") {
			t.Error("missing playlist name")
		}
		if !strings.Contains(text, "2. Men I Trust - Show Me How") {
			t.Error("missing second song")
		}
	})

	t.Run("empty draft still renders", func(t *testing.T) {
		draft := models.Draft{Title: "Thin Result"}
		data, err := ExportToText(draft)
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}
		if !strings.Contains(string(data), "Songs: 0") {
			t.Errorf("unexpected output: %s", data)
		}
	})
}

func TestWriteExports(t *testing.T) {
	t.Run("writes files with slugged default names", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, slugify(testDraft().Title))

		csvFile, err := WriteCSVExport(testDraft(), base)
		if err != nil {
			t.Fatalf("failed to write CSV: %v", err)
		}
		th.AssertFileExists(t, csvFile)

		mdFile, err := WriteMarkdownExport(testDraft(), base)
		if err != nil {
			t.Fatalf("failed to write Markdown: %v", err)
		}
		if !strings.HasSuffix(mdFile, "golden-hour-grooves.md") {
			t.Errorf("unexpected filename: %s", mdFile)
		}

		content := th.MustReadFile(t, mdFile)
		if !strings.Contains(content, "# Golden Hour Grooves") {
			t.Error("unexpected markdown content")
		}
	})
}

func TestSlugify(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{"Golden Hour Grooves", "golden-hour-grooves"},
		{"Lo-Fi & Chill!", "lo-fi-chill"},
		{"???", "playlist"},
		{"", "playlist"},
	}

	for _, c := range tc {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
