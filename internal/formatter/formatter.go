// package formatter provides functions to export a generated playlist to
// various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/duskrunner/vibemix/internal/models"
)

// ExportToCSV converts a playlist draft to CSV format with columns: Position, Artist, Title
func ExportToCSV(draft models.Draft) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Artist", "Title"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range draft.Songs {
		record := []string{
			fmt.Sprintf("%d", i+1),
			song.Artist,
			song.Title,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist draft to Markdown format
func ExportToMarkdown(draft models.Draft) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", draft.Title))

	if draft.SearchQuery != "" {
		buf.WriteString(fmt.Sprintf("**Search**: %s\n", draft.SearchQuery))
	}
	if draft.SourceURL != "" {
		buf.WriteString(fmt.Sprintf("**Source**: <%s>\n", draft.SourceURL))
	}
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(draft.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range draft.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist draft to plain text format
func ExportToText(draft models.Draft) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", draft.Title))
	if draft.SourceURL != "" {
		buf.WriteString(fmt.Sprintf("Source: %s\n", draft.SourceURL))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(draft.Songs)))

	for i, song := range draft.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// slugify builds a safe base filename from a playlist title.
func slugify(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "playlist"
	}
	return slug
}

// WriteCSVExport writes a playlist draft to {base}.csv.
//
// The base filename defaults to a slug of the playlist title.
func WriteCSVExport(draft models.Draft, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = slugify(draft.Title)
	}

	csvData, err := ExportToCSV(draft)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	file := baseFilepath + ".csv"
	if err := os.WriteFile(file, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return file, nil
}

// WriteMarkdownExport writes a playlist draft to {base}.md.
func WriteMarkdownExport(draft models.Draft, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = slugify(draft.Title)
	}

	mdData, err := ExportToMarkdown(draft)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	file := baseFilepath + ".md"
	if err := os.WriteFile(file, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return file, nil
}

// WriteTextExport writes a playlist draft to {base}.txt.
func WriteTextExport(draft models.Draft, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = slugify(draft.Title)
	}

	textData, err := ExportToText(draft)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	file := baseFilepath + ".txt"
	if err := os.WriteFile(file, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return file, nil
}
