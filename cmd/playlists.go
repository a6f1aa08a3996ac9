package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/duskrunner/vibemix/internal/formatter"
	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/repositories"
	"github.com/duskrunner/vibemix/internal/shared"
	"github.com/urfave/cli/v3"
)

// playlistJSON is the CLI wire form of a stored playlist.
type playlistJSON struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	SearchQuery string        `json:"searchQuery"`
	SourceURL   string        `json:"sourceUrl"`
	SongCount   int           `json:"songCount"`
	Songs       []models.Song `json:"songs,omitempty"`
	CreatedAt   string        `json:"createdAt"`
}

func playlistToJSON(p *models.PersistedPlaylist, withSongs bool) playlistJSON {
	out := playlistJSON{
		ID:          p.ID(),
		Title:       p.Title(),
		SearchQuery: p.SearchQuery(),
		SourceURL:   p.SourceURL(),
		SongCount:   len(p.Songs()),
		CreatedAt:   p.CreatedAt().UTC().Format("2006-01-02 15:04"),
	}
	if withSongs {
		out.Songs = p.Songs()
	}
	return out
}

// PlaylistList lists saved playlists for a user.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := repositories.NewPlaylistRepository(db).List(map[string]any{
		"user_id": cmd.String("user"),
		"limit":   cmd.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]playlistJSON, 0, len(playlists))
		for _, p := range playlists {
			out = append(out, playlistToJSON(p, false))
		}
		return r.writeJSON(map[string]any{"playlists": out}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		r.writePlain("%s  %-40s  %3d songs  %s\n",
			p.ID(), p.Title(), len(p.Songs()), p.CreatedAt().UTC().Format("2006-01-02"))
	}
	return nil
}

// PlaylistShow prints one playlist with its songs.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	playlist, err := repositories.NewPlaylistRepository(db).Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlistToJSON(playlist, true), cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Title())
	if playlist.SearchQuery() != "" {
		r.writePlain("Search: %s\n", playlist.SearchQuery())
	}
	if playlist.SourceURL() != "" {
		r.writePlain("Source: %s\n", playlist.SourceURL())
	}
	r.writePlain("\n")
	for i, song := range playlist.Songs() {
		r.writePlain("%2d. %s - %s\n", i+1, song.Artist, song.Title)
	}
	return nil
}

// PlaylistDelete soft-deletes a saved playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewPlaylistRepository(db).Delete(id); err != nil {
		return err
	}
	return r.writePlain("deleted %s\n", id)
}

// PlaylistExport writes a saved playlist to a file.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	playlist, err := repositories.NewPlaylistRepository(db).Get(id)
	if err != nil {
		return err
	}

	draft := playlist.Draft()
	base := cmd.String("output")

	var file string
	switch cmd.String("format") {
	case "csv":
		file, err = formatter.WriteCSVExport(draft, base)
	case "markdown", "md":
		file, err = formatter.WriteMarkdownExport(draft, base)
	case "text":
		file, err = formatter.WriteTextExport(draft, base)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, cmd.String("format"))
	}
	if err != nil {
		return err
	}
	return r.writePlain("exported to %s\n", file)
}
