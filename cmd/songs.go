package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongAlbum looks up album metadata for a single song.
func (r *Runner) SongAlbum(ctx context.Context, cmd *cli.Command) error {
	if r.lastfm == nil {
		return fmt.Errorf("%w: lastfm api key is not set", shared.ErrMissingCredentials)
	}

	album, err := r.lastfm.AlbumForTrack(ctx, cmd.String("artist"), cmd.String("track"))
	if err != nil {
		return fmt.Errorf("album lookup failed: %w", err)
	}

	return r.writeJSON(album, cmd.Bool("pretty"))
}

// SongVideos searches the configured video endpoints for a song query.
func (r *Runner) SongVideos(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}
	if r.videos == nil {
		return fmt.Errorf("%w: no video endpoints configured", shared.ErrMissingConfig)
	}

	videos, err := r.videos.SearchVideos(ctx, query)
	if err != nil {
		return fmt.Errorf("video search failed: %w", err)
	}

	return r.writeVideos(videos, cmd.Bool("json"))
}

// SongMix builds a radio mix seeded by a video ID.
func (r *Runner) SongMix(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: a seed video id is required", shared.ErrMissingArgument)
	}
	if r.videos == nil {
		return fmt.Errorf("%w: no video endpoints configured", shared.ErrMissingConfig)
	}

	videos, err := r.videos.Mix(ctx, id)
	if err != nil {
		return fmt.Errorf("mix lookup failed: %w", err)
	}

	return r.writeVideos(videos, cmd.Bool("json"))
}

func (r *Runner) writeVideos(videos []services.Video, useJSON bool) error {
	if useJSON {
		return r.writeJSON(map[string]any{"videos": videos}, true)
	}

	for i, v := range videos {
		r.writePlain("%2d. %s", i+1, v.Title)
		if v.Artist != "" {
			r.writePlain(" (%s)", v.Artist)
		}
		r.writePlain("\n    %s\n", v.VideoURL)
	}
	return nil
}
