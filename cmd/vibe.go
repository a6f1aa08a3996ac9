package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/duskrunner/vibemix/internal/formatter"
	"github.com/duskrunner/vibemix/internal/pipeline"
	"github.com/duskrunner/vibemix/internal/repositories"
	"github.com/duskrunner/vibemix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Vibe runs the full pipeline for a natural-language playlist description.
//
// With --user the result is saved under that user; otherwise the run is
// ephemeral and nothing touches the database.
func (r *Runner) Vibe(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: a vibe description is required", shared.ErrMissingArgument)
	}
	if r.completer == nil {
		return fmt.Errorf("%w: anthropic api key is not set", shared.ErrMissingCredentials)
	}
	if err := r.config.ValidatePipeline(); err != nil {
		return err
	}

	userID := cmd.String("user")
	var store pipeline.PlaylistStore
	if userID != "" {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		store = repositories.NewPlaylistRepository(db)
	}

	engine := r.newEngine(store)

	var progress chan pipeline.ProgressUpdate
	drained := make(chan struct{})
	if cmd.Bool("quiet") {
		close(drained)
	} else {
		progress = make(chan pipeline.ProgressUpdate, 16)
		go func() {
			defer close(drained)
			for update := range progress {
				r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
			}
		}()
	}

	result := engine.Run(ctx, query, userID, progress)
	if progress != nil {
		close(progress)
		<-drained
	}

	format := cmd.String("format")
	if format == "json" {
		return r.writeJSON(result.Response(), cmd.Bool("pretty"))
	}

	if !result.Success {
		return fmt.Errorf("pipeline failed (%s): %s", result.Reason, result.Message)
	}

	draft := result.Draft
	base := cmd.String("output")

	switch format {
	case "csv":
		file, err := formatter.WriteCSVExport(draft, base)
		if err != nil {
			return err
		}
		return r.writePlain("exported to %s\n", file)
	case "markdown", "md":
		if base != "" {
			file, err := formatter.WriteMarkdownExport(draft, base)
			if err != nil {
				return err
			}
			return r.writePlain("exported to %s\n", file)
		}
		data, err := formatter.ExportToMarkdown(draft)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "text":
		if base != "" {
			file, err := formatter.WriteTextExport(draft, base)
			if err != nil {
				return err
			}
			return r.writePlain("exported to %s\n", file)
		}
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	r.writePlainHeader(draft.Title)
	if result.Diagnostics.OptimizedQuery != "" {
		r.writePlain("Search: %s\n", result.Diagnostics.OptimizedQuery)
	}
	if draft.SourceURL != "" {
		r.writePlain("Source: %s\n", draft.SourceURL)
	}
	r.writePlain("\n")
	for i, song := range draft.Songs {
		r.writePlain("%2d. %s - %s\n", i+1, song.Artist, song.Title)
	}
	if result.PlaylistID != "" {
		r.writePlainln("Saved as playlist %s", result.PlaylistID)
	}
	return nil
}
