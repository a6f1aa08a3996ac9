package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/duskrunner/vibemix/internal/cache"
	"github.com/duskrunner/vibemix/internal/pipeline"
	"github.com/duskrunner/vibemix/internal/services"
	"github.com/duskrunner/vibemix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	completer  services.Completer
	providers  []services.SearchProvider
	scraper    services.ScrapeProvider
	limits     *cache.RateLimits
	lastfm     *services.LastFMService
	videos     *services.VideoService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Completer  services.Completer
	Providers  []services.SearchProvider
	Scraper    services.ScrapeProvider
	Limits     *cache.RateLimits
	LastFM     *services.LastFMService
	Videos     *services.VideoService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Limits == nil {
		opts.Limits = cache.NewRateLimits(0, 0)
	}

	return &Runner{
		config:     opts.Config,
		completer:  opts.Completer,
		providers:  opts.Providers,
		scraper:    opts.Scraper,
		limits:     opts.Limits,
		lastfm:     opts.LastFM,
		videos:     opts.Videos,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, vibeCommand, playlistsCommand, usersCommand, songsCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase opens the configured SQLite database and applies pool settings.
//
// The caller owns the returned handle and must close it.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// newEngine assembles the playlist pipeline around the runner's services.
// The store is optional; without it every run is ephemeral.
func (r *Runner) newEngine(store pipeline.PlaylistStore) *pipeline.Engine {
	return pipeline.NewEngine(r.completer, r.providers, r.scraper, r.limits, store, pipeline.Options{
		MinSongs: r.config.Pipeline.MinSongs,
		TopURLs:  r.config.Pipeline.TopURLs,
	}, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
