package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/duskrunner/vibemix/internal/repositories"
	"github.com/duskrunner/vibemix/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API server until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.ValidatePipeline(); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	playlists := repositories.NewPlaylistRepository(db)
	users := repositories.NewUserRepository(db)
	engine := r.newEngine(playlists)
	router := server.NewRouter(engine, playlists, users, r.logger)

	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	r.logger.Info("server listening", "addr", srv.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
