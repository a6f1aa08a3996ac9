package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/pipeline"
	"github.com/duskrunner/vibemix/internal/shared"
)

// PipelineRunner runs one vibe-to-playlist pipeline execution.
type PipelineRunner interface {
	Run(ctx context.Context, rawQuery, userID string, progress chan<- pipeline.ProgressUpdate) pipeline.Result
}

// PlaylistReader is the read/delete surface the playlist endpoints need.
type PlaylistReader interface {
	Get(id string) (*models.PersistedPlaylist, error)
	List(criteria map[string]any) ([]*models.PersistedPlaylist, error)
	Delete(id string) error
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error string `json:"error"`
}

// SearchHandler serves the pipeline entrypoint.
type SearchHandler struct {
	runner PipelineRunner
	logger *log.Logger
}

// NewSearchHandler creates the handler for POST /api/search.
func NewSearchHandler(runner PipelineRunner, logger *log.Logger) *SearchHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SearchHandler{runner: runner, logger: logger}
}

// Routes implements [Handler].
func (h *SearchHandler) Routes() []string {
	return []string{"/api/search"}
}

// ServeHTTP runs the pipeline for the posted query. The response is always
// the discriminated envelope with status 200; only a malformed request body
// is a 400. Failures inside the pipeline surface as success:false, never as
// HTTP errors.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "request body must be JSON with a query field"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "query must not be empty"})
		return
	}

	result := h.runner.Run(r.Context(), req.Query, UserID(r.Context()), nil)
	writeJSON(w, http.StatusOK, result.Response())
}

// playlistSummary is the wire form of a stored playlist.
type playlistSummary struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	SearchQuery string        `json:"searchQuery"`
	SourceURL   string        `json:"sourceUrl"`
	SongCount   int           `json:"songCount"`
	Songs       []models.Song `json:"songs,omitempty"`
	CreatedAt   string        `json:"createdAt"`
}

func summarize(p *models.PersistedPlaylist, withSongs bool) playlistSummary {
	summary := playlistSummary{
		ID:          p.ID(),
		Title:       p.Title(),
		SearchQuery: p.SearchQuery(),
		SourceURL:   p.SourceURL(),
		SongCount:   len(p.Songs()),
		CreatedAt:   p.CreatedAt().UTC().Format("2006-01-02T15:04:05Z"),
	}
	if withSongs {
		summary.Songs = p.Songs()
	}
	return summary
}

// PlaylistHandler serves stored playlist reads and deletes. Every route
// requires an identified caller; playlists belong to users.
type PlaylistHandler struct {
	playlists PlaylistReader
	logger    *log.Logger
}

// NewPlaylistHandler creates the handler for the /api/playlists routes.
func NewPlaylistHandler(playlists PlaylistReader, logger *log.Logger) *PlaylistHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistHandler{playlists: playlists, logger: logger}
}

// Routes implements [Handler].
func (h *PlaylistHandler) Routes() []string {
	return []string{"/api/playlists", "/api/playlists/"}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/playlists"), "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.list(w, userID)
	case r.Method == http.MethodGet:
		h.get(w, userID, id)
	case r.Method == http.MethodDelete && id != "":
		h.delete(w, userID, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	}
}

func (h *PlaylistHandler) list(w http.ResponseWriter, userID string) {
	playlists, err := h.playlists.List(map[string]any{"user_id": userID})
	if err != nil {
		h.logger.Error("failed to list playlists", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to list playlists"})
		return
	}

	summaries := make([]playlistSummary, 0, len(playlists))
	for _, p := range playlists {
		summaries = append(summaries, summarize(p, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlists": summaries})
}

func (h *PlaylistHandler) get(w http.ResponseWriter, userID, id string) {
	playlist, err := h.fetchOwned(userID, id)
	if err != nil {
		writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(playlist, true))
}

func (h *PlaylistHandler) delete(w http.ResponseWriter, userID, id string) {
	if _, err := h.fetchOwned(userID, id); err != nil {
		writePlaylistError(w, err)
		return
	}

	if err := h.playlists.Delete(id); err != nil {
		writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// fetchOwned loads a playlist and hides other users' playlists behind the
// same not-found error as missing ones.
func (h *PlaylistHandler) fetchOwned(userID, id string) (*models.PersistedPlaylist, error) {
	playlist, err := h.playlists.Get(id)
	if err != nil {
		return nil, err
	}
	if playlist.UserID() != userID {
		return nil, shared.ErrPlaylistNotFound
	}
	return playlist, nil
}

func writePlaylistError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrPlaylistNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "playlist not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "playlist operation failed"})
}
