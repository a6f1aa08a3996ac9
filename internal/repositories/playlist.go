package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/shared"
)

// DefaultListLimit bounds playlist listings when no explicit limit is given.
const DefaultListLimit = 50

// PlaylistRepository implements models.Repository[*models.PersistedPlaylist]
// for generated playlists and their songs. It also satisfies the pipeline's
// store contract via [PlaylistRepository.Save].
//
// Songs live in a playlist_songs junction table keyed by position so
// extraction order survives round trips.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Save persists a pipeline draft for the given user and returns the new
// playlist id.
func (r *PlaylistRepository) Save(ctx context.Context, userID string, draft models.Draft) (string, error) {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return "", fmt.Errorf("failed to generate sequence: %w", err)
	}

	playlist := models.NewPersistedPlaylist(sequence, userID, draft)
	playlist.SetID(shared.GenerateID())

	if err := playlist.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO playlists (id, sequence, user_id, title, search_query, source_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		playlist.ID(),
		playlist.Sequence(),
		playlist.UserID(),
		playlist.Title(),
		playlist.SearchQuery(),
		playlist.SourceURL(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert playlist: %w", err)
	}

	for position, song := range playlist.Songs() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO playlist_songs (playlist_id, position, artist, title) VALUES (?, ?, ?, ?)
		`, playlist.ID(), position, song.Artist, song.Title)
		if err != nil {
			return "", fmt.Errorf("failed to insert song %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit playlist: %w", err)
	}

	return playlist.ID(), nil
}

// Create inserts a playlist entity with a generated id and sequence.
func (r *PlaylistRepository) Create(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id, err := r.Save(context.Background(), playlist.UserID(), playlist.Draft())
	if err != nil {
		return err
	}
	playlist.SetID(id)
	return nil
}

// Get retrieves a playlist with its songs by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := `
		SELECT id, sequence, user_id, title, search_query, source_url, created_at, updated_at, deleted_at
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	playlist, err := scanPlaylist(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	songs, err := r.songsFor(id)
	if err != nil {
		return nil, err
	}
	playlist.SetSongs(songs)

	return playlist, nil
}

// Update modifies an existing playlist's title in the database
func (r *PlaylistRepository) Update(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	result, err := r.db.Exec(`
		UPDATE playlists
		SET title = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, playlist.Title(), now, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// List retrieves playlists matching the given criteria, newest first,
// excluding soft-deleted playlists. Songs are loaded per playlist.
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := `
		SELECT id, sequence, user_id, title, search_query, source_url, created_at, updated_at, deleted_at
		FROM playlists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	limit := DefaultListLimit
	if l, ok := criteria["limit"].(int); ok && l > 0 {
		limit = l
	}

	query += " ORDER BY created_at DESC, sequence DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, playlist := range playlists {
		songs, err := r.songsFor(playlist.ID())
		if err != nil {
			return nil, err
		}
		playlist.SetSongs(songs)
	}

	return playlists, nil
}

// songsFor loads a playlist's songs in stored position order.
func (r *PlaylistRepository) songsFor(playlistID string) ([]models.Song, error) {
	rows, err := r.db.Query(`
		SELECT artist, title FROM playlist_songs WHERE playlist_id = ? ORDER BY position ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.Artist, &song.Title); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// rowScanner covers both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlaylist scans one playlist row without its songs.
func scanPlaylist(row rowScanner) (*models.PersistedPlaylist, error) {
	var (
		id          string
		sequence    int
		userID      string
		title       string
		searchQuery string
		sourceURL   string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &title, &searchQuery, &sourceURL, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	draft := models.Draft{
		Title:       title,
		SourceURL:   sourceURL,
		SearchQuery: searchQuery,
	}

	playlist := models.NewPersistedPlaylist(sequence, userID, draft)
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
