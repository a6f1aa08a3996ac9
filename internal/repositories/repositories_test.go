package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/shared"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	user := models.NewUser(0, "listener@example.com", "Listener", "tok_"+shared.GenerateID())
	if err := NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func testDraft() models.Draft {
	return models.Draft{
		Title: "Golden Hour Grooves",
		Songs: []models.Song{
			{Artist: "Khruangbin", Title: "Maria Tambien"},
			{Artist: "Men I Trust", Title: "Show Me How"},
			{Artist: shared.UnknownArtist, Title: "Instrumental Interlude"},
		},
		SourceURL:   "https://blog.example.com/songs",
		SearchQuery: "chill study songs",
	}
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Save persists the draft and returns an id", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db)
		repo := NewPlaylistRepository(db)

		id, err := repo.Save(context.Background(), user.ID(), testDraft())
		if err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if id == "" {
			t.Fatal("expected a playlist id")
		}

		got, err := repo.Get(id)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.Title() != "Golden Hour Grooves" {
			t.Errorf("unexpected title: %s", got.Title())
		}
		if got.UserID() != user.ID() {
			t.Errorf("unexpected owner: %s", got.UserID())
		}
		if got.SearchQuery() != "chill study songs" {
			t.Errorf("unexpected search query: %s", got.SearchQuery())
		}
	})

	t.Run("songs round-trip in extraction order", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db)
		repo := NewPlaylistRepository(db)

		draft := testDraft()
		id, err := repo.Save(context.Background(), user.ID(), draft)
		if err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		got, err := repo.Get(id)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		songs := got.Songs()
		if len(songs) != len(draft.Songs) {
			t.Fatalf("expected %d songs, got %d", len(draft.Songs), len(songs))
		}
		for i, want := range draft.Songs {
			if songs[i] != want {
				t.Errorf("songs[%d] = %+v, want %+v", i, songs[i], want)
			}
		}
	})

	t.Run("Save rejects a blank title", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db)
		repo := NewPlaylistRepository(db)

		draft := testDraft()
		draft.Title = "  "
		if _, err := repo.Save(context.Background(), user.ID(), draft); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("zero songs is a valid thin playlist", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db)
		repo := NewPlaylistRepository(db)

		draft := testDraft()
		draft.Songs = nil
		id, err := repo.Save(context.Background(), user.ID(), draft)
		if err != nil {
			t.Fatalf("expected thin save to succeed, got %v", err)
		}

		got, err := repo.Get(id)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if len(got.Songs()) != 0 {
			t.Errorf("expected no songs, got %d", len(got.Songs()))
		}
	})

	t.Run("List returns newest first with a bounded limit", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db)
		repo := NewPlaylistRepository(db)

		for i := 0; i < 3; i++ {
			draft := testDraft()
			if _, err := repo.Save(context.Background(), user.ID(), draft); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
		}

		playlists, err := repo.List(map[string]any{"user_id": user.ID()})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(playlists) != 3 {
			t.Fatalf("expected 3 playlists, got %d", len(playlists))
		}
		if playlists[0].Sequence() < playlists[2].Sequence() {
			t.Error("expected newest playlist first")
		}

		limited, err := repo.List(map[string]any{"user_id": user.ID(), "limit": 2})
		if err != nil {
			t.Fatalf("failed to list with limit: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 playlists with limit, got %d", len(limited))
		}
	})

	t.Run("Delete soft-deletes and hides the playlist", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db)
		repo := NewPlaylistRepository(db)

		id, err := repo.Save(context.Background(), user.ID(), testDraft())
		if err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		if err := repo.Delete(id); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get(id); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected not-found after delete, got %v", err)
		}
		if err := repo.Delete(id); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected not-found on second delete, got %v", err)
		}
	})

	t.Run("Get for a missing id is not found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected not-found, got %v", err)
		}
	})
}

func TestUserRepository(t *testing.T) {
	t.Run("Create assigns id and sequence", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := models.NewUser(0, "a@example.com", "A", "tok_a")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if user.ID() == "" || user.Sequence() == 0 {
			t.Errorf("expected generated id and sequence, got %q/%d", user.ID(), user.Sequence())
		}
	})

	t.Run("GetByToken resolves identity", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := models.NewUser(0, "a@example.com", "A", "tok_a")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create: %v", err)
		}

		got, err := repo.GetByToken("tok_a")
		if err != nil {
			t.Fatalf("failed to get by token: %v", err)
		}
		if got.ID() != user.ID() {
			t.Errorf("unexpected user: %s", got.ID())
		}

		if _, err := repo.GetByToken("tok_unknown"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected not-found for unknown token, got %v", err)
		}
		if _, err := repo.GetByToken(""); !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected not-found for empty token, got %v", err)
		}
	})

	t.Run("Create rejects invalid emails", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := models.NewUser(0, "not-an-email", "A", "tok_a")
		if err := repo.Create(user); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("deleted users are hidden from lookups", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := models.NewUser(0, "a@example.com", "A", "tok_a")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		if _, err := repo.Get(user.ID()); !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected not-found, got %v", err)
		}
		if _, err := repo.GetByToken("tok_a"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Fatalf("expected not-found by token, got %v", err)
		}
	})
}
