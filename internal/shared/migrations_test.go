package shared

import "testing"

func TestMigrations(t *testing.T) {
	t.Run("loadMigrations returns paired migrations in order", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}
		for i, m := range migrations {
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration %d has missing up/down SQL", m.Version)
			}
			if i > 0 && migrations[i-1].Version >= m.Version {
				t.Errorf("migrations out of order at index %d", i)
			}
		}
	})

	t.Run("RunMigrations is idempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if count == 0 {
			t.Error("expected applied migrations to be recorded")
		}
	})

	t.Run("RollbackMigration undoes the latest migration", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("migration failed: %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("rollback failed: %v", err)
		}

		var exists bool
		err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type='table' AND name='playlists')").Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check table: %v", err)
		}
		if exists {
			t.Error("expected playlists table to be dropped after rollback")
		}
	})
}
