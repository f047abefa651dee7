package shared

import (
	"database/sql"
	"testing"
)

func migratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return count > 0
}

func TestRunMigrations(t *testing.T) {
	db := migratedDB(t)

	t.Run("creates the cache and history tables", func(t *testing.T) {
		for _, table := range []string{"cache_batches", "cache_results", "listening_plays"} {
			if !tableExists(t, db, table) {
				t.Errorf("expected table %s to exist", table)
			}
		}
	})

	t.Run("records applied versions", func(t *testing.T) {
		var applied int
		if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if applied < 2 {
			t.Errorf("expected at least 2 applied migrations, got %d", applied)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run failed: %v", err)
		}
	})

	t.Run("enforces the batch result position constraint", func(t *testing.T) {
		if _, err := db.Exec(
			`INSERT INTO cache_batches (id, owner_id, domain, range_key, item_limit, fetched_at)
			 VALUES ('b1', 'me', 'top-tracks', 'short_term', 20, CURRENT_TIMESTAMP)`); err != nil {
			t.Fatalf("failed to insert batch: %v", err)
		}

		insert := `INSERT INTO cache_results (batch_id, position, item_id, name) VALUES ('b1', 1, 't1', 'One')`
		if _, err := db.Exec(insert); err != nil {
			t.Fatalf("failed to insert result: %v", err)
		}
		if _, err := db.Exec(insert); err == nil {
			t.Error("expected a duplicate position to be rejected")
		}
	})

	t.Run("enforces the play identity constraint", func(t *testing.T) {
		insert := `INSERT INTO listening_plays (owner_id, track_id, played_at, duration_ms)
		           VALUES ('me', 't1', '2025-05-20 21:00:00', 180000)`
		if _, err := db.Exec(insert); err != nil {
			t.Fatalf("failed to insert play: %v", err)
		}
		if _, err := db.Exec(insert); err == nil {
			t.Error("expected a duplicate play to be rejected")
		}
	})
}

func TestRollbackMigration(t *testing.T) {
	db := migratedDB(t)

	if err := RollbackMigration(db); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	if tableExists(t, db, "listening_plays") {
		t.Error("expected the newest migration's table to be dropped")
	}
	if !tableExists(t, db, "cache_batches") {
		t.Error("expected earlier migrations to survive")
	}
}
