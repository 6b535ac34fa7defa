package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	for _, table := range []string{"poll_operations", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestCheckStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	err := CheckStatus(db)
	if err == nil {
		t.Error("CheckStatus() expected error for fresh database, got nil")
	}
}

func TestCheckStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if err := CheckStatus(db); err != nil {
		t.Errorf("CheckStatus() after migration returned error: %v", err)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("second MigrateUp() failed: %v (should be idempotent)", err)
	}
}

func TestSchema_PollOperations(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	res, err := db.Exec(`
		INSERT INTO poll_operations (resource_id, operation, status, started_at)
		VALUES ('resource-1', 'Poll', 'running', datetime('now'))
	`)
	if err != nil {
		t.Fatalf("Failed to insert poll operation: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId() failed: %v", err)
	}
	if id != 1 {
		t.Errorf("first operation id = %d, want 1", id)
	}

	var status string
	if err := db.QueryRow("SELECT status FROM poll_operations WHERE id = ?", id).Scan(&status); err != nil {
		t.Fatalf("Failed to retrieve poll operation: %v", err)
	}
	if status != "running" {
		t.Errorf("status = %q, want %q", status, "running")
	}
}

// openTestDB opens an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db
}
