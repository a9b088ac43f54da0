package migration

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// setupPostgresTestDB opens the database named by POSTGRES_TEST_URL.
// Example: POSTGRES_TEST_URL="postgres://user@localhost:5432/testdb?sslmode=disable"
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Exec("DROP TABLE IF EXISTS test_categories")
		db.Exec("DROP TABLE IF EXISTS test_sessions")
		db.Close()
	})
	return db
}

func TestPostgresApplyMigrations(t *testing.T) {
	db := setupPostgresTestDB(t)

	files := map[string]string{
		"001_init.sql": "CREATE TABLE test_categories (id TEXT PRIMARY KEY);",
	}
	if _, err := NewRunner(db, migrationFS(files), Dollar).ApplyMigrations(); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	files["002_sessions.sql"] = "CREATE TABLE test_sessions (id TEXT PRIMARY KEY, completed BOOLEAN NOT NULL DEFAULT FALSE);"
	runner := NewRunner(db, migrationFS(files), Dollar)
	applied, err := runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("incremental ApplyMigrations failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if version, err := runner.GetCurrentVersion(); err != nil || version != 2 {
		t.Errorf("version = %d (%v), want 2", version, err)
	}
}

func TestPostgresMigrationRollbackOnError(t *testing.T) {
	db := setupPostgresTestDB(t)

	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql":   "CREATE TABLE test_categories (id TEXT PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE test_sessions (id TEXT PRIMARY KEY); NOT VALID SQL;",
	}), Dollar)

	if _, err := runner.ApplyMigrations(); err == nil {
		t.Fatal("expected an error from the broken migration")
	}
	if version, _ := runner.GetCurrentVersion(); version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}
