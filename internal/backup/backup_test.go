package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/focusplan/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "focusplan.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		"CREATE TABLE categories (id TEXT PRIMARY KEY, name TEXT)",
		"INSERT INTO categories (id, name) VALUES ('c1', 'Math'), ('c2', 'Art')",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&n); err != nil {
		t.Fatalf("failed to query %s: %v", path, err)
	}
	return n
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to %s", backupPath)
	}
	name := filepath.Base(backupPath)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		t.Errorf("unexpected backup name %s", name)
	}
	if n := countRows(t, backupPath); n != 2 {
		t.Errorf("backup has %d rows, want 2", n)
	}
}

func TestCreateBackupWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error when backing up a missing database")
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	stamp := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return stamp }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("got %d backups, want 3", len(backups))
	}
	if !strings.HasSuffix(backups[0].Path, "-2"+constants.BackupFileSuffix) {
		t.Errorf("newest backup = %s, want the -2 counter", backups[0].Path)
	}
}

func TestBackupRotation(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	mgr.now = fixedClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local))

	var last string
	for i := 0; i < constants.MaxBackups+3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		last = path
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"notes.txt",
		constants.BackupFilePrefix + "garbage" + constants.BackupFileSuffix,
		constants.BackupFilePrefix + "20250310-0900" + constants.BackupFileSuffix,
		constants.BackupFilePrefix + "20250310-090000-x" + constants.BackupFileSuffix,
	} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), nil, 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups, want 0: %+v", len(backups), backups)
	}
}

func TestParseName(t *testing.T) {
	stamp := time.Date(2025, 3, 10, 9, 30, 15, 0, time.Local)
	tests := []struct {
		name    string
		ok      bool
		wantSeq int
	}{
		{constants.BackupFilePrefix + "20250310-093015" + constants.BackupFileSuffix, true, 0},
		{constants.BackupFilePrefix + "20250310-093015-4" + constants.BackupFileSuffix, true, 4},
		{constants.BackupFilePrefix + "20250310-093015-0" + constants.BackupFileSuffix, false, 0},
		{constants.BackupFilePrefix + "20250310-093015" + ".sqlite", false, 0},
		{"other-20250310-093015" + constants.BackupFileSuffix, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, seq, ok := parseName(tt.name)
			if ok != tt.ok {
				t.Fatalf("parseName ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if !got.Equal(stamp) || seq != tt.wantSeq {
				t.Errorf("parseName = %v, %d; want %v, %d", got, seq, stamp, tt.wantSeq)
			}
		})
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("DELETE FROM categories"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if n := countRows(t, dbPath); n != 2 {
		t.Errorf("restored database has %d rows, want 2", n)
	}
	if previous == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if n := countRows(t, previous); n != 0 {
		t.Errorf("pre-restore backup has %d rows, want 0", n)
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	corrupted := filepath.Join(mgr.GetBackupDir(), "corrupted.db")
	if err := os.WriteFile(corrupted, []byte("not a valid sqlite database"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.RestoreBackup(corrupted); err == nil {
		t.Error("expected error when restoring from a corrupted backup")
	}
	if _, err := mgr.RestoreBackup(filepath.Join(mgr.GetBackupDir(), "missing.db")); err == nil {
		t.Error("expected error when restoring from a missing backup")
	}
}
