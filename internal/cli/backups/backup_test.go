package backups

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/focusplan/internal/backup"
	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/storage/postgres"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
)

func noEnv(string) (string, bool) { return "", false }

func setupTestContext(t *testing.T) (*cli.Context, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return &cli.Context{Store: store, Scheduler: scheduler.New(), Lookup: noEnv}, store
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, store := setupTestContext(t)
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("empty list failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	backups, err := backup.NewManager(store.GetConfigPath()).ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backups, want 1", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, store := setupTestContext(t)
	if err := store.SetSetting(constants.SettingSessionLengthMinutes, "30"); err != nil {
		t.Fatal(err)
	}
	mgr := backup.NewManager(store.GetConfigPath())
	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetSetting(constants.SettingSessionLengthMinutes, "45"); err != nil {
		t.Fatal(err)
	}

	// Declining leaves the database alone.
	cancel := &BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("n\n")}
	if err := cancel.Run(ctx); err != nil {
		t.Fatalf("cancelled restore failed: %v", err)
	}
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings[constants.SettingSessionLengthMinutes] != "45" {
		t.Fatalf("cancelled restore changed data: %v", settings)
	}

	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("yes\n")}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	reopened := sqlite.NewStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	settings, err = reopened.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings[constants.SettingSessionLengthMinutes] != "30" {
		t.Errorf("session length = %q after restore, want 30", settings[constants.SettingSessionLengthMinutes])
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBackupsRequireSQLite(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://localhost/focusplan")}
	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("expected errNotSQLite, got %v", err)
	}
}
