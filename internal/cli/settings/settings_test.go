package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
	"github.com/julianstephens/focusplan/internal/validation"
)

func noEnv(string) (string, bool) { return "", false }

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return &cli.Context{Store: store, Scheduler: scheduler.New(), Lookup: noEnv}
}

func TestConfigShowCmd(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&ConfigShowCmd{}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
	if err := (&ConfigShowCmd{Key: constants.SettingSessionLengthMinutes}).Run(ctx); err != nil {
		t.Errorf("show key failed: %v", err)
	}
	err := (&ConfigShowCmd{Key: "bogus"}).Run(ctx)
	if !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestConfigSetCmd(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"session length", constants.SettingSessionLengthMinutes, "30", false},
		{"upper-case key", "SHORT_BREAK_MINUTES", "10", false},
		{"work days", constants.SettingWorkDays, "mon,tue,wed", false},
		{"unknown key", "colour", "blue", true},
		{"malformed int", constants.SettingWorkStartHour, "nine", true},
		{"bad timezone", constants.SettingTimezone, "Nowhere/City", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			err := (&ConfigSetCmd{Key: tt.key, Value: tt.value}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			stored, err := ctx.Store.GetSettings()
			if err != nil {
				t.Fatalf("GetSettings: %v", err)
			}
			want := config.ToMap(config.Default())[tt.key]
			if tt.wantErr && stored[tt.key] != want {
				t.Errorf("stored %s = %q after rejected set, want default %q", tt.key, stored[tt.key], want)
			}
		})
	}
}

func TestConfigSetCmd_StoresLowerCaseKey(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&ConfigSetCmd{Key: "SHORT_BREAK_MINUTES", Value: "10"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	cfg, err := ctx.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.ShortBreakMin != 10 {
		t.Errorf("short break = %d, want 10", cfg.ShortBreakMin)
	}
}

func TestConfigExportImport(t *testing.T) {
	src := setupTestDB(t)
	if err := src.Store.SetSetting(constants.SettingSessionLengthMinutes, "40"); err != nil {
		t.Fatal(err)
	}
	if err := src.Store.SetSetting(constants.SettingTimezone, "Europe/Berlin"); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "settings.yaml")
	if err := (&ConfigExportCmd{Output: out}).Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := (&ConfigImportCmd{File: out}).Run(dst); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	cfg, err := dst.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.SessionLengthMin != 40 {
		t.Errorf("session length = %d, want 40", cfg.SessionLengthMin)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("timezone = %q, want Europe/Berlin", cfg.Timezone)
	}
}

func TestConfigImportRejectsInvalidCombination(t *testing.T) {
	ctx := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "work_start_hour: 17\nwork_end_hour: 9\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	err := (&ConfigImportCmd{File: path}).Run(ctx)
	if !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	stored, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	defaults := config.ToMap(config.Default())
	for _, key := range []string{constants.SettingWorkStartHour, constants.SettingWorkEndHour} {
		if stored[key] != defaults[key] {
			t.Errorf("stored %s = %q after rejected import, want default %q", key, stored[key], defaults[key])
		}
	}
}

func TestConfigImportRejectsUnknownKey(t *testing.T) {
	ctx := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "unknown.yaml")
	if err := os.WriteFile(path, []byte("colour: blue\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := (&ConfigImportCmd{File: path}).Run(ctx)
	if !errors.Is(err, config.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}
