package plans

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
	"github.com/julianstephens/focusplan/internal/validation"
)

func noEnv(string) (string, bool) { return "", false }

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.SetSetting(constants.SettingTimezone, "UTC"); err != nil {
		t.Fatal(err)
	}
	return &cli.Context{Store: store, Scheduler: scheduler.New(), Lookup: noEnv}
}

func dueIn(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(constants.DateFormat)
}

func TestPlanCmd(t *testing.T) {
	ctx := setupTestContext(t)
	cmd := &PlanCmd{Title: "Thesis chapter", Difficulty: 3, Priority: 3, Duration: 75, Due: dueIn(10)}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Kind != models.TaskKindFlexible {
		t.Fatalf("stored tasks = %+v", tasks)
	}
	sessions, err := ctx.Store.GetFocusSessions(tasks[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 3 {
		t.Errorf("got %d sessions, want 3", len(sessions))
	}
}

func TestPlanCmd_DryRun(t *testing.T) {
	ctx := setupTestContext(t)
	buffer := 10
	cmd := &PlanCmd{Title: "Reading", Difficulty: 2, Priority: 3, Duration: 50, Due: dueIn(5), DryRun: true, TransitionBuffer: &buffer}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	stats, err := ctx.Store.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Tasks != 0 || stats.FocusSessions != 0 {
		t.Errorf("dry run stored data: %+v", stats)
	}
}

func TestPlanCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cmd     PlanCmd
		wantErr error
	}{
		{"missing title", PlanCmd{Difficulty: 3, Priority: 3, Duration: 30, Due: dueIn(3)}, nil},
		{"missing due", PlanCmd{Title: "x", Difficulty: 3, Priority: 3, Duration: 30}, nil},
		{"bad due", PlanCmd{Title: "x", Difficulty: 3, Priority: 3, Duration: 30, Due: "friday"}, nil},
		{"bad difficulty", PlanCmd{Title: "x", Difficulty: 9, Priority: 3, Duration: 30, Due: dueIn(3)}, validation.ErrInvalid},
		{"unknown category", PlanCmd{Title: "x", Difficulty: 3, Priority: 3, Duration: 30, Due: dueIn(3), Category: "art"}, storage.ErrNotFound},
		{"too much work", PlanCmd{Title: "x", Difficulty: 3, Priority: 3, Duration: 5000, Due: dueIn(1)}, scheduler.ErrInfeasible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestContext(t)
			err := tt.cmd.Run(ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
