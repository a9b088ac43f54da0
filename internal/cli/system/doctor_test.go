package system

import (
	"testing"
	"time"

	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _ := setupTestContext(t)
	mustNil(t, ctx.Store.Init())

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_CalendarConflict(t *testing.T) {
	ctx, _ := setupTestContext(t)
	mustNil(t, ctx.Store.Init())

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	mustNil(t, ctx.Store.AddAppointment(models.Appointment{ID: "a1", Title: "Lecture", Start: start, End: start.Add(time.Hour)}))
	mustNil(t, ctx.Store.AddAppointment(models.Appointment{ID: "a2", Title: "Lab", Start: start.Add(30 * time.Minute), End: start.Add(2 * time.Hour)}))

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on overlapping appointments")
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, _ := setupTestContext(t)
	mustNil(t, ctx.Store.Init())

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("failed to corrupt schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail on a schema from a newer build")
	}
}

func TestDoctorCmd_Unreachable(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail before init")
	}
}
