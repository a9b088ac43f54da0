package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusplan/internal/backup"
	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
	"github.com/julianstephens/focusplan/internal/validation"
)

type schemaValidator interface {
	ValidateSchema() error
}

type check struct {
	name string
	// warn marks checks whose failure does not fail the command.
	warn bool
	// needsDB skips the check when the database is unreachable.
	needsDB bool
	// gate marks the reachability check the others depend on.
	gate bool
	run  func(*cli.Context) error
}

var checks = []check{
	{name: "Database reachable", gate: true, run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Configuration", needsDB: true, run: checkConfig},
	{name: "Calendar conflicts", needsDB: true, run: checkCalendar},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed := 0
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			failed++
			if c.gate {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	_, err := ctx.Store.GetStats()
	return err
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(schemaValidator)
	if !ok {
		return nil
	}
	return v.ValidateSchema()
}

func checkConfig(ctx *cli.Context) error {
	_, err := ctx.Config()
	return err
}

func checkCalendar(ctx *cli.Context) error {
	appts, err := ctx.Store.GetAllAppointments()
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return err
	}
	vr := validation.ValidateCalendar(appts, tasks)
	if vr.HasConflicts() {
		return errors.New(vr.FormatReport())
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
