package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/focusplan/internal/backup"
	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/planner"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
	"github.com/julianstephens/focusplan/internal/validation"
)

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	// Lookup reads environment overrides. Nil means os.LookupEnv.
	Lookup config.LookupFunc
}

func (c *Context) lookup() config.LookupFunc {
	if c.Lookup == nil {
		return os.LookupEnv
	}
	return c.Lookup
}

// Planner returns a planner that takes an automatic backup before every save.
func (c *Context) Planner() *planner.Service {
	return planner.New(c.Store, c.Scheduler,
		planner.WithLookup(c.lookup()),
		planner.WithBeforeSave(func() error {
			c.PerformAutomaticBackup()
			return nil
		}),
	)
}

// Config resolves the effective configuration without per-call overrides.
func (c *Context) Config() (config.Config, error) {
	return c.Planner().Config(nil)
}

// Location is the configured timezone used to read and print times.
func (c *Context) Location() (*time.Location, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	return cfg.Location()
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// WarnConflicts prints overlapping appointments and fixed tasks. It never
// fails the command.
func (c *Context) WarnConflicts() {
	appts, err := c.Store.GetAllAppointments()
	if err != nil {
		logger.Warn("conflict check skipped", "error", err)
		return
	}
	tasks, err := c.Store.GetAllTasks()
	if err != nil {
		logger.Warn("conflict check skipped", "error", err)
		return
	}
	vr := validation.ValidateCalendar(appts, tasks)
	if !vr.HasConflicts() {
		return
	}
	fmt.Println()
	for _, conflict := range vr.Conflicts {
		fmt.Printf("⚠ %s\n", conflict.Description)
	}
}

// ResolveCategory finds a category by ID or, case-insensitively, by name.
func (c *Context) ResolveCategory(ref string) (models.Category, error) {
	if ref == "" {
		return models.Category{}, nil
	}
	if cat, err := c.Store.GetCategory(ref); err == nil {
		return cat, nil
	}
	cats, err := c.Store.GetAllCategories()
	if err != nil {
		return models.Category{}, err
	}
	for _, cat := range cats {
		if strings.EqualFold(cat.Name, ref) {
			return cat, nil
		}
	}
	return models.Category{}, fmt.Errorf("category %q: %w", ref, storage.ErrNotFound)
}
