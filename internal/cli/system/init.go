package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized focusplan storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	src, err := cli.NewStore(c.Source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	n, err := CopyStore(src, ctx.Store)
	if err != nil {
		return err
	}
	fmt.Printf("  Copied %d categories, %d appointments, %d tasks\n", n.Categories, n.Appointments, n.Tasks)
	return nil
}

// CopyStore copies settings, categories, appointments and tasks with their
// sessions and subtasks from src into dst.
func CopyStore(src, dst storage.Provider) (storage.Stats, error) {
	var n storage.Stats

	settings, err := src.GetSettings()
	if err != nil {
		return n, fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return n, fmt.Errorf("failed to save settings to destination: %w", err)
	}

	categories, err := src.GetAllCategories()
	if err != nil {
		return n, fmt.Errorf("failed to get categories from source: %w", err)
	}
	for _, cat := range categories {
		if err := dst.AddCategory(cat); err != nil {
			return n, fmt.Errorf("failed to add category %s: %w", cat.ID, err)
		}
		n.Categories++
	}

	appts, err := src.GetAllAppointments()
	if err != nil {
		return n, fmt.Errorf("failed to get appointments from source: %w", err)
	}
	for _, a := range appts {
		if err := dst.AddAppointment(a); err != nil {
			return n, fmt.Errorf("failed to add appointment %s: %w", a.ID, err)
		}
		n.Appointments++
	}

	tasks, err := src.GetAllTasks()
	if err != nil {
		return n, fmt.Errorf("failed to get tasks from source: %w", err)
	}
	for _, task := range tasks {
		if task.Kind == models.TaskKindFixed {
			if err := dst.AddTask(task); err != nil {
				return n, fmt.Errorf("failed to add task %s: %w", task.ID, err)
			}
			n.Tasks++
			continue
		}
		sessions, err := src.GetFocusSessions(task.ID)
		if err != nil {
			return n, fmt.Errorf("failed to get sessions of task %s: %w", task.ID, err)
		}
		subtasks, err := src.GetSubtasks(task.ID)
		if err != nil {
			return n, fmt.Errorf("failed to get subtasks of task %s: %w", task.ID, err)
		}
		plan := models.PlanResult{Task: task, Sessions: sessions, Subtasks: subtasks}
		if err := dst.SavePlan(plan); err != nil {
			return n, fmt.Errorf("failed to save task %s: %w", task.ID, err)
		}
		n.Tasks++
		n.FocusSessions += len(sessions)
	}
	return n, nil
}
