package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/cli/backups"
	"github.com/julianstephens/focusplan/internal/cli/calendar"
	"github.com/julianstephens/focusplan/internal/cli/plans"
	"github.com/julianstephens/focusplan/internal/cli/settings"
	"github.com/julianstephens/focusplan/internal/cli/system"
	"github.com/julianstephens/focusplan/internal/cli/tasks"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/errors"
	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL passwords must NOT be embedded here; use the keyring or FOCUSPLAN_DB_CONNECTION." type:"string"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize focusplan storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Agenda  system.AgendaCmd  `cmd:"" help:"Browse upcoming sessions and tasks." default:"1"`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the HTTP API."`
	Plan    plans.PlanCmd     `cmd:"" help:"Plan focus sessions for a task."`

	Task struct {
		AddFixed tasks.TaskAddCmd    `cmd:"" name:"add-fixed" help:"Add a fixed task that blocks a time range."`
		List     tasks.TaskListCmd   `cmd:"" help:"List tasks."`
		Show     tasks.TaskShowCmd   `cmd:"" help:"Show a task with its sessions and subtasks."`
		Delete   tasks.TaskDeleteCmd `cmd:"" help:"Delete a task and its sessions."`
	} `cmd:"" help:"Manage tasks."`
	Session struct {
		Done tasks.SessionDoneCmd `cmd:"" help:"Mark a focus session completed."`
	} `cmd:"" help:"Manage focus sessions."`
	Subtask struct {
		Done tasks.SubtaskDoneCmd `cmd:"" help:"Mark a subtask completed."`
	} `cmd:"" help:"Manage subtasks."`
	Appointment struct {
		Add    calendar.AppointmentAddCmd    `cmd:"" help:"Add an appointment."`
		List   calendar.AppointmentListCmd   `cmd:"" help:"List appointments."`
		Edit   calendar.AppointmentEditCmd   `cmd:"" help:"Edit an appointment."`
		Delete calendar.AppointmentDeleteCmd `cmd:"" help:"Delete an appointment."`
	} `cmd:"" help:"Manage appointments."`
	Category struct {
		Add    calendar.CategoryAddCmd    `cmd:"" help:"Add a category."`
		List   calendar.CategoryListCmd   `cmd:"" help:"List categories."`
		Delete calendar.CategoryDeleteCmd `cmd:"" help:"Delete a category."`
	} `cmd:"" help:"Manage categories."`
	Settings struct {
		Show   settings.ConfigShowCmd   `cmd:"" help:"Show effective settings." default:"1"`
		Set    settings.ConfigSetCmd    `cmd:"" help:"Store a setting."`
		Export settings.ConfigExportCmd `cmd:"" help:"Export settings as YAML."`
		Import settings.ConfigImportCmd `cmd:"" help:"Import settings from YAML."`
	} `cmd:"" name:"config" help:"Manage scheduling settings."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// noLoad lists commands that open the store themselves or never need it.
var noLoad = map[string]bool{"init": true, "migrate": true, "doctor": true, "keyring": true}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Automatic focus-session scheduler"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir := filepath.Dir(constants.DefaultConfigPath)
	if dir, err := utils.ExpandPath(configDir); err == nil {
		configDir = dir
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Stderr:    strings.HasPrefix(ctx.Command(), "serve"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store, err := cli.ResolveStore(CLI.Config, os.LookupEnv)
	if err != nil {
		errors.Fatal(err)
	}
	appCtx := &cli.Context{
		Store:     store,
		Scheduler: scheduler.New(),
	}

	command := strings.Fields(ctx.Command())[0]
	if !noLoad[command] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	errors.Fatal(ctx.Run(appCtx))
}
