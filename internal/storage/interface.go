package storage

import (
	"errors"

	"github.com/julianstephens/focusplan/internal/models"
)

// ErrNotFound is returned when a row with the requested id does not exist.
var ErrNotFound = errors.New("not found")

// Stats summarizes the stored calendar.
type Stats struct {
	Tasks             int `json:"tasks"`
	Appointments      int `json:"appointments"`
	Categories        int `json:"categories"`
	FocusSessions     int `json:"focus_sessions"`
	CompletedSessions int `json:"completed_sessions"`
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings are raw key/value rows; config.Resolve interprets them.
	GetSettings() (map[string]string, error)
	SetSetting(key, value string) error
	SaveSettings(map[string]string) error

	// Categories
	AddCategory(models.Category) error
	GetCategory(id string) (models.Category, error)
	GetAllCategories() ([]models.Category, error)
	DeleteCategory(id string) error

	// Appointments
	AddAppointment(models.Appointment) error
	GetAppointment(id string) (models.Appointment, error)
	GetAllAppointments() ([]models.Appointment, error)
	UpdateAppointment(models.Appointment) error
	DeleteAppointment(id string) error

	// Tasks. Flexible tasks are written by SavePlan; AddTask is for fixed ones.
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	DeleteTask(id string) error

	// Subtasks
	GetSubtasks(taskID string) ([]models.Subtask, error)
	// CompleteSubtask marks the subtask done and returns its task with the
	// recomputed completion percentage.
	CompleteSubtask(id string) (models.Task, error)

	// Focus sessions
	GetAllFocusSessions() ([]models.FocusSession, error)
	GetFocusSessions(taskID string) ([]models.FocusSession, error)
	CompleteFocusSession(id string) error

	// SavePlan stores the task, its sessions and subtasks in one transaction.
	SavePlan(models.PlanResult) error

	GetStats() (Stats, error)

	// Utils
	GetConfigPath() string
}
