package models

import "time"

type TaskKind string

const (
	// TaskKindFlexible tasks are placed by the scheduler as focus sessions.
	TaskKindFlexible TaskKind = "flexible"
	// TaskKindFixed tasks occupy a fixed time range and block the calendar.
	TaskKindFixed TaskKind = "fixed"
)

type Task struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Kind              TaskKind   `json:"kind"`
	DueDate           string     `json:"due_date"` // YYYY-MM-DD format
	StartDate         string     `json:"start_date,omitempty"`
	StartTime         string     `json:"start_time,omitempty"` // HH:MM format
	EndDate           string     `json:"end_date,omitempty"`
	EndTime           string     `json:"end_time,omitempty"` // HH:MM format
	FixedStart        *time.Time `json:"fixed_start,omitempty"`
	FixedEnd          *time.Time `json:"fixed_end,omitempty"`
	CategoryID        string     `json:"category_id,omitempty"`
	Difficulty        int        `json:"estimated_difficulty"`
	DurationMin       int        `json:"estimated_duration_minutes"`
	Priority          int        `json:"priority"`
	WorkedOn          bool       `json:"worked_on"`
	Paused            bool       `json:"paused"`
	CompletionPercent int        `json:"completion_percentage"`
	CreatedAt         time.Time  `json:"created_at"`
}

// IsFixed reports whether the task blocks a fixed range on the calendar.
func (t Task) IsFixed() bool {
	return t.Kind == TaskKindFixed && t.FixedStart != nil && t.FixedEnd != nil
}

type Subtask struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type FocusSession struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Completed bool      `json:"completed"`
}

// Minutes returns the session length in whole minutes.
func (s FocusSession) Minutes() int {
	return int(s.End.Sub(s.Start).Minutes())
}
