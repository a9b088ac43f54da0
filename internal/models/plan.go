package models

import "time"

// WorkItem is the unit of work handed to the scheduler.
type WorkItem struct {
	Title       string
	Description string
	Difficulty  int
	Priority    int
	DurationMin int
	DueDate     time.Time // date component only
	CategoryID  string
}

// PlanResult is the output of one scheduling call.
type PlanResult struct {
	Task             Task           `json:"task"`
	Sessions         []FocusSession `json:"focus_sessions"`
	Subtasks         []Subtask      `json:"subtasks"`
	DeepWork         bool           `json:"deep_work"`
	SessionLengthMin int            `json:"session_length_minutes"`
	ImportanceWeight float64        `json:"importance_weight"`
}

// Intervals returns the session ranges in order.
func (p PlanResult) Intervals() []Interval {
	out := make([]Interval, len(p.Sessions))
	for i, s := range p.Sessions {
		out[i] = Interval{Start: s.Start, End: s.End}
	}
	return out
}
