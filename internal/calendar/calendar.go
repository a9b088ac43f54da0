// Package calendar flattens stored appointments, focus sessions and fixed
// tasks into the busy intervals and per-day aggregates the scheduler reads.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
)

// Source is the read side of the store.
type Source interface {
	GetAllAppointments() ([]models.Appointment, error)
	GetAllFocusSessions() ([]models.FocusSession, error)
	GetAllTasks() ([]models.Task, error)
}

type EventKind string

const (
	EventAppointment EventKind = "appointment"
	EventSession     EventKind = "session"
	EventFixedTask   EventKind = "fixed_task"
)

// Event is one committed interval on the calendar.
type Event struct {
	Kind       EventKind
	Interval   models.Interval
	CategoryID string
	Difficulty int
	Completed  bool
}

// Snapshot is an immutable view of the calendar at collection time.
type Snapshot struct {
	loc    *time.Location
	events []Event
}

// Collect reads every event source once and returns them sorted by start.
func Collect(src Source, loc *time.Location) (*Snapshot, error) {
	if loc == nil {
		loc = time.Local
	}

	tasks, err := src.GetAllTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	appts, err := src.GetAllAppointments()
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	sessions, err := src.GetAllFocusSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to load focus sessions: %w", err)
	}

	byID := make(map[string]models.Task, len(tasks))
	var events []Event
	for _, t := range tasks {
		byID[t.ID] = t
		if t.IsFixed() && t.FixedStart.Before(*t.FixedEnd) {
			events = append(events, Event{
				Kind:       EventFixedTask,
				Interval:   models.Interval{Start: *t.FixedStart, End: *t.FixedEnd},
				CategoryID: t.CategoryID,
				Difficulty: t.Difficulty,
			})
		}
	}
	for _, a := range appts {
		if !a.Start.Before(a.End) {
			continue
		}
		events = append(events, Event{
			Kind:       EventAppointment,
			Interval:   models.Interval{Start: a.Start, End: a.End},
			CategoryID: a.CategoryID,
		})
	}
	for _, s := range sessions {
		if !s.Start.Before(s.End) {
			continue
		}
		t := byID[s.TaskID]
		events = append(events, Event{
			Kind:       EventSession,
			Interval:   models.Interval{Start: s.Start, End: s.End},
			CategoryID: t.CategoryID,
			Difficulty: t.Difficulty,
			Completed:  s.Completed,
		})
	}

	return NewSnapshot(events, loc), nil
}

// NewSnapshot builds a snapshot from already-flattened events.
func NewSnapshot(events []Event, loc *time.Location) *Snapshot {
	if loc == nil {
		loc = time.Local
	}
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Interval.Start.Before(sorted[j].Interval.Start)
	})
	return &Snapshot{loc: loc, events: sorted}
}

// Location returns the zone used to group events into days.
func (s *Snapshot) Location() *time.Location {
	return s.loc
}

// Events returns a copy of the sorted events.
func (s *Snapshot) Events() []Event {
	return append([]Event(nil), s.events...)
}

// BusyIntervals returns every committed interval, sorted by start.
func (s *Snapshot) BusyIntervals() []models.Interval {
	out := make([]models.Interval, len(s.events))
	for i, e := range s.events {
		out[i] = e.Interval
	}
	return out
}

func (s *Snapshot) dayKey(t time.Time) string {
	return t.In(s.loc).Format(constants.DateFormat)
}

// SessionCount returns the number of focus sessions starting on day.
func (s *Snapshot) SessionCount(day time.Time) int {
	key := s.dayKey(day)
	n := 0
	for _, e := range s.events {
		if e.Kind == EventSession && s.dayKey(e.Interval.Start) == key {
			n++
		}
	}
	return n
}

// DifficultyLoad sums the task difficulty of the sessions starting on day.
func (s *Snapshot) DifficultyLoad(day time.Time) int {
	key := s.dayKey(day)
	total := 0
	for _, e := range s.events {
		if e.Kind == EventSession && s.dayKey(e.Interval.Start) == key {
			total += e.Difficulty
		}
	}
	return total
}

// EnergyLoad sums difficulty × minutes for the sessions starting on day.
func (s *Snapshot) EnergyLoad(day time.Time) int {
	key := s.dayKey(day)
	total := 0
	for _, e := range s.events {
		if e.Kind == EventSession && s.dayKey(e.Interval.Start) == key {
			total += e.Difficulty * e.Interval.Minutes()
		}
	}
	return total
}

// CategoryMinutes returns the minutes of day covered by events of the category.
func (s *Snapshot) CategoryMinutes(day time.Time, categoryID string) int {
	if categoryID == "" {
		return 0
	}
	d := utils.DateOf(day.In(s.loc))
	window := models.Interval{Start: d, End: utils.AddDays(d, 1)}
	total := 0
	for _, e := range s.events {
		if e.CategoryID != categoryID || !e.Interval.Overlaps(window) {
			continue
		}
		total += clip(e.Interval, window).Minutes()
	}
	return total
}

// CategoryIntervals returns the intervals of every event in the category.
func (s *Snapshot) CategoryIntervals(categoryID string) []models.Interval {
	if categoryID == "" {
		return nil
	}
	var out []models.Interval
	for _, e := range s.events {
		if e.CategoryID == categoryID {
			out = append(out, e.Interval)
		}
	}
	return out
}

// EarliestCategoryDay returns the first day holding an event of the
// category that starts before the given instant.
func (s *Snapshot) EarliestCategoryDay(before time.Time, categoryID string) (time.Time, bool) {
	if categoryID == "" {
		return time.Time{}, false
	}
	for _, e := range s.events {
		if !e.Interval.Start.Before(before) {
			break
		}
		if e.CategoryID == categoryID {
			return utils.DateOf(e.Interval.Start.In(s.loc)), true
		}
	}
	return time.Time{}, false
}

// History returns past focus sessions for productivity weighting.
func (s *Snapshot) History() []models.SessionRecord {
	var out []models.SessionRecord
	for _, e := range s.events {
		if e.Kind != EventSession {
			continue
		}
		out = append(out, models.SessionRecord{
			Start:      e.Interval.Start,
			End:        e.Interval.End,
			Completed:  e.Completed,
			CategoryID: e.CategoryID,
		})
	}
	return out
}

func clip(i, window models.Interval) models.Interval {
	if i.Start.Before(window.Start) {
		i.Start = window.Start
	}
	if i.End.After(window.End) {
		i.End = window.End
	}
	return i
}
