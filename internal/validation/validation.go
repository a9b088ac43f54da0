package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
)

// ErrInvalid is wrapped by every input validation failure.
var ErrInvalid = errors.New("invalid input")

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingSessions ConflictType = "overlapping_sessions"
	ConflictOverlappingBusy     ConflictType = "overlapping_busy"
	ConflictOutsideWorkHours    ConflictType = "outside_work_hours"
	ConflictDuringLunch         ConflictType = "during_lunch"
	ConflictNonWorkDay          ConflictType = "non_work_day"
	ConflictPastDueDate         ConflictType = "past_due_date"
	ConflictOverlappingFixed    ConflictType = "overlapping_fixed"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
)

// Conflict represents a detected conflict in a plan or calendar
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Titles or IDs involved
	TimeRange   string   // Human-readable time range (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func invalid(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// ValidateWorkItem checks the fields a plan request must carry.
func ValidateWorkItem(item models.WorkItem) error {
	var problems []string
	if strings.TrimSpace(item.Title) == "" {
		problems = append(problems, "title is required")
	}
	if item.Difficulty < 1 || item.Difficulty > 5 {
		problems = append(problems, fmt.Sprintf("difficulty must be between 1 and 5, got %d", item.Difficulty))
	}
	if item.Priority != 0 && (item.Priority < 1 || item.Priority > 5) {
		problems = append(problems, fmt.Sprintf("priority must be between 1 and 5, got %d", item.Priority))
	}
	if item.DurationMin <= 0 {
		problems = append(problems, fmt.Sprintf("duration must be positive, got %d", item.DurationMin))
	}
	if item.DueDate.IsZero() {
		problems = append(problems, "due date is required")
	}
	return invalid(problems)
}

// ValidateConfig checks a resolved configuration for values the scheduler
// cannot work with.
func ValidateConfig(cfg config.Config) error {
	var problems []string

	if cfg.WorkStartHour < 0 || cfg.WorkEndHour > 24 || cfg.WorkStartHour >= cfg.WorkEndHour {
		problems = append(problems, fmt.Sprintf("work hours %d-%d are invalid", cfg.WorkStartHour, cfg.WorkEndHour))
	}
	if cfg.LunchDurationMin < 0 {
		problems = append(problems, "lunch duration cannot be negative")
	} else if cfg.LunchDurationMin > 0 && (cfg.LunchStartHour < 0 || cfg.LunchEndMinute() > 24*60) {
		problems = append(problems, fmt.Sprintf("lunch at %d:00 for %d minutes does not fit in a day", cfg.LunchStartHour, cfg.LunchDurationMin))
	}
	if len(cfg.WorkDays) == 0 {
		problems = append(problems, "at least one work day is required")
	}
	if _, err := cfg.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid timezone %q", cfg.Timezone))
	}

	if cfg.SessionLengthMin <= 0 {
		problems = append(problems, "session length must be positive")
	}
	bounded := []struct {
		name         string
		base, lo, hi int
	}{
		{"session length", cfg.SessionLengthMin, cfg.MinSessionLengthMin, cfg.MaxSessionLengthMin},
		{"short break", cfg.ShortBreakMin, cfg.MinShortBreakMin, cfg.MaxShortBreakMin},
		{"long break", cfg.LongBreakMin, cfg.MinLongBreakMin, cfg.MaxLongBreakMin},
	}
	for _, b := range bounded {
		if b.base < 0 {
			problems = append(problems, fmt.Sprintf("%s cannot be negative", b.name))
			continue
		}
		if b.lo > 0 && b.hi > 0 && (b.base < b.lo || b.base > b.hi) {
			problems = append(problems, fmt.Sprintf("%s %d is outside %d-%d", b.name, b.base, b.lo, b.hi))
		}
	}

	if cfg.SessionsBeforeLongBreak <= 0 {
		problems = append(problems, "sessions before long break must be positive")
	}
	if cfg.MaxSessionsPerDay <= 0 {
		problems = append(problems, "max sessions per day must be positive")
	}
	if cfg.EnergyQuantumMin <= 0 {
		problems = append(problems, "energy quantum must be positive")
	}
	if n := len(cfg.EnergyCurve); n != 0 && n != 24 {
		problems = append(problems, fmt.Sprintf("energy curve needs 24 values, got %d", n))
	}
	for wd, m := range cfg.WeekdayEnergy {
		if m < 0 {
			problems = append(problems, fmt.Sprintf("weekday energy for %s cannot be negative", time.Weekday(wd)))
		}
	}
	for _, w := range []struct {
		name       string
		start, end *int
	}{
		{"high energy window", cfg.HighEnergyStartHour, cfg.HighEnergyEndHour},
		{"low energy window", cfg.LowEnergyStartHour, cfg.LowEnergyEndHour},
	} {
		if (w.start == nil) != (w.end == nil) {
			problems = append(problems, fmt.Sprintf("%s needs both a start and an end", w.name))
		} else if w.start != nil && (*w.start < 0 || *w.end > 24 || *w.start >= *w.end) {
			problems = append(problems, fmt.Sprintf("%s %d-%d is invalid", w.name, *w.start, *w.end))
		}
	}
	return invalid(problems)
}

// ValidatePlan checks every session of result against the working calendar
// and the busy intervals it was planned around.
func ValidatePlan(result models.PlanResult, busy []models.Interval, cfg config.Config) ValidationResult {
	res := ValidationResult{Conflicts: []Conflict{}}

	loc, err := cfg.Location()
	if err != nil {
		res.Conflicts = append(res.Conflicts, Conflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Invalid timezone: %s", cfg.Timezone),
		})
		return res
	}

	var deadline time.Time
	if result.Task.DueDate != "" {
		due, err := utils.ParseDateInLocation(result.Task.DueDate, loc)
		if err != nil {
			res.Conflicts = append(res.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Invalid due date: %s", result.Task.DueDate),
			})
		} else {
			deadline = utils.AddDays(due, 1)
		}
	}

	buffer := time.Duration(cfg.TransitionBuffer(result.Task.Difficulty)) * time.Minute

	sessions := make([]models.FocusSession, len(result.Sessions))
	copy(sessions, result.Sessions)
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Start.Before(sessions[j].Start)
	})

	for _, s := range sessions {
		start, end := s.Start.In(loc), s.End.In(loc)
		iv := models.Interval{Start: start, End: end}
		date := start.Format(constants.DateFormat)
		span := timeRange(start, end)

		if !end.After(start) {
			res.Conflicts = append(res.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("%s: session %s ends before it starts", formatDate(start), span),
				Date:        date,
				Items:       []string{s.ID},
				TimeRange:   span,
			})
			continue
		}
		if !cfg.IsWorkDay(start.Weekday()) {
			res.Conflicts = append(res.Conflicts, Conflict{
				Type:        ConflictNonWorkDay,
				Description: fmt.Sprintf("%s: session %s falls on a non-work day", formatDate(start), span),
				Date:        date,
				Items:       []string{s.ID},
				TimeRange:   span,
			})
		}
		if start.Before(utils.AtHour(start, cfg.WorkStartHour, 0)) || end.After(utils.AtHour(start, cfg.WorkEndHour, 0)) {
			res.Conflicts = append(res.Conflicts, Conflict{
				Type:        ConflictOutsideWorkHours,
				Description: fmt.Sprintf("%s: session %s is outside work hours %02d:00-%02d:00", formatDate(start), span, cfg.WorkStartHour, cfg.WorkEndHour),
				Date:        date,
				Items:       []string{s.ID},
				TimeRange:   span,
			})
		}
		if cfg.LunchDurationMin > 0 {
			lunch := models.Interval{
				Start: utils.AtHour(start, 0, cfg.LunchStartMinute()),
				End:   utils.AtHour(start, 0, cfg.LunchEndMinute()),
			}
			if iv.Overlaps(lunch) {
				res.Conflicts = append(res.Conflicts, Conflict{
					Type:        ConflictDuringLunch,
					Description: fmt.Sprintf("%s: session %s overlaps lunch", formatDate(start), span),
					Date:        date,
					Items:       []string{s.ID},
					TimeRange:   span,
				})
			}
		}
		if !deadline.IsZero() && end.After(deadline) {
			res.Conflicts = append(res.Conflicts, Conflict{
				Type:        ConflictPastDueDate,
				Description: fmt.Sprintf("%s: session %s ends after the due date %s", formatDate(start), span, result.Task.DueDate),
				Date:        date,
				Items:       []string{s.ID},
				TimeRange:   span,
			})
		}
		for _, b := range busy {
			if b.Expand(buffer).Overlaps(iv) {
				res.Conflicts = append(res.Conflicts, Conflict{
					Type: ConflictOverlappingBusy,
					Description: fmt.Sprintf("%s: session %s overlaps busy time %s", formatDate(start), span,
						timeRange(b.Start.In(loc), b.End.In(loc))),
					Date:      date,
					Items:     []string{s.ID},
					TimeRange: span,
				})
			}
		}
	}

	// O(n²) over one plan's sessions
	for i := 0; i < len(sessions); i++ {
		for j := i + 1; j < len(sessions); j++ {
			a, b := sessions[i], sessions[j]
			if (models.Interval{Start: a.Start, End: a.End}).Overlaps(models.Interval{Start: b.Start, End: b.End}) {
				start := a.Start.In(loc)
				res.Conflicts = append(res.Conflicts, Conflict{
					Type:        ConflictOverlappingSessions,
					Description: fmt.Sprintf("%s: sessions %s and %s overlap", formatDate(start), timeRange(start, a.End.In(loc)), timeRange(b.Start.In(loc), b.End.In(loc))),
					Date:        start.Format(constants.DateFormat),
					Items:       []string{a.ID, b.ID},
					TimeRange:   timeRange(start, a.End.In(loc)),
				})
			}
		}
	}

	return res
}

// ValidateCalendar reports overlapping appointments and fixed tasks.
func ValidateCalendar(appointments []models.Appointment, tasks []models.Task) ValidationResult {
	res := ValidationResult{Conflicts: []Conflict{}}

	type entry struct {
		title string
		iv    models.Interval
	}
	var entries []entry
	for _, a := range appointments {
		if !a.End.After(a.Start) {
			res.Conflicts = append(res.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Appointment \"%s\" ends before it starts", a.Title),
				Items:       []string{a.Title},
			})
			continue
		}
		entries = append(entries, entry{title: a.Title, iv: models.Interval{Start: a.Start, End: a.End}})
	}
	for _, t := range tasks {
		if !t.IsFixed() {
			continue
		}
		if !t.FixedEnd.After(*t.FixedStart) {
			res.Conflicts = append(res.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Task \"%s\" ends before it starts", t.Title),
				Items:       []string{t.Title},
			})
			continue
		}
		entries = append(entries, entry{title: t.Title, iv: models.Interval{Start: *t.FixedStart, End: *t.FixedEnd}})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].iv.Start.Before(entries[j].iv.Start)
	})

	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if !b.iv.Start.Before(a.iv.End) {
				break
			}
			res.Conflicts = append(res.Conflicts, Conflict{
				Type: ConflictOverlappingFixed,
				Description: fmt.Sprintf("%s: \"%s\" (%s) overlaps \"%s\" (%s)", formatDate(a.iv.Start),
					a.title, timeRange(a.iv.Start, a.iv.End), b.title, timeRange(b.iv.Start, b.iv.End)),
				Date:      a.iv.Start.Format(constants.DateFormat),
				Items:     []string{a.title, b.title},
				TimeRange: timeRange(a.iv.Start, a.iv.End),
			})
		}
	}
	return res
}

// Helper functions

func timeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format(constants.TimeFormat), end.Format(constants.TimeFormat))
}

func formatDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}
