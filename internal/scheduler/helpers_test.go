package scheduler

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/julianstephens/focusplan/internal/calendar"
	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
	"github.com/julianstephens/focusplan/internal/validation"
)

// ts returns a UTC instant in March 2025. The 10th is a Monday.
func ts(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func testConfig() config.Config {
	c := config.Default()
	c.Timezone = "UTC"
	return c
}

func newTestScheduler(now time.Time) *Scheduler {
	n := 0
	return New(
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func appt(start, end time.Time, category string) calendar.Event {
	return calendar.Event{
		Kind:       calendar.EventAppointment,
		Interval:   models.Interval{Start: start, End: end},
		CategoryID: category,
	}
}

func pastSession(start time.Time, minutes int, completed bool, category string) calendar.Event {
	return calendar.Event{
		Kind:       calendar.EventSession,
		Interval:   models.Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)},
		CategoryID: category,
		Difficulty: 3,
		Completed:  completed,
	}
}

func snapshot(events ...calendar.Event) *calendar.Snapshot {
	return calendar.NewSnapshot(events, time.UTC)
}

func workItem(difficulty, priority, duration int, due time.Time) models.WorkItem {
	return models.WorkItem{
		Title:       "Study",
		Difficulty:  difficulty,
		Priority:    priority,
		DurationMin: duration,
		DueDate:     due,
	}
}

func intPtr(n int) *int {
	return &n
}

// assertPlanInvariants checks the hard constraints every plan must satisfy.
func assertPlanInvariants(t *testing.T, res models.PlanResult, busy []models.Interval, cfg config.Config, item models.WorkItem) {
	t.Helper()

	length := time.Duration(res.SessionLengthMin) * time.Minute
	want := int(math.Ceil(float64(item.DurationMin) / float64(res.SessionLengthMin)))
	if len(res.Sessions) != want {
		t.Fatalf("got %d sessions, want %d", len(res.Sessions), want)
	}
	if len(res.Subtasks) != len(res.Sessions) {
		t.Errorf("got %d subtasks for %d sessions", len(res.Subtasks), len(res.Sessions))
	}
	if total := time.Duration(len(res.Sessions)) * length; total < time.Duration(item.DurationMin)*time.Minute {
		t.Errorf("total session time %v is less than duration %d min", total, item.DurationMin)
	}

	if vr := validation.ValidatePlan(res, busy, cfg); vr.HasConflicts() {
		t.Errorf("plan has conflicts:\n%s", vr.FormatReport())
	}

	buffer := time.Duration(transitionBuffer(item.Difficulty, cfg)) * time.Minute
	short, _ := breakLengths(item.Difficulty, cfg)
	minGap := time.Duration(short)*time.Minute + buffer
	deadline := utils.AddDays(utils.DateOf(item.DueDate), 1)

	for i, s := range res.Sessions {
		iv := models.Interval{Start: s.Start, End: s.End}
		if s.End.Sub(s.Start) != length {
			t.Errorf("session %d lasts %v, want %v", i, s.End.Sub(s.Start), length)
		}
		if s.End.After(deadline) {
			t.Errorf("session %d ends %v, after due date", i, s.End)
		}
		if !cfg.IsWorkDay(s.Start.Weekday()) {
			t.Errorf("session %d on non-work day %s", i, s.Start.Weekday())
		}
		if s.Start.Before(utils.AtHour(s.Start, cfg.WorkStartHour, 0)) || s.End.After(utils.AtHour(s.Start, cfg.WorkEndHour, 0)) {
			t.Errorf("session %d %v-%v outside work hours", i, s.Start, s.End)
		}
		if lunch, ok := lunchInterval(s.Start, cfg); ok && iv.Overlaps(lunch) {
			t.Errorf("session %d %v-%v overlaps lunch", i, s.Start, s.End)
		}
		for _, b := range busy {
			if b.Expand(buffer).Overlaps(iv) {
				t.Errorf("session %d %v-%v overlaps busy %v-%v", i, s.Start, s.End, b.Start, b.End)
			}
		}
		for j := 0; j < i; j++ {
			o := res.Sessions[j]
			if (models.Interval{Start: o.Start, End: o.End}).Overlaps(iv) {
				t.Errorf("sessions %d and %d overlap", j, i)
			}
		}
		if i > 0 {
			prev := res.Sessions[i-1]
			if utils.DateOf(prev.Start).Equal(utils.DateOf(s.Start)) && s.Start.Sub(prev.End) < minGap {
				t.Errorf("gap between sessions %d and %d is %v, want >= %v", i-1, i, s.Start.Sub(prev.End), minGap)
			}
		}
	}
}
