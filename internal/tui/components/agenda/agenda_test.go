package agenda

import (
	"testing"
	"time"

	"github.com/julianstephens/focusplan/internal/models"
)

type fakeSource struct {
	appts    []models.Appointment
	tasks    []models.Task
	sessions []models.FocusSession
}

func (f fakeSource) GetAllAppointments() ([]models.Appointment, error)   { return f.appts, nil }
func (f fakeSource) GetAllTasks() ([]models.Task, error)                 { return f.tasks, nil }
func (f fakeSource) GetAllFocusSessions() ([]models.FocusSession, error) { return f.sessions, nil }

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestBuild(t *testing.T) {
	fs, fe := at(10, 13), at(10, 14)
	src := fakeSource{
		appts: []models.Appointment{
			{ID: "a1", Title: "Lecture", Start: at(10, 9), End: at(10, 10)},
			{ID: "a2", Title: "Old", Start: at(3, 9), End: at(3, 10)},
		},
		tasks: []models.Task{
			{ID: "t1", Title: "Essay", Kind: models.TaskKindFlexible},
			{ID: "t2", Title: "Exam", Kind: models.TaskKindFixed, FixedStart: &fs, FixedEnd: &fe},
		},
		sessions: []models.FocusSession{
			{ID: "s2", TaskID: "t1", Start: at(11, 9), End: at(11, 10), Completed: true},
			{ID: "s1", TaskID: "t1", Start: at(10, 11), End: at(10, 12)},
			{ID: "s3", TaskID: "gone", Start: at(12, 9), End: at(12, 10)},
			{ID: "s4", TaskID: "t1", Start: at(20, 9), End: at(20, 10)},
		},
	}

	entries, err := Build(src, at(10, 0), at(17, 0))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []struct {
		id    string
		kind  Kind
		title string
	}{
		{"a1", KindAppointment, "Lecture"},
		{"s1", KindSession, "Essay"},
		{"t2", KindFixed, "Exam"},
		{"s2", KindSession, "Essay"},
		{"s3", KindSession, "Unknown task"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		e := entries[i]
		if e.ID != w.id || e.Kind != w.kind || e.Title != w.title {
			t.Errorf("entry %d = %s/%s/%s, want %s/%s/%s", i, e.ID, e.Kind, e.Title, w.id, w.kind, w.title)
		}
	}
	if !entries[3].Completed {
		t.Error("completed flag lost")
	}
}

func TestModelSelection(t *testing.T) {
	m := New(time.UTC, 100, 10)
	if _, ok := m.Selected(); ok {
		t.Fatal("empty agenda has a selection")
	}

	m.SetEntries([]Entry{
		{Kind: KindSession, ID: "s1", Title: "Essay", Start: at(10, 9), End: at(10, 10)},
		{Kind: KindAppointment, ID: "a1", Title: "Lecture", Start: at(10, 11), End: at(10, 12)},
	})
	e, ok := m.Selected()
	if !ok || e.ID != "s1" {
		t.Errorf("Selected() = %+v, %v", e, ok)
	}
}
