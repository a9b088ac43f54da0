package agenda

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
)

type Kind string

const (
	KindAppointment Kind = "appointment"
	KindSession     Kind = "session"
	KindFixed       Kind = "fixed"
)

// Entry is one row of the agenda.
type Entry struct {
	Kind      Kind
	ID        string
	TaskID    string
	Title     string
	Start     time.Time
	End       time.Time
	Completed bool
}

// Source is the part of the store the agenda reads.
type Source interface {
	GetAllAppointments() ([]models.Appointment, error)
	GetAllTasks() ([]models.Task, error)
	GetAllFocusSessions() ([]models.FocusSession, error)
}

// Build returns every appointment, fixed task and focus session that
// overlaps [from, to), ordered by start time.
func Build(src Source, from, to time.Time) ([]Entry, error) {
	window := models.Interval{Start: from, End: to}
	var entries []Entry

	appts, err := src.GetAllAppointments()
	if err != nil {
		return nil, err
	}
	for _, a := range appts {
		if window.Overlaps(models.Interval{Start: a.Start, End: a.End}) {
			entries = append(entries, Entry{Kind: KindAppointment, ID: a.ID, Title: a.Title, Start: a.Start, End: a.End})
		}
	}

	tasks, err := src.GetAllTasks()
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
		if t.IsFixed() && window.Overlaps(models.Interval{Start: *t.FixedStart, End: *t.FixedEnd}) {
			entries = append(entries, Entry{Kind: KindFixed, ID: t.ID, TaskID: t.ID, Title: t.Title, Start: *t.FixedStart, End: *t.FixedEnd})
		}
	}

	sessions, err := src.GetAllFocusSessions()
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if !window.Overlaps(models.Interval{Start: s.Start, End: s.End}) {
			continue
		}
		title, ok := titles[s.TaskID]
		if !ok {
			title = "Unknown task"
		}
		entries = append(entries, Entry{
			Kind:      KindSession,
			ID:        s.ID,
			TaskID:    s.TaskID,
			Title:     title,
			Start:     s.Start,
			End:       s.End,
			Completed: s.Completed,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Start.Equal(entries[j].Start) {
			return entries[i].Start.Before(entries[j].Start)
		}
		return entries[i].Title < entries[j].Title
	})
	return entries, nil
}

type Model struct {
	table   table.Model
	entries []Entry
	loc     *time.Location
}

func New(loc *time.Location, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return Model{table: t, loc: loc}
}

func columns(width int) []table.Column {
	title := width - 12 - 13 - 12 - 6 - 10
	if title < 20 {
		title = 20
	}
	return []table.Column{
		{Title: "Day", Width: 12},
		{Title: "Time", Width: 13},
		{Title: "Kind", Width: 12},
		{Title: "Title", Width: title},
		{Title: "Done", Width: 6},
	}
}

func (m *Model) SetEntries(entries []Entry) {
	m.entries = entries
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		start, end := e.Start.In(m.loc), e.End.In(m.loc)
		done := ""
		if e.Completed {
			done = "✓"
		}
		rows[i] = table.Row{
			start.Format("Mon 01-02"),
			start.Format(constants.TimeFormat) + "-" + end.Format(constants.TimeFormat),
			string(e.Kind),
			e.Title,
			done,
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (Entry, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[c], true
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetHeight(height)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return "\n  Nothing scheduled.\n  Plan a task with 'focusplan plan'."
	}
	return m.table.View()
}
