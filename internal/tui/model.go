package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/tui/components/agenda"
	"github.com/julianstephens/focusplan/internal/tui/components/tasklist"
	"github.com/julianstephens/focusplan/internal/utils"
	"github.com/julianstephens/focusplan/internal/validation"
)

type View int

const (
	ViewAgenda View = iota
	ViewTasks
)

type loadedMsg struct {
	entries   []agenda.Entry
	tasks     []models.Task
	conflicts []validation.Conflict
	err       error
}

type completedMsg struct {
	status string
	err    error
}

type Model struct {
	store     storage.Provider
	loc       *time.Location
	now       func() time.Time
	days      int
	view      View
	keys      KeyMap
	help      help.Model
	agenda    agenda.Model
	tasks     tasklist.Model
	conflicts []validation.Conflict
	status    string
	err       error
	quitting  bool
	width     int
	height    int
}

// NewModel shows the next days of sessions, appointments and fixed tasks.
func NewModel(store storage.Provider, loc *time.Location, days int) Model {
	if days < 1 {
		days = 7
	}
	return Model{
		store:  store,
		loc:    loc,
		now:    time.Now,
		days:   days,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		agenda: agenda.New(loc, 80, 20),
		tasks:  tasklist.New(nil, 80, 20),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Complete, m.keys.Refresh, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down},
		{m.keys.Complete, m.keys.Refresh},
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	store := m.store
	from := utils.DateOf(m.now().In(m.loc))
	to := utils.AddDays(from, m.days)
	return func() tea.Msg {
		entries, err := agenda.Build(store, from, to)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := store.GetAllTasks()
		if err != nil {
			return loadedMsg{err: err}
		}
		appts, err := store.GetAllAppointments()
		if err != nil {
			return loadedMsg{err: err}
		}
		vr := validation.ValidateCalendar(appts, tasks)
		return loadedMsg{entries: entries, tasks: tasks, conflicts: vr.Conflicts}
	}
}

func (m Model) completeSelected() tea.Cmd {
	store := m.store
	switch m.view {
	case ViewAgenda:
		e, ok := m.agenda.Selected()
		if !ok || e.Kind != agenda.KindSession {
			return nil
		}
		if e.Completed {
			return func() tea.Msg { return completedMsg{status: "Session already completed"} }
		}
		return func() tea.Msg {
			if err := store.CompleteFocusSession(e.ID); err != nil {
				return completedMsg{err: err}
			}
			return completedMsg{status: fmt.Sprintf("Completed session of %s", e.Title)}
		}
	case ViewTasks:
		t, ok := m.tasks.Selected()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			subtasks, err := store.GetSubtasks(t.ID)
			if err != nil {
				return completedMsg{err: err}
			}
			for _, st := range subtasks {
				if st.Completed {
					continue
				}
				task, err := store.CompleteSubtask(st.ID)
				if err != nil {
					return completedMsg{err: err}
				}
				return completedMsg{status: fmt.Sprintf("%s: %s done, %d%% complete", task.Title, st.Title, task.CompletionPercent)}
			}
			return completedMsg{status: "Nothing left to complete for " + t.Title}
		}
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - 8
		if h < 5 {
			h = 5
		}
		m.agenda.SetSize(msg.Width-4, h)
		m.tasks.SetSize(msg.Width-4, h)
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.agenda.SetEntries(msg.entries)
			m.tasks.SetTasks(msg.tasks)
			m.conflicts = msg.conflicts
		}
		return m, nil

	case completedMsg:
		m.err = msg.err
		m.status = msg.status
		return m, m.load()

	case tea.KeyMsg:
		if m.view == ViewTasks && m.tasks.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
			if m.view == ViewAgenda {
				m.view = ViewTasks
			} else {
				m.view = ViewAgenda
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			return m, m.load()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Complete):
			return m, m.completeSelected()
		}
	}

	var cmd tea.Cmd
	if m.view == ViewAgenda {
		m.agenda, cmd = m.agenda.Update(msg)
	} else {
		m.tasks, cmd = m.tasks.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	content := m.agenda.View()
	if m.view == ViewTasks {
		content = m.tasks.View()
	}

	var banner string
	if n := len(m.conflicts); n > 0 {
		banner = dangerStyle.Render(fmt.Sprintf("⚠ %d calendar conflict(s), run 'focusplan doctor'", n))
	}

	var status string
	switch {
	case m.err != nil:
		status = dangerStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		status = statusStyle.Render(m.status)
	default:
		status = warningStyle.Render(fmt.Sprintf("Showing %d days in %s", m.days, m.loc))
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		status,
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewTabs() string {
	agendaTab, tasksTab := activeTabStyle, inactiveTabStyle
	if m.view == ViewTasks {
		agendaTab, tasksTab = inactiveTabStyle, activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, agendaTab.Render("Agenda"), tasksTab.Render("Tasks")) + "\n"
}

// Run starts the agenda viewer in the alternate screen.
func Run(store storage.Provider, loc *time.Location, days int) error {
	p := tea.NewProgram(NewModel(store, loc, days), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
