package sqlstore

import (
	"fmt"

	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/storage"
)

// SavePlan writes the task, its focus sessions and its subtasks atomically.
func (s *Store) SavePlan(plan models.PlanResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.insertTask(tx, plan.Task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	for _, fs := range plan.Sessions {
		_, err := s.exec(tx, `
			INSERT INTO focus_sessions (id, task_id, start_time, end_time, completed)
			VALUES (?, ?, ?, ?, ?)`,
			fs.ID, plan.Task.ID, formatTime(fs.Start), formatTime(fs.End), fs.Completed,
		)
		if err != nil {
			return fmt.Errorf("failed to save focus session: %w", err)
		}
	}
	for i, st := range plan.Subtasks {
		_, err := s.exec(tx, `
			INSERT INTO subtasks (id, task_id, title, position, completed)
			VALUES (?, ?, ?, ?, ?)`,
			st.ID, plan.Task.ID, st.Title, i+1, st.Completed,
		)
		if err != nil {
			return fmt.Errorf("failed to save subtask: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}
	logger.Debug("plan saved", "task", plan.Task.ID, "sessions", len(plan.Sessions))
	return nil
}

func (s *Store) GetStats() (storage.Stats, error) {
	var st storage.Stats
	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&st.Tasks, "SELECT COUNT(*) FROM tasks", nil},
		{&st.Appointments, "SELECT COUNT(*) FROM appointments", nil},
		{&st.Categories, "SELECT COUNT(*) FROM categories", nil},
		{&st.FocusSessions, "SELECT COUNT(*) FROM focus_sessions", nil},
		{&st.CompletedSessions, "SELECT COUNT(*) FROM focus_sessions WHERE completed = ?", []interface{}{true}},
	}
	for _, c := range counts {
		n, err := s.count(c.query, c.args...)
		if err != nil {
			return storage.Stats{}, fmt.Errorf("failed to load stats: %w", err)
		}
		*c.dst = n
	}
	return st, nil
}
