package sqlstore

import (
	"fmt"

	"github.com/julianstephens/focusplan/internal/models"
)

func (s *Store) GetAllFocusSessions() ([]models.FocusSession, error) {
	return s.loadSessions("SELECT id, task_id, start_time, end_time, completed FROM focus_sessions ORDER BY start_time, id")
}

func (s *Store) GetFocusSessions(taskID string) ([]models.FocusSession, error) {
	return s.loadSessions("SELECT id, task_id, start_time, end_time, completed FROM focus_sessions WHERE task_id = ? ORDER BY start_time, id", taskID)
}

func (s *Store) loadSessions(query string, args ...interface{}) ([]models.FocusSession, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load focus sessions: %w", err)
	}
	defer rows.Close()

	var out []models.FocusSession
	for rows.Next() {
		var fs models.FocusSession
		var start, end string
		if err := rows.Scan(&fs.ID, &fs.TaskID, &start, &end, &fs.Completed); err != nil {
			return nil, err
		}
		if fs.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if fs.End, err = parseTime(end); err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

// CompleteFocusSession marks the session done and its task as worked on.
func (s *Store) CompleteFocusSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.execOne(tx, "focus session", id, "UPDATE focus_sessions SET completed = ? WHERE id = ?", true, id); err != nil {
		return err
	}
	_, err = s.exec(tx, "UPDATE tasks SET worked_on = ? WHERE id = (SELECT task_id FROM focus_sessions WHERE id = ?)", true, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return tx.Commit()
}
