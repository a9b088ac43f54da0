package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/focusplan/internal/models"
)

const taskColumns = `id, title, description, kind, due_date, start_date, start_time, end_date, end_time,
	fixed_start, fixed_end, category_id, difficulty, duration_min, priority,
	worked_on, paused, completion_percent, created_at`

func (s *Store) AddTask(t models.Task) error {
	if err := s.insertTask(s.db, t); err != nil {
		return fmt.Errorf("failed to add task %s: %w", t.Title, err)
	}
	return nil
}

func (s *Store) insertTask(e execer, t models.Task) error {
	_, err := s.exec(e, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Kind), t.DueDate, t.StartDate, t.StartTime, t.EndDate, t.EndTime,
		formatOptionalTime(t.FixedStart), formatOptionalTime(t.FixedEnd), t.CategoryID,
		t.Difficulty, t.DurationMin, t.Priority,
		t.WorkedOn, t.Paused, t.CompletionPercent, formatTime(t.CreatedAt),
	)
	return err
}

func (s *Store) GetTask(id string) (models.Task, error) {
	t, err := scanTask(s.queryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if err != nil {
		return models.Task{}, rowErr(err, "task", id)
	}
	return t, nil
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	rows, err := s.query("SELECT " + taskColumns + " FROM tasks ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTask removes the task with its sessions and subtasks.
func (s *Store) DeleteTask(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.exec(tx, "DELETE FROM subtasks WHERE task_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete subtasks: %w", err)
	}
	if _, err := s.exec(tx, "DELETE FROM focus_sessions WHERE task_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete focus sessions: %w", err)
	}
	if err := s.execOne(tx, "task", id, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var kind, createdAt string
	var fixedStart, fixedEnd sql.NullString
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &kind, &t.DueDate, &t.StartDate, &t.StartTime, &t.EndDate, &t.EndTime,
		&fixedStart, &fixedEnd, &t.CategoryID, &t.Difficulty, &t.DurationMin, &t.Priority,
		&t.WorkedOn, &t.Paused, &t.CompletionPercent, &createdAt,
	)
	if err != nil {
		return models.Task{}, err
	}
	t.Kind = models.TaskKind(kind)
	if t.FixedStart, err = parseOptionalTime(fixedStart); err != nil {
		return models.Task{}, err
	}
	if t.FixedEnd, err = parseOptionalTime(fixedEnd); err != nil {
		return models.Task{}, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) GetSubtasks(taskID string) ([]models.Subtask, error) {
	rows, err := s.query("SELECT id, task_id, title, completed FROM subtasks WHERE task_id = ? ORDER BY position, id", taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %w", err)
	}
	defer rows.Close()

	var out []models.Subtask
	for rows.Next() {
		var st models.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.Completed); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// CompleteSubtask marks the subtask done, then sets the task's completion
// percentage to the share of completed subtasks and flags it as worked on.
func (s *Store) CompleteSubtask(id string) (models.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Task{}, err
	}
	defer tx.Rollback()

	var taskID string
	if err := tx.QueryRow(s.rebind("SELECT task_id FROM subtasks WHERE id = ?"), id).Scan(&taskID); err != nil {
		return models.Task{}, rowErr(err, "subtask", id)
	}
	if _, err := s.exec(tx, "UPDATE subtasks SET completed = ? WHERE id = ?", true, id); err != nil {
		return models.Task{}, fmt.Errorf("failed to complete subtask: %w", err)
	}

	var total, done int
	if err := tx.QueryRow(s.rebind("SELECT COUNT(*) FROM subtasks WHERE task_id = ?"), taskID).Scan(&total); err != nil {
		return models.Task{}, err
	}
	if err := tx.QueryRow(s.rebind("SELECT COUNT(*) FROM subtasks WHERE task_id = ? AND completed = ?"), taskID, true).Scan(&done); err != nil {
		return models.Task{}, err
	}
	percent := 0
	if total > 0 {
		percent = done * 100 / total
	}
	if err := s.execOne(tx, "task", taskID, "UPDATE tasks SET completion_percent = ?, worked_on = ? WHERE id = ?", percent, true, taskID); err != nil {
		return models.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, err
	}
	return s.GetTask(taskID)
}
