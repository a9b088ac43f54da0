package sqlstore

import (
	"fmt"

	"github.com/julianstephens/focusplan/internal/models"
)

const appointmentColumns = "id, title, description, category_id, start_time, end_time, timezone"

func (s *Store) AddAppointment(a models.Appointment) error {
	_, err := s.exec(s.db, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description, a.CategoryID, formatTime(a.Start), formatTime(a.End), a.Timezone,
	)
	if err != nil {
		return fmt.Errorf("failed to add appointment %s: %w", a.Title, err)
	}
	return nil
}

func (s *Store) GetAppointment(id string) (models.Appointment, error) {
	a, err := scanAppointment(s.queryRow("SELECT "+appointmentColumns+" FROM appointments WHERE id = ?", id))
	if err != nil {
		return models.Appointment{}, rowErr(err, "appointment", id)
	}
	return a, nil
}

func (s *Store) GetAllAppointments() ([]models.Appointment, error) {
	rows, err := s.query("SELECT " + appointmentColumns + " FROM appointments ORDER BY start_time, id")
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAppointment(a models.Appointment) error {
	return s.execOne(s.db, "appointment", a.ID, `
		UPDATE appointments
		SET title = ?, description = ?, category_id = ?, start_time = ?, end_time = ?, timezone = ?
		WHERE id = ?`,
		a.Title, a.Description, a.CategoryID, formatTime(a.Start), formatTime(a.End), a.Timezone, a.ID,
	)
}

func (s *Store) DeleteAppointment(id string) error {
	return s.execOne(s.db, "appointment", id, "DELETE FROM appointments WHERE id = ?", id)
}

func scanAppointment(row scanner) (models.Appointment, error) {
	var a models.Appointment
	var start, end string
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.CategoryID, &start, &end, &a.Timezone); err != nil {
		return models.Appointment{}, err
	}
	var err error
	if a.Start, err = parseTime(start); err != nil {
		return models.Appointment{}, err
	}
	if a.End, err = parseTime(end); err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}
