package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/focusplan/internal/models"
)

const categoryColumns = "id, name, color, preferred_start_hour, preferred_end_hour, energy_curve"

func (s *Store) AddCategory(c models.Category) error {
	curve, err := encodeCurve(c.EnergyCurve)
	if err != nil {
		return err
	}
	_, err = s.exec(s.db, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, nullHour(c.PreferredStartHour), nullHour(c.PreferredEndHour), curve,
	)
	if err != nil {
		return fmt.Errorf("failed to add category %s: %w", c.Name, err)
	}
	return nil
}

func (s *Store) GetCategory(id string) (models.Category, error) {
	c, err := scanCategory(s.queryRow("SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if err != nil {
		return models.Category{}, rowErr(err, "category", id)
	}
	return c, nil
}

func (s *Store) GetAllCategories() ([]models.Category, error) {
	rows, err := s.query("SELECT " + categoryColumns + " FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeleteCategory(id string) error {
	return s.execOne(s.db, "category", id, "DELETE FROM categories WHERE id = ?", id)
}

func scanCategory(row scanner) (models.Category, error) {
	var c models.Category
	var start, end sql.NullInt64
	var curve string
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &start, &end, &curve); err != nil {
		return models.Category{}, err
	}
	if start.Valid {
		h := int(start.Int64)
		c.PreferredStartHour = &h
	}
	if end.Valid {
		h := int(end.Int64)
		c.PreferredEndHour = &h
	}
	if curve != "" {
		if err := json.Unmarshal([]byte(curve), &c.EnergyCurve); err != nil {
			return models.Category{}, fmt.Errorf("invalid energy curve for category %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func nullHour(h *int) sql.NullInt64 {
	if h == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*h), Valid: true}
}

func encodeCurve(curve []int) (string, error) {
	if len(curve) == 0 {
		return "", nil
	}
	data, err := json.Marshal(curve)
	if err != nil {
		return "", fmt.Errorf("failed to encode energy curve: %w", err)
	}
	return string(data), nil
}
