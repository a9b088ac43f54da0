// Package sqlstore implements storage.Provider on database/sql. The SQLite
// and PostgreSQL stores embed it and only differ in how they open the
// connection and which placeholder style their driver expects.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/focusplan/internal/migration"
	"github.com/julianstephens/focusplan/internal/storage"
)

// Dialect describes the differences between the supported databases.
type Dialect struct {
	Name        string
	Placeholder migration.Placeholder
}

var (
	SQLite   = Dialect{Name: "sqlite", Placeholder: migration.QuestionMark}
	Postgres = Dialect{Name: "postgres", Placeholder: migration.Dollar}
)

// timestampLayout is fixed-width so stored values sort as text.
const timestampLayout = "2006-01-02T15:04:05Z07:00"

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(dialect Dialect) *Store {
	return &Store{dialect: dialect}
}

// Attach sets the connection used by every query.
func (s *Store) Attach(db *sql.DB) {
	s.db = db
}

// GetDB returns the underlying database connection, nil before Init or Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// rebind rewrites ? placeholders into the dialect's style.
func (s *Store) rebind(query string) string {
	if s.dialect.Placeholder == nil {
		return query
	}
	if s.dialect.Placeholder(1) == "?" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (s *Store) exec(e execer, query string, args ...interface{}) (sql.Result, error) {
	return e.Exec(s.rebind(query), args...)
}

// execOne runs a statement that must touch exactly one row.
func (s *Store) execOne(e execer, what, id, query string, args ...interface{}) error {
	res, err := s.exec(e, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(what, id)
	}
	return nil
}

func (s *Store) queryRow(query string, args ...interface{}) *sql.Row {
	return s.db.QueryRow(s.rebind(query), args...)
}

func (s *Store) query(query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.Query(s.rebind(query), args...)
}

func (s *Store) count(query string, args ...interface{}) (int, error) {
	var n int
	if err := s.queryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
}

// rowErr maps sql.ErrNoRows to storage.ErrNotFound.
func rowErr(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(what, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func formatOptionalTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseOptionalTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
