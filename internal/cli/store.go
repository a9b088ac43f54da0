package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/keyring"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/storage/postgres"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
	"github.com/julianstephens/focusplan/internal/utils"
)

// IsPostgres reports whether ref is a PostgreSQL connection string.
func IsPostgres(ref string) bool {
	return strings.HasPrefix(ref, "postgres://") ||
		strings.HasPrefix(ref, "postgresql://") ||
		strings.Contains(ref, "host=")
}

// credentialsError explains where a password should live instead.
type credentialsError struct {
	err error
}

func (e credentialsError) Error() string { return e.err.Error() }
func (e credentialsError) Unwrap() error { return e.err }
func (e credentialsError) Hint() string {
	return fmt.Sprintf("store it with '%s keyring set' or export %s", constants.AppName, constants.EnvDBConnection)
}

// NewStore opens the backend named by ref. A PostgreSQL connection string
// given on the command line must not embed a password.
func NewStore(ref string) (storage.Provider, error) {
	if IsPostgres(ref) {
		if _, err := postgres.ValidateConnString(ref); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, credentialsError{err: err}
			}
			return nil, err
		}
		return postgres.New(ref), nil
	}
	path, err := utils.ExpandPath(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	return sqlite.NewStore(path), nil
}

// ResolveStore picks the store for the global --config flag. Without one,
// a connection string from the environment or keyring wins over the
// default SQLite file.
func ResolveStore(ref string, lookup func(string) (string, bool)) (storage.Provider, error) {
	if ref != "" {
		return NewStore(ref)
	}
	if connStr := keyring.ResolveConnectionString(lookup); connStr != "" {
		return postgres.New(connStr), nil
	}
	return NewStore(constants.DefaultConfigPath)
}
