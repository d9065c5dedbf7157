package port

import (
	"context"
	"database/sql"
)

// DatabaseProvider provides access to the local tier database.
// Implementations may open the database lazily on first access, so
// commands that never touch storage don't pay for it.
type DatabaseProvider interface {
	// DB returns the database connection, initializing it if necessary.
	DB(ctx context.Context) (*sql.DB, error)

	// Close closes the database connection if it was initialized.
	Close() error

	// IsInitialized returns true if the database has been initialized.
	IsInitialized() bool
}
