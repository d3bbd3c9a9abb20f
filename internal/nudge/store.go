package nudge

import (
	"context"
	"time"
)

// Store persists nudge history across runs.
type Store interface {
	// Get returns the history for an address, or nil when unseen.
	Get(ctx context.Context, email string) (*History, error)

	// Record notes that a nudge at the given level was delivered.
	Record(ctx context.Context, email, name string, level int, at time.Time) error

	// List returns all recorded histories ordered by address.
	List(ctx context.Context) ([]History, error)

	// Migrate creates the schema if needed.
	Migrate(ctx context.Context) error

	Close() error
}
