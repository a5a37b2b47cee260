// Package notes keeps the facts an assistant learned about its user, so they
// can be handed back to it as context in later conversations.
package notes

import (
	"context"
	"errors"
	"fmt"
)

// Store persists notes in the order they were appended.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores one note. Blank notes are ignored.
	Append(ctx context.Context, text string) error

	// Contents returns every note, oldest first, separated by blank lines.
	// Returns an empty string (not an error) when nothing was stored yet.
	Contents(ctx context.Context) (string, error)

	// Close releases any resources (connections, files).
	Close() error
}

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("note store closed")

	// ErrUnknownBackend is returned by Open for an unsupported backend.
	ErrUnknownBackend = errors.New("unknown note backend")
)

// Open creates the store for backend at path.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
