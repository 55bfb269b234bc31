package types

import (
	"context"
	"errors"
)

// Store defines the interface for backend-agnostic document storage.
// Callers attach to a backend, address collections by name, and detach when done.
type Store interface {
	// Collection returns the Collection for the given name. Collections are
	// created implicitly on first write. Returns ErrInvalidCollection if the
	// name is not a valid collection name.
	Collection(name string) (Collection, error)

	// Attach connects the Store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(ctx context.Context, config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, collection operations return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
