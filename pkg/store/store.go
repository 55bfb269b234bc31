// Package store opens a Brandly document store for a Config.
// It is the public entry point to the backends under internal/.
package store

import (
	"context"

	"github.com/mesh-intelligence/brandly/internal/postgres"
	"github.com/mesh-intelligence/brandly/internal/sqlite"
	"github.com/mesh-intelligence/brandly/pkg/types"
)

// New returns a detached Store for cfg.Backend. Call Attach to initialize it.
// Returns ErrBackendEmpty or ErrBackendUnknown for a bad backend name.
func New(backend string) (types.Store, error) {
	switch backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendPostgres:
		return postgres.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Open creates the backend named by cfg and attaches it.
//
// Example:
//
//	s, err := store.Open(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".brandly-db",
//	})
//	defer s.Detach()
func Open(ctx context.Context, cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(ctx, cfg); err != nil {
		return nil, err
	}
	return s, nil
}
