// Package postgres implements the Brandly document store on PostgreSQL.
// Every collection lives in one documents table keyed by (collection,
// doc_id) with a JSONB body.
package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    doc_id     TEXT NOT NULL,
    body       JSONB NOT NULL DEFAULT '{}'::jsonb,
    PRIMARY KEY (collection, doc_id)
);
CREATE INDEX IF NOT EXISTS idx_documents_owner ON documents (collection, (body->>'createdBy'));
`

// DBTX is the subset of *pgxpool.Pool used by the backend. pgxmock pools
// satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Connector opens a pool for a DSN.
type Connector func(ctx context.Context, dsn string) (DBTX, error)

// Backend implements types.Store on PostgreSQL.
type Backend struct {
	mu          sync.RWMutex
	attached    bool
	connect     Connector
	pool        DBTX
	collections map[string]*collection
}

// NewBackend creates a detached backend that connects through pgxpool.
func NewBackend() *Backend {
	return NewBackendWithConnector(connectPool)
}

// NewBackendWithConnector creates a detached backend that obtains its pool
// from connect.
func NewBackendWithConnector(connect Connector) *Backend {
	return &Backend{
		connect:     connect,
		collections: make(map[string]*collection),
	}
}

func connectPool(ctx context.Context, dsn string) (DBTX, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return pool, nil
}

// Attach connects to config.DSN and creates the documents table if absent.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(ctx context.Context, config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	pool, err := b.connect(ctx, config.DSN)
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	b.pool = pool
	b.attached = true
	return nil
}

// Detach closes the pool. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.pool.Close()
	b.pool = nil
	b.attached = false
	b.collections = make(map[string]*collection)
	return nil
}

// Collection returns the Collection for the given name.
func (b *Backend) Collection(name string) (types.Collection, error) {
	if err := types.ValidateCollectionName(name); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	c, ok := b.collections[name]
	if !ok {
		c = &collection{name: name, backend: b}
		b.collections[name] = c
	}
	return c, nil
}

// db returns the pool, or ErrStoreDetached.
func (b *Backend) db() (DBTX, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.pool, nil
}

func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
