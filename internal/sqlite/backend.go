// Package sqlite implements the SQLite document store for Brandly.
// SQLite is the query engine; one JSONL file per collection in the data
// directory is the source of truth and is reloaded on every Attach.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// dbFileName is the SQLite file created inside DataDir.
const dbFileName = "brandly.db"

// Backend implements the Store interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu          sync.RWMutex
	attached    bool
	config      types.Config
	dataDir     string
	db          *sql.DB
	collections map[string]*collection

	// JSONL persistence. Under on_close and batch, writes mark their
	// collection dirty and pending counts writes since the last flush.
	syncStrategy  string
	batchSize     int
	batchInterval time.Duration
	dirty         map[string]struct{}
	pending       int
	ticker        *time.Ticker
	stopTicker    chan struct{}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		collections: make(map[string]*collection),
	}
}

// Collection returns the Collection for the given name.
// Returns ErrStoreDetached if the backend is not attached and
// ErrInvalidCollection if the name is not a valid collection name.
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

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, builds a fresh SQLite schema, and
// loads every JSONL file found in DataDir.
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

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is a cache of the JSONL files; rebuild it on every attach.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// A single connection serialises writers and keeps the schema visible.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}

	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir

	b.syncStrategy = config.SQLiteConfig.GetSyncStrategy()
	b.batchSize = config.SQLiteConfig.GetBatchSize()
	b.batchInterval = time.Duration(config.SQLiteConfig.GetBatchInterval()) * time.Second
	b.dirty = make(map[string]struct{})
	b.pending = 0
	b.attached = true

	if b.syncStrategy == types.SyncBatch && b.batchInterval > 0 {
		b.startTicker()
	}
	return nil
}

// Detach releases all resources held by the backend.
// For on_close and batch sync strategies, flushes all pending writes before
// closing. After Detach, all operations return ErrStoreDetached.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.stopTickerLocked()

	if err := b.flushLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.collections = make(map[string]*collection)

	return nil
}

// initJSONLFiles creates empty JSONL files for the standard collections.
func initJSONLFiles(dataDir string) error {
	for _, name := range types.StandardCollectionNames {
		if err := ensureJSONLFile(collectionFile(dataDir, name)); err != nil {
			return err
		}
	}
	return nil
}

// newUUID generates a UUID v7 string for document IDs.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// persistCollection rewrites the JSONL file of one collection from SQLite.
// The caller must hold b.mu.
func (b *Backend) persistCollection(name string) error {
	rows, err := b.db.Query("SELECT doc_id, body FROM documents WHERE collection = ? ORDER BY doc_id", name)
	if err != nil {
		return fmt.Errorf("reading %s for persist: %w", name, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return fmt.Errorf("scanning %s for persist: %w", name, err)
		}
		fields, err := decodeBody(body)
		if err != nil {
			return err
		}
		rec, err := encodeRecord(types.Document{ID: id, Fields: fields})
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows.Close()

	return writeJSONL(collectionFile(b.dataDir, name), records)
}

// syncCollection persists a collection according to the sync strategy.
// The caller must hold b.mu.
func (b *Backend) syncCollection(name string) error {
	if b.syncStrategy == types.SyncImmediate || b.syncStrategy == "" {
		return b.persistCollection(name)
	}
	b.dirty[name] = struct{}{}
	b.pending++
	if b.syncStrategy == types.SyncBatch && b.batchSize > 0 && b.pending >= b.batchSize {
		return b.flushLocked()
	}
	return nil
}

// flushLocked rewrites every dirty collection file once. A collection stays
// dirty if its rewrite fails so the next flush retries it.
// The caller must hold b.mu.
func (b *Backend) flushLocked() error {
	names := make([]string, 0, len(b.dirty))
	for name := range b.dirty {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := b.persistCollection(name); err != nil {
			return fmt.Errorf("flush %s: %w", name, err)
		}
		delete(b.dirty, name)
	}
	b.pending = 0
	return nil
}

// startTicker flushes dirty collections every batchInterval until
// stopTickerLocked is called.
func (b *Backend) startTicker() {
	b.ticker = time.NewTicker(b.batchInterval)
	b.stopTicker = make(chan struct{})
	go func(t *time.Ticker, stop <-chan struct{}) {
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				b.mu.Lock()
				if b.attached {
					_ = b.flushLocked()
				}
				b.mu.Unlock()
			}
		}
	}(b.ticker, b.stopTicker)
}

// stopTickerLocked stops the interval flusher. The caller must hold b.mu.
func (b *Backend) stopTickerLocked() {
	if b.ticker == nil {
		return
	}
	b.ticker.Stop()
	close(b.stopTicker)
	b.ticker = nil
	b.stopTicker = nil
}
