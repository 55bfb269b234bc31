package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// loadAllJSONL reads every <collection>.jsonl file in dataDir and inserts the
// records into the documents table. Loading is transactional: all succeed or
// the database remains empty. Malformed lines, records without an id, and
// files whose names are not valid collection names are skipped. Unknown
// fields are kept as document fields.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	paths, err := filepath.Glob(filepath.Join(dataDir, "*"+jsonlExt))
	if err != nil {
		return fmt.Errorf("listing JSONL files: %w", err)
	}
	sort.Strings(paths)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO documents (collection, doc_id, body) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing document insert: %w", err)
	}
	defer stmt.Close()

	for _, path := range paths {
		collection := collectionFromFile(path)
		if types.ValidateCollectionName(collection) != nil {
			continue
		}
		if err := loadCollection(stmt, collection, path); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// loadCollection inserts the records of one JSONL file.
func loadCollection(stmt *sql.Stmt, collection, path string) error {
	records, err := readJSONL(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	for _, rec := range records {
		doc, err := decodeRecord(rec)
		if err != nil {
			// Non-object lines and records without an id.
			continue
		}
		body, err := encodeBody(doc.Fields)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(collection, doc.ID, body); err != nil {
			return fmt.Errorf("loading %s into %s: %w", doc.ID, collection, err)
		}
	}
	return nil
}
