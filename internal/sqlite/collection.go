package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// collection implements types.Collection for one named collection.
type collection struct {
	name    string
	backend *Backend
}

// Insert stores a new document under a fresh UUID v7. An "id" key in
// fields is ignored.
func (c *collection) Insert(ctx context.Context, fields map[string]any) (string, error) {
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}

	body, err := encodeBody(withoutID(fields))
	if err != nil {
		return "", err
	}

	id := newUUID()
	if _, err := b.db.ExecContext(ctx,
		"INSERT INTO documents (collection, doc_id, body) VALUES (?, ?, ?)",
		c.name, id, body); err != nil {
		return "", fmt.Errorf("inserting into %s: %w", c.name, err)
	}

	if err := b.syncCollection(c.name); err != nil {
		return "", fmt.Errorf("persisting %s: %w", c.name, err)
	}
	return id, nil
}

// Get retrieves a document by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (c *collection) Get(ctx context.Context, id string) (types.Document, error) {
	if id == "" {
		return types.Document{}, types.ErrInvalidID
	}
	b := c.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Document{}, types.ErrStoreDetached
	}

	fields, err := c.load(ctx, id)
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{ID: id, Fields: fields}, nil
}

// Update merges fields into the stored document. Keys absent from fields
// keep their values; an "id" key is ignored.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (c *collection) Update(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	current, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	for k, v := range withoutID(fields) {
		current[k] = v
	}

	body, err := encodeBody(current)
	if err != nil {
		return err
	}
	if _, err := b.db.ExecContext(ctx,
		"UPDATE documents SET body = ? WHERE collection = ? AND doc_id = ?",
		body, c.name, id); err != nil {
		return fmt.Errorf("updating %s in %s: %w", id, c.name, err)
	}

	if err := b.syncCollection(c.name); err != nil {
		return fmt.Errorf("persisting %s: %w", c.name, err)
	}
	return nil
}

// Delete removes a document. A missing document is not an error.
// Returns ErrInvalidID if id is empty.
func (c *collection) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := c.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND doc_id = ?", c.name, id)
	if err != nil {
		return fmt.Errorf("deleting %s from %s: %w", id, c.name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	if err := b.syncCollection(c.name); err != nil {
		return fmt.Errorf("persisting %s: %w", c.name, err)
	}
	return nil
}

// Query returns the documents matching every predicate.
func (c *collection) Query(ctx context.Context, q types.Query) ([]types.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	b := c.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	query, args := buildQuery(c.name, q)
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.name, err)
	}
	defer rows.Close()

	docs := []types.Document{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", c.name, err)
		}
		fields, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, types.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", c.name, err)
	}
	return docs, nil
}

// load reads and decodes one document body. The caller must hold b.mu.
func (c *collection) load(ctx context.Context, id string) (map[string]any, error) {
	var body string
	err := c.backend.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND doc_id = ?", c.name, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s from %s: %w", id, c.name, err)
	}
	return decodeBody(body)
}

// sqlOps maps predicate operators to SQL.
var sqlOps = map[string]string{
	types.OpEqual:          "=",
	types.OpGreaterOrEqual: ">=",
	types.OpLessOrEqual:    "<=",
}

// fieldText renders a body field as text. json_extract yields SQL numbers
// for JSON numbers, which never compare equal to a text parameter.
func fieldText(field string) string {
	return fmt.Sprintf("CAST(json_extract(body, '$.%s') AS TEXT)", field)
}

// buildQuery renders a validated Query. Field names have passed
// ValidateFieldName, so interpolating them into the JSON path is safe.
func buildQuery(collection string, q types.Query) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT doc_id, body FROM documents WHERE collection = ?")
	args := []any{collection}

	for _, p := range q.Where {
		fmt.Fprintf(&sb, " AND %s %s ?", fieldText(p.Field), sqlOps[p.Op])
		args = append(args, p.Value)
	}

	if rf := q.RangeField(); rf != "" {
		fmt.Fprintf(&sb, " ORDER BY %s, doc_id", fieldText(rf))
	} else {
		sb.WriteString(" ORDER BY doc_id")
	}
	return sb.String(), args
}

// withoutID returns fields minus the reserved id key.
func withoutID(fields map[string]any) map[string]any {
	if _, ok := fields[types.FieldID]; !ok {
		return fields
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != types.FieldID {
			out[k] = v
		}
	}
	return out
}
