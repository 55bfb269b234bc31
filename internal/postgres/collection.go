package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

type collection struct {
	name    string
	backend *Backend
}

// Insert stores a new document under a fresh UUID v7.
func (c *collection) Insert(ctx context.Context, fields map[string]any) (string, error) {
	db, err := c.backend.db()
	if err != nil {
		return "", err
	}
	body, err := encodeBody(fields)
	if err != nil {
		return "", err
	}

	id := newUUID()
	if _, err := db.Exec(ctx,
		`INSERT INTO documents (collection, doc_id, body) VALUES ($1, $2, $3::jsonb)`,
		c.name, id, body); err != nil {
		return "", fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return id, nil
}

// Get retrieves a document by ID.
func (c *collection) Get(ctx context.Context, id string) (types.Document, error) {
	if id == "" {
		return types.Document{}, types.ErrInvalidID
	}
	db, err := c.backend.db()
	if err != nil {
		return types.Document{}, err
	}

	var body string
	err = db.QueryRow(ctx,
		`SELECT body::text FROM documents WHERE collection = $1 AND doc_id = $2`,
		c.name, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Document{}, types.ErrNotFound
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("get %s from %s: %w", id, c.name, err)
	}

	fields, err := decodeBody(body)
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{ID: id, Fields: fields}, nil
}

// Update merges fields into the stored body with the JSONB || operator.
func (c *collection) Update(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := c.backend.db()
	if err != nil {
		return err
	}
	body, err := encodeBody(fields)
	if err != nil {
		return err
	}

	tag, err := db.Exec(ctx,
		`UPDATE documents SET body = body || $3::jsonb WHERE collection = $1 AND doc_id = $2`,
		c.name, id, body)
	if err != nil {
		return fmt.Errorf("update %s in %s: %w", id, c.name, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Delete removes a document. A missing document is not an error.
func (c *collection) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := c.backend.db()
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND doc_id = $2`,
		c.name, id); err != nil {
		return fmt.Errorf("delete %s from %s: %w", id, c.name, err)
	}
	return nil
}

// Query returns the documents matching every predicate.
func (c *collection) Query(ctx context.Context, q types.Query) ([]types.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	db, err := c.backend.db()
	if err != nil {
		return nil, err
	}

	query, args := buildQuery(c.name, q)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.name, err)
	}
	defer rows.Close()

	docs := []types.Document{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", c.name, err)
		}
		fields, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, types.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", c.name, err)
	}
	return docs, nil
}

var pgOps = map[string]string{
	types.OpEqual:          "=",
	types.OpGreaterOrEqual: ">=",
	types.OpLessOrEqual:    "<=",
}

// buildQuery renders a validated Query. Field names have passed
// ValidateFieldName and are safe to embed as JSON keys.
func buildQuery(collection string, q types.Query) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT doc_id, body::text FROM documents WHERE collection = $1`)
	args := []any{collection}

	for _, p := range q.Where {
		args = append(args, p.Value)
		fmt.Fprintf(&sb, ` AND (body->>'%s') COLLATE "C" %s $%s`, p.Field, pgOps[p.Op], strconv.Itoa(len(args)))
	}

	if rf := q.RangeField(); rf != "" {
		fmt.Fprintf(&sb, ` ORDER BY (body->>'%s') COLLATE "C", doc_id`, rf)
	} else {
		sb.WriteString(` ORDER BY doc_id`)
	}
	return sb.String(), args
}

// encodeBody marshals fields without the reserved id key.
func encodeBody(fields map[string]any) (string, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != types.FieldID {
			out[k] = v
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	return string(b), nil
}

func decodeBody(body string) (map[string]any, error) {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("parse document body: %w", err)
	}
	return fields, nil
}
