package types

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Collection provides owner-agnostic CRUD and query operations over the
// documents of one named collection. Owner scoping is the caller's concern;
// it is expressed as an equality predicate on FieldOwner.
type Collection interface {
	// Insert stores a new document and returns its generated UUID v7.
	Insert(ctx context.Context, fields map[string]any) (string, error)

	// Get retrieves the document with the given ID.
	// Returns ErrNotFound if no document exists with that ID.
	Get(ctx context.Context, id string) (Document, error)

	// Update merges fields into the existing document. Keys not present in
	// fields are left unchanged. Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Delete removes the document with the given ID. Deleting a document that
	// does not exist is not an error.
	Delete(ctx context.Context, id string) error

	// Query returns every document matching all predicates. Without a range
	// predicate documents come back in ID order; with one they are ordered by
	// the ranged field, then ID.
	Query(ctx context.Context, q Query) ([]Document, error)
}

// Document is a stored record: its ID and its JSON-compatible field values.
// The ID is never part of Fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Predicate operators.
const (
	OpEqual          = "=="
	OpGreaterOrEqual = ">="
	OpLessOrEqual    = "<="
)

// Predicate compares one document field against a string value. Comparison
// is byte-wise on the field's string form.
type Predicate struct {
	Field string
	Op    string
	Value string
}

// Query is a conjunction of predicates. At most one field may carry range
// predicates.
type Query struct {
	Where []Predicate
}

// Where builds an equality predicate.
func Where(field, value string) Predicate {
	return Predicate{Field: field, Op: OpEqual, Value: value}
}

// Collection and query errors.
var (
	ErrNotFound          = errors.New("document not found")
	ErrInvalidID         = errors.New("invalid document ID")
	ErrInvalidData       = errors.New("invalid document data")
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrInvalidFilter     = errors.New("invalid query predicate")
	ErrOwnerRequired     = errors.New("owner identity is required")
)

var (
	collectionNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	fieldNameRe      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidateCollectionName returns ErrInvalidCollection unless name is a
// lowercase identifier. Names end up in file names and SQL literals.
func ValidateCollectionName(name string) error {
	if !collectionNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// ValidateFieldName returns ErrInvalidFilter unless name is a plain identifier.
func ValidateFieldName(name string) error {
	if !fieldNameRe.MatchString(name) {
		return fmt.Errorf("%w: field %q", ErrInvalidFilter, name)
	}
	return nil
}

// Validate checks operators and field names and that range predicates
// target a single field.
func (q Query) Validate() error {
	rangeField := ""
	for _, p := range q.Where {
		if err := ValidateFieldName(p.Field); err != nil {
			return err
		}
		switch p.Op {
		case OpEqual:
		case OpGreaterOrEqual, OpLessOrEqual:
			if rangeField != "" && rangeField != p.Field {
				return fmt.Errorf("%w: range predicates on %q and %q", ErrInvalidFilter, rangeField, p.Field)
			}
			rangeField = p.Field
		default:
			return fmt.Errorf("%w: operator %q", ErrInvalidFilter, p.Op)
		}
	}
	return nil
}

// RangeField returns the field carrying range predicates, or "" if none.
func (q Query) RangeField() string {
	for _, p := range q.Where {
		if p.Op == OpGreaterOrEqual || p.Op == OpLessOrEqual {
			return p.Field
		}
	}
	return ""
}
