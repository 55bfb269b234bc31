package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// JSONL records are flat JSON objects: the document fields plus "id".

// encodeRecord renders a document as one JSONL record.
func encodeRecord(doc types.Document) (json.RawMessage, error) {
	obj := make(map[string]any, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		obj[k] = v
	}
	obj[types.FieldID] = doc.ID
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding document %s: %w", doc.ID, err)
	}
	return b, nil
}

// decodeRecord parses a JSONL record. Records without a string id are
// rejected with ErrInvalidID.
func decodeRecord(rec json.RawMessage) (types.Document, error) {
	var obj map[string]any
	if err := json.Unmarshal(rec, &obj); err != nil {
		return types.Document{}, fmt.Errorf("decoding record: %w", err)
	}
	id, ok := obj[types.FieldID].(string)
	if !ok || id == "" {
		return types.Document{}, types.ErrInvalidID
	}
	delete(obj, types.FieldID)
	return types.Document{ID: id, Fields: obj}, nil
}

// encodeBody marshals document fields for the body column.
func encodeBody(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	return string(b), nil
}

// decodeBody parses the body column into a field map.
func decodeBody(body string) (map[string]any, error) {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("parsing document body: %w", err)
	}
	return fields, nil
}
