package accessor

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// reservedOnAdd are stripped from encoded entities before stamping.
var reservedOnAdd = []string{types.FieldID, types.FieldOwner, types.FieldCreatedAt, types.FieldUpdatedAt}

// decode converts a stored document into T through its JSON tags.
func decode[T types.Entity](doc types.Document) (T, error) {
	var v T
	obj := make(map[string]any, len(doc.Fields)+1)
	for k, val := range doc.Fields {
		obj[k] = val
	}
	obj[types.FieldID] = doc.ID

	b, err := json.Marshal(obj)
	if err != nil {
		return v, fmt.Errorf("encoding document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("decoding document %s: %w", doc.ID, err)
	}
	return v, nil
}

// encode converts an entity into a field map without reserved fields.
func encode[T types.Entity](v T) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("%w: entity must encode as an object", types.ErrInvalidData)
	}
	for _, k := range reservedOnAdd {
		delete(fields, k)
	}
	return fields, nil
}
