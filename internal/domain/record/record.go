// Package record holds the persisted record as seen by the search layer.
package record

import "fmt"

const maxIDLength = 256

// Record is an identified bag of attributes (immutable value object).
// Nested objects are map[string]any so dotted field paths can reach them.
type Record struct {
	id    string
	attrs map[string]any
}

// New validates and creates a Record.
func New(id string, attrs map[string]any) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record id is required")
	}
	if len(id) > maxIDLength {
		return Record{}, fmt.Errorf("record id too long (max %d)", maxIDLength)
	}
	return Reconstruct(id, attrs), nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id string, attrs map[string]any) Record {
	if attrs == nil {
		attrs = map[string]any{}
	}
	return Record{id: id, attrs: attrs}
}

// ID returns the record identifier.
func (r Record) ID() string { return r.id }

// Attributes returns the record attributes.
func (r Record) Attributes() map[string]any { return r.attrs }
