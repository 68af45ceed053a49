// Package field describes the searchable attributes of an entity type.
package field

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is an immutable value object: one searchable attribute and its weight.
type Spec struct {
	name   string
	title  string
	weight *float64
}

// New validates and creates a Spec. Empty title defaults to name; dots in the
// title are replaced with underscores since the index stores flat keys.
func New(name, title string, weight *float64) (Spec, error) {
	if name == "" {
		return Spec{}, fmt.Errorf("field name is required")
	}
	if title == "" {
		title = name
	}
	if weight != nil && *weight < 0 {
		return Spec{}, fmt.Errorf("field %q: weight must not be negative, got %v", name, *weight)
	}
	s := Spec{name: name, title: strings.ReplaceAll(title, ".", "_")}
	if weight != nil {
		w := *weight
		s.weight = &w
	}
	return s, nil
}

// Named creates an unweighted Spec titled after its name.
func Named(name string) (Spec, error) {
	return New(name, "", nil)
}

// Weighted creates a Spec titled after its name with the given weight.
func Weighted(name string, weight float64) (Spec, error) {
	return New(name, "", &weight)
}

// Name returns the record attribute path (may be dotted).
func (s Spec) Name() string { return s.name }

// Title returns the index field name.
func (s Spec) Title() string { return s.title }

// Weight returns the field weight and whether it was set.
func (s Spec) Weight() (float64, bool) {
	if s.weight == nil {
		return 1, false
	}
	return *s.weight, true
}

// Ref returns the field reference used in queries: "title^weight" or "title".
func (s Spec) Ref() string {
	if s.weight == nil {
		return s.title
	}
	return s.title + "^" + strconv.FormatFloat(*s.weight, 'f', -1, 64)
}

// Refs returns Ref for every spec, in order.
func Refs(specs []Spec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Ref()
	}
	return out
}
