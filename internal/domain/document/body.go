package document

import (
	"strings"

	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

// Body builds the indexed document for a record. Every configured field is
// resolved against the attributes by its (possibly dotted) name and stored
// under its title; unresolvable paths are stored as nil. Without fields the
// attributes are indexed as they are.
func Body(fields []field.Spec, attrs map[string]any) map[string]any {
	if len(fields) == 0 {
		out := make(map[string]any, len(attrs))
		for k, v := range attrs {
			out[k] = v
		}
		return out
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if _, exists := out[f.Title()]; exists {
			continue
		}
		out[f.Title()] = Resolve(attrs, f.Name())
	}
	return out
}

// Resolve looks up path in attrs. A key containing dots is tried verbatim
// first, then segment by segment through nested maps.
func Resolve(attrs map[string]any, path string) any {
	if v, ok := attrs[path]; ok {
		return v
	}
	var cur any = attrs
	for _, seg := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil
		}
		v, ok := m[seg]
		if !ok || v == nil {
			return nil
		}
		cur = v
	}
	return cur
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}
