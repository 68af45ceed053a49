package searchable

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

const tagKey = "searchable"

// schemaMeta holds parsed struct tag metadata, cached per Index.
type schemaMeta struct {
	typ reflect.Type

	idIdx int

	// attrs are the tagged struct fields copied into the indexed attributes.
	attrs []attrMapping

	// fields are the searchable attributes in declaration order.
	fields []field.Spec
}

type attrMapping struct {
	structIdx int
	name      string
}

// parseSchema reflects on T and extracts searchable struct tag metadata.
//
// Tag format: `searchable:"name[,modifier...]"` where modifier is one of
//
//	id        the record identifier (not searched)
//	store     not searched itself; reachable by WithNestedField paths
//	weight=N  searched with weight N
//	title=X   stored in the index under X instead of name
//
// A tagged field without id or store is searched with the default weight.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("%w: type parameter is an interface", ErrInvalidSchema)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: type %s is not a struct", ErrInvalidSchema, t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" || !f.IsExported() {
			continue
		}
		if err := applyTag(meta, i, f.Name, tag); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("%w: no field with `searchable:\"...,id\"` tag in %s", ErrInvalidSchema, t)
	}
	switch t.Field(meta.idIdx).Type.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, fmt.Errorf("%w: id field %s must be a string or an integer", ErrInvalidSchema, t.Field(meta.idIdx).Name)
	}
	return meta, nil
}

// applyTag processes a single struct field's searchable tag.
func applyTag(meta *schemaMeta, idx int, fieldName, tag string) error {
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = fieldName
	}

	var (
		title  string
		weight *float64
		search = true
		isID   bool
		stored bool
	)
	for _, mod := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(mod), "=")
		switch key {
		case "id":
			isID = true
		case "store":
			stored = true
		case "weight":
			w, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("%w: field %s: bad weight %q", ErrInvalidSchema, fieldName, val)
			}
			weight = &w
		case "title":
			title = val
		default:
			return fmt.Errorf("%w: unknown modifier %q on field %s", ErrInvalidSchema, mod, fieldName)
		}
	}

	if isID {
		if meta.idIdx != -1 {
			return fmt.Errorf("%w: duplicate id tag on field %s", ErrInvalidSchema, fieldName)
		}
		if weight != nil {
			return fmt.Errorf("%w: id field %s cannot be weighted", ErrInvalidSchema, fieldName)
		}
		meta.idIdx = idx
		search = false
	}
	if stored {
		search = false
	}

	meta.attrs = append(meta.attrs, attrMapping{structIdx: idx, name: name})
	if !search {
		return nil
	}
	spec, err := field.New(name, title, weight)
	if err != nil {
		return fmt.Errorf("%w: field %s: %w", ErrInvalidSchema, fieldName, err)
	}
	meta.fields = append(meta.fields, spec)
	return nil
}

// id returns the identifier of item.
func (m *schemaMeta) id(item any) string {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	return fmt.Sprint(v.Field(m.idIdx).Interface())
}

// attributes converts a typed struct into the attribute map the document
// body is built from. Nested structs become nested maps so dotted field
// paths can reach them.
func (m *schemaMeta) attributes(item any) map[string]any {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	out := make(map[string]any, len(m.attrs))
	for _, a := range m.attrs {
		out[a.name] = plain(v.Field(a.structIdx))
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

// plain unwraps pointers and turns structs into maps keyed by their
// searchable tag names (or Go field names when untagged).
func plain(v reflect.Value) any {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || v.Type() == timeType {
		return v.Interface()
	}

	t := v.Type()
	out := make(map[string]any, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get(tagKey)
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		out[name] = plain(v.Field(i))
	}
	return out
}
