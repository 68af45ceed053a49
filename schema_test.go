package searchable

import (
	"errors"
	"testing"
	"time"
)

type author struct {
	Name  string `searchable:"name"`
	Email string
}

type post struct {
	ID        string    `searchable:"id,id"`
	Title     string    `searchable:"title,weight=2"`
	Body      string    `searchable:"body"`
	Author    *author   `searchable:"author,store"`
	Published time.Time `searchable:"published,store"`
	Draft     bool
	secret    string `searchable:"secret"` //nolint:unused
}

type numbered struct {
	ID    int64  `searchable:",id"`
	Label string `searchable:"label,title=name"`
}

func TestParseSchema_Fields(t *testing.T) {
	meta, err := parseSchema[post]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.idIdx != 0 {
		t.Errorf("idIdx = %d, want 0", meta.idIdx)
	}
	if len(meta.fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(meta.fields))
	}
	if meta.fields[0].Ref() != "title^2" {
		t.Errorf("fields[0] = %q, want title^2", meta.fields[0].Ref())
	}
	if meta.fields[1].Ref() != "body" {
		t.Errorf("fields[1] = %q, want body", meta.fields[1].Ref())
	}
	// id, title, body, author, published; untagged and unexported fields are skipped
	if len(meta.attrs) != 5 {
		t.Errorf("attrs = %d, want 5", len(meta.attrs))
	}
}

func TestParseSchema_IntIDAndTitle(t *testing.T) {
	meta, err := parseSchema[numbered]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := meta.id(numbered{ID: 42}); got != "42" {
		t.Errorf("id = %q, want 42", got)
	}
	if meta.fields[0].Title() != "name" || meta.fields[0].Name() != "label" {
		t.Errorf("field = %s/%s, want label/name", meta.fields[0].Name(), meta.fields[0].Title())
	}
}

func TestParseSchema_PointerType(t *testing.T) {
	if _, err := parseSchema[*post](); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseSchema_Errors(t *testing.T) {
	type noID struct {
		Title string `searchable:"title"`
	}
	type twoIDs struct {
		A string `searchable:"a,id"`
		B string `searchable:"b,id"`
	}
	type weightedID struct {
		A string `searchable:"a,id,weight=2"`
	}
	type floatID struct {
		A float64 `searchable:"a,id"`
	}
	type badWeight struct {
		ID string `searchable:"id,id"`
		T  string `searchable:"t,weight=heavy"`
	}
	type unknownMod struct {
		ID string `searchable:"id,id"`
		T  string `searchable:"t,vector"`
	}
	type negativeWeight struct {
		ID string `searchable:"id,id"`
		T  string `searchable:"t,weight=-1"`
	}

	tests := []struct {
		name  string
		parse func() error
	}{
		{"non-struct", func() error { _, err := parseSchema[int](); return err }},
		{"interface", func() error { _, err := parseSchema[any](); return err }},
		{"no id", func() error { _, err := parseSchema[noID](); return err }},
		{"two ids", func() error { _, err := parseSchema[twoIDs](); return err }},
		{"weighted id", func() error { _, err := parseSchema[weightedID](); return err }},
		{"float id", func() error { _, err := parseSchema[floatID](); return err }},
		{"bad weight", func() error { _, err := parseSchema[badWeight](); return err }},
		{"unknown modifier", func() error { _, err := parseSchema[unknownMod](); return err }},
		{"negative weight", func() error { _, err := parseSchema[negativeWeight](); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse()
			if !errors.Is(err, ErrInvalidSchema) {
				t.Errorf("err = %v, want ErrInvalidSchema", err)
			}
		})
	}
}

func TestAttributes(t *testing.T) {
	meta, err := parseSchema[post]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p := post{
		ID:        "7",
		Title:     "hello",
		Author:    &author{Name: "ann", Email: "a@example.com"},
		Published: ts,
	}

	attrs := meta.attributes(&p)
	if attrs["id"] != "7" || attrs["title"] != "hello" || attrs["body"] != "" {
		t.Errorf("attrs = %v", attrs)
	}
	nested, ok := attrs["author"].(map[string]any)
	if !ok {
		t.Fatalf("author = %T, want map", attrs["author"])
	}
	if nested["name"] != "ann" || nested["Email"] != "a@example.com" {
		t.Errorf("author = %v", nested)
	}
	if attrs["published"] != ts {
		t.Errorf("published = %v, want %v", attrs["published"], ts)
	}
	if _, ok := attrs["Draft"]; ok {
		t.Error("untagged field must not be an attribute")
	}
}

func TestAttributes_NilPointers(t *testing.T) {
	meta, err := parseSchema[post]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attrs := meta.attributes(&post{ID: "1"})
	if attrs["author"] != nil {
		t.Errorf("author = %v, want nil", attrs["author"])
	}
	var p *post
	if meta.attributes(p) != nil {
		t.Error("nil item must have no attributes")
	}
	if meta.id(p) != "" {
		t.Error("nil item must have no id")
	}
}
