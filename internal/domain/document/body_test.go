package document

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

func specs(t *testing.T, names ...string) []field.Spec {
	t.Helper()
	out := make([]field.Spec, 0, len(names))
	for _, n := range names {
		s, err := field.Named(n)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	return out
}

func TestResolve(t *testing.T) {
	attrs := map[string]any{
		"title":       "Go",
		"meta.tag":    "verbatim",
		"meta":        map[string]any{"tag": "nested"},
		"author":      map[string]any{"name": "Ann", "bio": nil},
		"labels":      map[string]string{"lang": "en"},
		"count":       3,
		"description": nil,
	}
	tests := []struct {
		path string
		want any
	}{
		{"title", "Go"},
		{"meta.tag", "verbatim"},
		{"author.name", "Ann"},
		{"author.bio", nil},
		{"author.bio.text", nil},
		{"labels.lang", "en"},
		{"count.value", nil},
		{"missing", nil},
		{"description", nil},
	}
	for _, tt := range tests {
		if got := Resolve(attrs, tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestBody_Fields(t *testing.T) {
	attrs := map[string]any{
		"title":  "Hello",
		"author": map[string]any{"name": "Ann"},
		"secret": "dropped",
	}
	got := Body(specs(t, "title", "author.name", "summary"), attrs)
	want := map[string]any{"title": "Hello", "author_name": "Ann", "summary": nil}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Body = %v, want %v", got, want)
	}
}

func TestBody_NoFieldsCopiesAttributes(t *testing.T) {
	attrs := map[string]any{"a": 1, "b": "x"}
	got := Body(nil, attrs)
	if !reflect.DeepEqual(got, attrs) {
		t.Errorf("Body = %v", got)
	}
	got["a"] = 2
	if attrs["a"] != 1 {
		t.Error("Body shares the attribute map")
	}
}
