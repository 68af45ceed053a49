package config

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/searchable/internal/domain"
)

const minimal = `
records:
  driver: sqlite
  dsn: ":memory:"
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Engine.Driver != DriverElasticsearch {
		t.Errorf("engine.driver = %q", cfg.Engine.Driver)
	}
	if cfg.Engine.Index != "index" {
		t.Errorf("engine.index = %q, want index", cfg.Engine.Index)
	}
	if *cfg.Search.Fuzziness != 2 || *cfg.Search.PrefixLength != 2 || *cfg.Search.MaxExpansions != 100 {
		t.Errorf("search defaults = %d/%d/%d",
			*cfg.Search.Fuzziness, *cfg.Search.PrefixLength, *cfg.Search.MaxExpansions)
	}
	if !*cfg.Search.Lenient {
		t.Error("search.lenient should default to true")
	}
	if !*cfg.Indexing.Enabled || !*cfg.Indexing.OnCreate || !*cfg.Indexing.OnUpdate || !*cfg.Indexing.OnDelete {
		t.Error("indexing toggles should default to true")
	}
	if cfg.Records.KeyPrefix != "searchable:" {
		t.Errorf("records.key_prefix = %q", cfg.Records.KeyPrefix)
	}
}

func TestParse_HostsPipeSeparated(t *testing.T) {
	cfg, err := Parse([]byte(minimal + `
engine:
  hosts: "es1:9200|es2:9200| "
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Engine.Hosts) != 2 || cfg.Engine.Hosts[0] != "es1:9200" || cfg.Engine.Hosts[1] != "es2:9200" {
		t.Fatalf("hosts = %v", cfg.Engine.Hosts)
	}
}

func TestParse_HostsList(t *testing.T) {
	cfg, err := Parse([]byte(minimal + `
engine:
  hosts: [es1:9200, es2:9200]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Engine.Hosts) != 2 {
		t.Fatalf("hosts = %v", cfg.Engine.Hosts)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("SEARCHABLE_TEST_INDEX", "catalog")

	cfg, err := Parse([]byte(minimal + `
engine:
  index: ${SEARCHABLE_TEST_INDEX}
  path: ${SEARCHABLE_TEST_UNSET:-/tmp/idx}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Index != "catalog" {
		t.Errorf("engine.index = %q, want catalog", cfg.Engine.Index)
	}
	if cfg.Engine.Path != "/tmp/idx" {
		t.Errorf("engine.path = %q, want /tmp/idx", cfg.Engine.Path)
	}
}

func TestValidate_Drivers(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown engine", minimal + "engine:\n  driver: solr\n"},
		{"unknown records", "records:\n  driver: mongo\n"},
		{"redis without addrs", "records:\n  driver: redis\n"},
		{"sqlite without dsn", "records:\n  driver: sqlite\n"},
		{"bad port", minimal + "http:\n  port: 70000\n"},
		{"bad size", minimal + "entities:\n  post:\n    size: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCatalog_FieldForms(t *testing.T) {
	cfg, err := Parse([]byte(minimal + `
search:
  fuzziness: 1
entities:
  BlogPost:
    index: content
    fuzziness: 0
    size: 20
    fields:
      - name: title
        weight: 2
      - body
      - name: author.name
  category:
    type: cats
    fields:
      name: {weight: 3}
      meta.description: ~
      slug: {title: path}
  tag: {}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	post, err := cat.Get("BlogPost")
	if err != nil {
		t.Fatal(err)
	}
	if post.IndexName() != "content" || post.TypeName() != "blog_posts" {
		t.Errorf("post target = %s/%s", post.IndexName(), post.TypeName())
	}
	if post.Params().Fuzziness != 0 {
		t.Errorf("post fuzziness = %d, want entity override 0", post.Params().Fuzziness)
	}
	if size, ok := post.ResultSize(); !ok || size != 20 {
		t.Errorf("post size = %d (%v)", size, ok)
	}
	wantRefs := []string{"title^2", "body", "author_name"}
	for i, f := range post.Fields() {
		if f.Ref() != wantRefs[i] {
			t.Errorf("post field %d = %q, want %q", i, f.Ref(), wantRefs[i])
		}
	}

	category, err := cat.Get("category")
	if err != nil {
		t.Fatal(err)
	}
	if category.IndexName() != "index" || category.TypeName() != "cats" {
		t.Errorf("category target = %s/%s", category.IndexName(), category.TypeName())
	}
	if category.Params().Fuzziness != 1 {
		t.Errorf("category fuzziness = %d, want search default 1", category.Params().Fuzziness)
	}
	wantRefs = []string{"name^3", "meta_description", "path"}
	if len(category.Fields()) != len(wantRefs) {
		t.Fatalf("category fields = %d", len(category.Fields()))
	}
	for i, f := range category.Fields() {
		if f.Ref() != wantRefs[i] {
			t.Errorf("category field %d = %q, want %q", i, f.Ref(), wantRefs[i])
		}
	}

	tag, err := cat.Get("tag")
	if err != nil {
		t.Fatal(err)
	}
	if len(tag.Fields()) != 0 || tag.TypeName() != "tags" {
		t.Errorf("tag = %d fields, type %s", len(tag.Fields()), tag.TypeName())
	}
}

func TestCatalog_IndexingToggles(t *testing.T) {
	cfg, err := Parse([]byte(minimal + `
indexing:
  enabled: true
  on_delete: false
entities:
  post: {}
`))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	post, _ := cat.Get("post")
	h := post.Hooks()
	if !h.Enabled || !h.OnCreate || !h.OnUpdate || h.OnDelete {
		t.Fatalf("hooks = %+v", h)
	}
}

func TestParse_MalformedFields(t *testing.T) {
	tests := []struct {
		name   string
		fields string
	}{
		{"scalar", "fields: title"},
		{"nested list", "fields: [[title]]"},
		{"mapping without name", "fields: [{weight: 2}]"},
		{"bad weight", "fields: [{name: title, weight: heavy}]"},
		{"scalar map value", "fields: {title: 2}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(minimal + "entities:\n  post:\n    " + tt.fields + "\n"))
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestCatalog_NegativeWeight(t *testing.T) {
	cfg, err := Parse([]byte(minimal + "entities:\n  post:\n    fields: [{name: title, weight: -1}]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.Catalog(); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
