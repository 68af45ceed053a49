package searchable

import (
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

// IndexOption configures an Index.
type IndexOption func(*indexConfig)

type indexConfig struct {
	indexName  string
	typeName   string
	resultSize *int
	params     entity.Params
	hooks      entity.Hooks
	extra      []extraField
}

type extraField struct {
	path   string
	weight *float64
}

func defaultIndexConfig(index string) *indexConfig {
	return &indexConfig{
		indexName: index,
		params:    entity.DefaultParams(),
		hooks:     entity.AllHooks(),
	}
}

// WithIndexName stores the documents in the named engine index instead of
// the client default.
func WithIndexName(name string) IndexOption {
	return func(c *indexConfig) {
		c.indexName = name
	}
}

// WithTypeName overrides the document type, which defaults to the plural
// snake_case form of the index name ("BlogPost" -> "blog_posts").
func WithTypeName(name string) IndexOption {
	return func(c *indexConfig) {
		c.typeName = name
	}
}

// WithResultSize caps the number of hits a search returns.
// Without it the engine default applies.
func WithResultSize(n int) IndexOption {
	return func(c *indexConfig) {
		c.resultSize = &n
	}
}

// WithFuzziness sets the edit distance of fuzzy clauses. Default: 2.
func WithFuzziness(n int) IndexOption {
	return func(c *indexConfig) {
		c.params.Fuzziness = n
	}
}

// WithPrefixLength sets how many leading characters must match exactly.
// Default: 2.
func WithPrefixLength(n int) IndexOption {
	return func(c *indexConfig) {
		c.params.PrefixLength = n
	}
}

// WithMaxExpansions caps the terms a fuzzy clause expands to. Default: 100.
func WithMaxExpansions(n int) IndexOption {
	return func(c *indexConfig) {
		c.params.MaxExpansions = n
	}
}

// WithLenient toggles lenient parsing of field values. Default: true.
func WithLenient(lenient bool) IndexOption {
	return func(c *indexConfig) {
		c.params.Lenient = lenient
	}
}

// WithNestedField searches a dotted path into a nested struct or map
// attribute, e.g. "author.name". A weight of 0 or less leaves it unweighted.
func WithNestedField(path string, weight float64) IndexOption {
	return func(c *indexConfig) {
		ef := extraField{path: path}
		if weight > 0 {
			ef.weight = &weight
		}
		c.extra = append(c.extra, ef)
	}
}

// WithoutIndexing turns Save and Remove into no-ops. Purge and Search keep
// working; useful to pause writes during a bulk import.
func WithoutIndexing() IndexOption {
	return func(c *indexConfig) {
		c.hooks.Enabled = false
	}
}

func (c *indexConfig) fields(base []field.Spec) ([]field.Spec, error) {
	out := append([]field.Spec(nil), base...)
	for _, ef := range c.extra {
		spec, err := field.New(ef.path, "", ef.weight)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}
