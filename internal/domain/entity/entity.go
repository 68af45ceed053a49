// Package entity holds the resolved search configuration of one entity type.
package entity

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

// Defaults mirror the engine-side fuzzy matching settings used when an entity
// does not override them.
const (
	DefaultFuzziness     = 2
	DefaultPrefixLength  = 2
	DefaultMaxExpansions = 100
	DefaultIndex         = "index"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Hooks toggles which record lifecycle events write to the index.
type Hooks struct {
	Enabled  bool
	OnCreate bool
	OnUpdate bool
	OnDelete bool
}

// AllHooks enables indexing on every lifecycle event.
func AllHooks() Hooks {
	return Hooks{Enabled: true, OnCreate: true, OnUpdate: true, OnDelete: true}
}

// Params are the fuzzy matching parameters passed through to the engine.
type Params struct {
	Fuzziness     int
	PrefixLength  int
	MaxExpansions int
	Lenient       bool
}

// DefaultParams returns the stock fuzzy matching parameters.
func DefaultParams() Params {
	return Params{
		Fuzziness:     DefaultFuzziness,
		PrefixLength:  DefaultPrefixLength,
		MaxExpansions: DefaultMaxExpansions,
		Lenient:       true,
	}
}

// Entity is the per-type search configuration (immutable value object).
// It is safe to share between concurrent searches.
type Entity struct {
	name       string
	fields     []field.Spec
	params     Params
	indexName  string
	typeName   string
	resultSize *int
	hooks      Hooks
}

// New validates and creates an Entity. Empty indexName falls back to
// DefaultIndex, empty typeName to the plural snake_case form of name.
func New(
	name string, fields []field.Spec, params Params,
	indexName, typeName string, resultSize *int, hooks Hooks,
) (Entity, error) {
	if name == "" {
		return Entity{}, fmt.Errorf("entity name is required")
	}
	if !nameRegex.MatchString(name) {
		return Entity{}, fmt.Errorf("entity name %q must be alphanumeric with underscores and hyphens", name)
	}
	if params.Fuzziness < 0 || params.PrefixLength < 0 || params.MaxExpansions < 0 {
		return Entity{}, fmt.Errorf("entity %q: fuzzy parameters must not be negative", name)
	}
	if resultSize != nil && *resultSize <= 0 {
		return Entity{}, fmt.Errorf("entity %q: result size must be positive, got %d", name, *resultSize)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Title()] {
			return Entity{}, fmt.Errorf("entity %q: duplicate field title %q", name, f.Title())
		}
		seen[f.Title()] = true
	}
	if indexName == "" {
		indexName = DefaultIndex
	}
	if typeName == "" {
		typeName = DefaultTypeName(name)
	}

	var size *int
	if resultSize != nil {
		s := *resultSize
		size = &s
	}
	return Entity{
		name:       name,
		fields:     append([]field.Spec(nil), fields...),
		params:     params,
		indexName:  indexName,
		typeName:   typeName,
		resultSize: size,
		hooks:      hooks,
	}, nil
}

// Name returns the entity name.
func (e Entity) Name() string { return e.name }

// Fields returns the searchable fields in configuration order.
func (e Entity) Fields() []field.Spec { return e.fields }

// Params returns the fuzzy matching parameters.
func (e Entity) Params() Params { return e.params }

// IndexName returns the engine index.
func (e Entity) IndexName() string { return e.indexName }

// TypeName returns the engine document type.
func (e Entity) TypeName() string { return e.typeName }

// ResultSize returns the requested hit count and whether it was set.
func (e Entity) ResultSize() (int, bool) {
	if e.resultSize == nil {
		return 0, false
	}
	return *e.resultSize, true
}

// Hooks returns the lifecycle indexing toggles.
func (e Entity) Hooks() Hooks { return e.hooks }

// DefaultTypeName converts an entity name to plural snake_case:
// "BlogPost" -> "blog_posts", "category" -> "categories".
func DefaultTypeName(name string) string {
	return pluralize(snakeCase(name))
}

func snakeCase(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == '-' || r == ' ' {
			sb.WriteByte('_')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' && runes[i-1] != '-' &&
				(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func pluralize(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "z"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	case strings.HasSuffix(s, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}
