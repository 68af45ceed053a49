package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchable/internal/domain"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

// HostList accepts a YAML sequence of hosts or a single "|"-separated string
// (the form used in ELASTICSEARCH_HOSTS).
type HostList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *HostList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(value.Value, "|") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		*h = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := value.Decode(&out); err != nil {
			return fmt.Errorf("engine.hosts: %w", err)
		}
		*h = out
		return nil
	default:
		return fmt.Errorf("%w: engine.hosts must be a list or a string (line %d)", domain.ErrInvalidConfig, value.Line)
	}
}

// FieldConfig is one searchable field: the record attribute path, the index
// field title and an optional weight.
type FieldConfig struct {
	Name   string   `yaml:"name"`
	Title  string   `yaml:"title"`
	Weight *float64 `yaml:"weight"`
}

// FieldList accepts fields in any of the forms
//
//	fields: [title, body]
//	fields: [{name: title, weight: 2}, body]
//	fields: {title: {weight: 2}, author.name: {title: author}, body: ~}
//
// keeping the configured order.
type FieldList []FieldConfig

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FieldList) UnmarshalYAML(value *yaml.Node) error {
	var out []FieldConfig
	switch value.Kind {
	case yaml.SequenceNode:
		for i, item := range value.Content {
			fc, err := decodeFieldItem(item)
			if err != nil {
				return fmt.Errorf("%w: fields[%d] (line %d): %w", domain.ErrInvalidConfig, i, item.Line, err)
			}
			out = append(out, fc)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			fc, err := decodeFieldEntry(key.Value, val)
			if err != nil {
				return fmt.Errorf("%w: fields.%s (line %d): %w", domain.ErrInvalidConfig, key.Value, val.Line, err)
			}
			out = append(out, fc)
		}
	case yaml.ScalarNode:
		if value.Tag != "!!null" {
			return fmt.Errorf("%w: fields must be a list or a mapping (line %d)", domain.ErrInvalidConfig, value.Line)
		}
	default:
		return fmt.Errorf("%w: fields must be a list or a mapping (line %d)", domain.ErrInvalidConfig, value.Line)
	}
	*f = out
	return nil
}

func decodeFieldItem(item *yaml.Node) (FieldConfig, error) {
	switch item.Kind {
	case yaml.ScalarNode:
		if item.Value == "" || item.Tag == "!!null" {
			return FieldConfig{}, fmt.Errorf("empty field name")
		}
		return FieldConfig{Name: item.Value}, nil
	case yaml.MappingNode:
		var fc FieldConfig
		if err := item.Decode(&fc); err != nil {
			return FieldConfig{}, err
		}
		if fc.Name == "" {
			return FieldConfig{}, fmt.Errorf("name is required")
		}
		return fc, nil
	default:
		return FieldConfig{}, fmt.Errorf("expected a name or a {name, title, weight} mapping")
	}
}

func decodeFieldEntry(name string, val *yaml.Node) (FieldConfig, error) {
	if name == "" {
		return FieldConfig{}, fmt.Errorf("empty field name")
	}
	switch {
	case val.Kind == yaml.ScalarNode && val.Tag == "!!null":
		return FieldConfig{Name: name}, nil
	case val.Kind == yaml.MappingNode:
		var fc FieldConfig
		if err := val.Decode(&fc); err != nil {
			return FieldConfig{}, err
		}
		fc.Name = name
		return fc, nil
	default:
		return FieldConfig{}, fmt.Errorf("expected a {title, weight} mapping or null")
	}
}

// Catalog resolves every configured entity into its search configuration.
// Malformed entries are reported as domain.ErrInvalidConfig.
func (c *Config) Catalog() (*entity.Catalog, error) {
	names := make([]string, 0, len(c.Entities))
	for name := range c.Entities {
		names = append(names, name)
	}
	sort.Strings(names)

	entities := make([]entity.Entity, 0, len(names))
	for _, name := range names {
		e, err := c.resolveEntity(name, c.Entities[name])
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entity.NewCatalog(entities...)
}

func (c *Config) resolveEntity(name string, ec EntityConfig) (entity.Entity, error) {
	specs := make([]field.Spec, 0, len(ec.Fields))
	for _, fc := range ec.Fields {
		s, err := field.New(fc.Name, fc.Title, fc.Weight)
		if err != nil {
			return entity.Entity{}, fmt.Errorf("%w: entities.%s: %w", domain.ErrInvalidConfig, name, err)
		}
		specs = append(specs, s)
	}

	params := entity.Params{
		Fuzziness:     pick(ec.Fuzziness, c.Search.Fuzziness, entity.DefaultFuzziness),
		PrefixLength:  pick(ec.PrefixLength, c.Search.PrefixLength, entity.DefaultPrefixLength),
		MaxExpansions: pick(ec.MaxExpansions, c.Search.MaxExpansions, entity.DefaultMaxExpansions),
		Lenient:       pick(ec.Lenient, c.Search.Lenient, true),
	}

	index := ec.Index
	if index == "" {
		index = c.Engine.Index
	}

	hooks := entity.Hooks{
		Enabled:  pick(nil, c.Indexing.Enabled, true),
		OnCreate: pick(nil, c.Indexing.OnCreate, true),
		OnUpdate: pick(nil, c.Indexing.OnUpdate, true),
		OnDelete: pick(nil, c.Indexing.OnDelete, true),
	}

	e, err := entity.New(name, specs, params, index, ec.Type, ec.Size, hooks)
	if err != nil {
		return entity.Entity{}, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return e, nil
}

// pick returns the first non-nil value, or def.
func pick[T any](override, fallback *T, def T) T {
	if override != nil {
		return *override
	}
	if fallback != nil {
		return *fallback
	}
	return def
}
