package entity

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/searchable/internal/domain"
)

// Catalog is the read-only set of configured entities, keyed by name.
type Catalog struct {
	byName map[string]Entity
	names  []string
}

// NewCatalog indexes the entities by name; names must be unique.
func NewCatalog(entities ...Entity) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Entity, len(entities))}
	for _, e := range entities {
		if _, dup := c.byName[e.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate entity %q", domain.ErrInvalidConfig, e.Name())
		}
		c.byName[e.Name()] = e
		c.names = append(c.names, e.Name())
	}
	sort.Strings(c.names)
	return c, nil
}

// Get returns the entity called name.
func (c *Catalog) Get(name string) (Entity, error) {
	e, ok := c.byName[name]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, name)
	}
	return e, nil
}

// Names returns the entity names in sorted order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// All returns the entities sorted by name.
func (c *Catalog) All() []Entity {
	out := make([]Entity, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.byName[n])
	}
	return out
}
