package searchable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchable/internal/domain/entity"
	domrec "github.com/kailas-cloud/searchable/internal/domain/record"
	"github.com/kailas-cloud/searchable/internal/domain/search/query"
	"github.com/kailas-cloud/searchable/internal/domain/search/variant"
	searchuc "github.com/kailas-cloud/searchable/internal/usecase/search"
)

// Index is a generic, schema-first handle on the documents of one record
// type. The schema is inferred from T's struct tags at construction time.
type Index[T any] struct {
	client *Client
	entity entity.Entity
	meta   *schemaMeta
	search *searchuc.Service
}

// NewIndex creates a typed index handle called name. T must be a struct
// with searchable tags. Schema is parsed once and cached.
func NewIndex[T any](client *Client, name string, opts ...IndexOption) (*Index[T], error) {
	if client == nil {
		return nil, errors.New("searchable: client is required")
	}
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}

	cfg := defaultIndexConfig(client.index)
	for _, o := range opts {
		o(cfg)
	}
	fields, err := cfg.fields(meta.fields)
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w: %w", name, ErrInvalidSchema, err)
	}

	e, err := entity.New(name, fields, cfg.params, cfg.indexName, cfg.typeName, cfg.resultSize, cfg.hooks)
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w: %w", name, ErrInvalidSchema, err)
	}

	return &Index[T]{
		client: client,
		entity: e,
		meta:   meta,
		search: searchuc.New(e, client.exec, nil),
	}, nil
}

// Name returns the index name.
func (idx *Index[T]) Name() string { return idx.entity.Name() }

// TypeName returns the engine document type.
func (idx *Index[T]) TypeName() string { return idx.entity.TypeName() }

// Save writes the searchable attributes of item to the engine, replacing
// any earlier version. Call it after the item was persisted.
func (idx *Index[T]) Save(ctx context.Context, item T) (err error) {
	start := time.Now()
	defer func() { idx.client.obs.observe("save", idx.Name(), start, err) }()

	rec, err := domrec.New(idx.meta.id(item), idx.meta.attributes(item))
	if err != nil {
		return fmt.Errorf("save: %w: %w", ErrValidation, err)
	}
	if err := idx.client.indexing.Updated(idx.client.withLogger(ctx), idx.entity, rec); err != nil {
		return fmt.Errorf("save %s: %w", rec.ID(), err)
	}
	return nil
}

// SaveAll saves items one by one and stops at the first failure.
func (idx *Index[T]) SaveAll(ctx context.Context, items []T) error {
	for i, item := range items {
		if err := idx.Save(ctx, item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// Remove deletes the document of id. Removing an unknown id is not an error.
func (idx *Index[T]) Remove(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { idx.client.obs.observe("remove", idx.Name(), start, err) }()

	if err := idx.client.indexing.Deleted(idx.client.withLogger(ctx), idx.entity, id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

// Purge deletes every document of the index type.
func (idx *Index[T]) Purge(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { idx.client.obs.observe("purge", idx.Name(), start, err) }()

	return idx.client.indexing.Purge(idx.client.withLogger(ctx), idx.entity)
}

// Variants returns the layout variants the text expands to, original first.
func (idx *Index[T]) Variants(text string, wildcard bool) []string {
	return variant.Texts(variant.Generate(query.Normalize(text, wildcard)))
}

// Explain renders the engine query a search for text would send.
func (idx *Index[T]) Explain(text string, wildcard bool) ([]byte, error) {
	q, _ := idx.search.Query(text, query.Options{Wildcard: wildcard})
	return query.Marshal(q)
}

// Search returns a fluent search builder for this index.
func (idx *Index[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx}
}
