package searchable

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchable/internal/domain/search/hit"
	"github.com/kailas-cloud/searchable/internal/domain/search/query"
)

// Hit is a typed search result.
type Hit[T any] struct {
	Item  T
	Score float64
}

// Match is an engine hit before the item is loaded.
type Match struct {
	ID    string
	Score float64
}

// Fetcher loads the items with the given ids from the application's own
// storage. Order does not matter and unknown ids may be skipped.
type Fetcher[T any] func(ctx context.Context, ids []string) ([]T, error)

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *Index[T]

	query    string
	wildcard bool
	lenient  *bool
}

// Query sets the search text.
func (b *SearchBuilder[T]) Query(q string) *SearchBuilder[T] {
	b.query = q
	return b
}

// Wildcard wraps the text in '*' for substring matching.
func (b *SearchBuilder[T]) Wildcard() *SearchBuilder[T] {
	b.wildcard = true
	return b
}

// Lenient overrides the index lenient setting for this search.
func (b *SearchBuilder[T]) Lenient(lenient bool) *SearchBuilder[T] {
	b.lenient = &lenient
	return b
}

func (b *SearchBuilder[T]) options() query.Options {
	return query.Options{Wildcard: b.wildcard, Lenient: b.lenient}
}

// IDs executes the search and returns the hits in engine order without
// loading any items.
func (b *SearchBuilder[T]) IDs(ctx context.Context) (_ []Match, err error) {
	start := time.Now()
	defer func() { b.idx.client.obs.observe("search_ids", b.idx.Name(), start, err) }()

	hits, err := b.idx.search.Hits(b.idx.client.withLogger(ctx), b.query, b.options())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	out := make([]Match, len(hits))
	for i, h := range hits {
		out[i] = Match{ID: h.ID, Score: h.Score}
	}
	return out, nil
}

// Do executes the search, loads the hit items through fetch and returns them
// ordered by score, highest first. Items fetch returns without a matching
// hit are kept with score 0.
func (b *SearchBuilder[T]) Do(ctx context.Context, fetch Fetcher[T]) (_ []Hit[T], err error) {
	start := time.Now()
	defer func() { b.idx.client.obs.observe("search", b.idx.Name(), start, err) }()

	hits, err := b.idx.search.Hits(b.idx.client.withLogger(ctx), b.query, b.options())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(hits) == 0 {
		return []Hit[T]{}, nil
	}

	items, err := fetch(ctx, hit.IDs(hits))
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	idOf := func(item T) string { return b.idx.meta.id(item) }
	scored := hit.Hydrate(hits, items, idOf)
	out := make([]Hit[T], len(scored))
	for i, s := range scored {
		out[i] = Hit[T]{Item: s.Record, Score: s.Score}
	}
	return out, nil
}
