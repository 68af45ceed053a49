package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchable/internal/db"
	"github.com/kailas-cloud/searchable/internal/domain"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/search/hit"
	"github.com/kailas-cloud/searchable/internal/domain/search/query"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error)
}

// Repo implements usecase/search.Executor.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Execute sends the query to {index, type} of the entity and returns the
// hits in engine order. Size is set only when the entity configures one.
func (r *Repo) Execute(ctx context.Context, q query.Clause, e entity.Entity) ([]hit.Hit, error) {
	req := &db.SearchRequest{
		Index: e.IndexName(),
		Type:  e.TypeName(),
		Query: q,
	}
	if size, ok := e.ResultSize(); ok {
		req.Size = &size
	}

	resp, err := r.store.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %s/%s: %w", req.Index, req.Type, mapError(err))
	}
	if resp == nil || len(resp.Hits) == 0 {
		return nil, nil
	}

	hits := make([]hit.Hit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		hits = append(hits, hit.Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// mapError tags engine failures with the matching domain error. Anything
// that is not a rejection counts as the engine being unavailable.
func mapError(err error) error {
	if errors.Is(err, db.ErrRejected) {
		return fmt.Errorf("%w: %w", domain.ErrQueryRejected, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
}
