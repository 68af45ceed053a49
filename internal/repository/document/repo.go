package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchable/internal/db"
	"github.com/kailas-cloud/searchable/internal/domain"
	domdoc "github.com/kailas-cloud/searchable/internal/domain/document"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
)

// store is the consumer interface for index writes (ISP).
type store interface {
	Index(ctx context.Context, req *db.IndexRequest) error
	Delete(ctx context.Context, index, typ, id string) error
	DeleteAll(ctx context.Context, index, typ string) error
}

// Repo implements usecase/indexing.Documents.
type Repo struct {
	store store
}

// New creates an index document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Index writes the document built from attrs under id.
func (r *Repo) Index(ctx context.Context, e entity.Entity, id string, attrs map[string]any) error {
	req := &db.IndexRequest{
		Index: e.IndexName(),
		Type:  e.TypeName(),
		ID:    id,
		Body:  domdoc.Body(e.Fields(), attrs),
	}
	if err := r.store.Index(ctx, req); err != nil {
		return fmt.Errorf("index %s/%s/%s: %w", req.Index, req.Type, id, mapError(err))
	}
	return nil
}

// Delete removes the document with id.
func (r *Repo) Delete(ctx context.Context, e entity.Entity, id string) error {
	if err := r.store.Delete(ctx, e.IndexName(), e.TypeName(), id); err != nil {
		return fmt.Errorf("delete %s/%s/%s: %w", e.IndexName(), e.TypeName(), id, mapError(err))
	}
	return nil
}

// DeleteAll removes every document of the entity type.
func (r *Repo) DeleteAll(ctx context.Context, e entity.Entity) error {
	if err := r.store.DeleteAll(ctx, e.IndexName(), e.TypeName()); err != nil {
		return fmt.Errorf("delete all %s/%s: %w", e.IndexName(), e.TypeName(), mapError(err))
	}
	return nil
}

func mapError(err error) error {
	if errors.Is(err, db.ErrRejected) {
		return fmt.Errorf("%w: %w", domain.ErrQueryRejected, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
}
