package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/searchable/internal/domain"
	domrec "github.com/kailas-cloud/searchable/internal/domain/record"
)

// Service handles record CRUD and forwards lifecycle events to the indexer.
// The record write happens first; index failures are returned after the
// record is already stored.
type Service struct {
	repo     Repository
	entities Catalog
	indexer  Indexer
}

// New creates a record service.
func New(repo Repository, entities Catalog, indexer Indexer) *Service {
	return &Service{repo: repo, entities: entities, indexer: indexer}
}

// Save stores attrs under id (a new UUID when id is empty) and indexes the
// record. Returns true if the record was created.
func (s *Service) Save(ctx context.Context, entityName, id string, attrs map[string]any) (domrec.Record, bool, error) {
	e, err := s.entities.Get(entityName)
	if err != nil {
		return domrec.Record{}, false, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	rec, err := domrec.New(id, attrs)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	created, err := s.repo.Save(ctx, e.Name(), rec)
	if err != nil {
		return domrec.Record{}, false, fmt.Errorf("save record: %w", err)
	}

	if created {
		err = s.indexer.Created(ctx, e, rec)
	} else {
		err = s.indexer.Updated(ctx, e, rec)
	}
	if err != nil {
		return rec, created, fmt.Errorf("index record: %w", err)
	}
	return rec, created, nil
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, entityName, id string) (domrec.Record, error) {
	e, err := s.entities.Get(entityName)
	if err != nil {
		return domrec.Record{}, err
	}
	rec, err := s.repo.Get(ctx, e.Name(), id)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Delete removes a record and its index document.
func (s *Service) Delete(ctx context.Context, entityName, id string) error {
	e, err := s.entities.Get(entityName)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, e.Name(), id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if err := s.indexer.Deleted(ctx, e, id); err != nil {
		return fmt.Errorf("unindex record: %w", err)
	}
	return nil
}
