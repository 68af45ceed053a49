package record

import (
	"context"

	"github.com/kailas-cloud/searchable/internal/domain"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	domrec "github.com/kailas-cloud/searchable/internal/domain/record"
)

// Repository defines the storage contract for records.
type Repository interface {
	Save(ctx context.Context, typ string, rec domrec.Record) (bool, error)
	Get(ctx context.Context, typ, id string) (domrec.Record, error)
	Delete(ctx context.Context, typ, id string) error
}

// Indexer receives the lifecycle events after a successful write.
type Indexer interface {
	Created(ctx context.Context, e entity.Entity, doc domain.Indexable) error
	Updated(ctx context.Context, e entity.Entity, doc domain.Indexable) error
	Deleted(ctx context.Context, e entity.Entity, id string) error
}

// Catalog resolves configured entities by name.
type Catalog interface {
	Get(name string) (entity.Entity, error)
}
