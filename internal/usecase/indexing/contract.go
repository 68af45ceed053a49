package indexing

import (
	"context"

	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/record"
)

// Documents writes index documents of an entity.
type Documents interface {
	Index(ctx context.Context, e entity.Entity, id string, attrs map[string]any) error
	Delete(ctx context.Context, e entity.Entity, id string) error
	DeleteAll(ctx context.Context, e entity.Entity) error
}

// RecordSource streams stored records for a full rebuild.
type RecordSource interface {
	IDs(ctx context.Context, typ string) ([]string, error)
	Find(ctx context.Context, typ string, ids []string) ([]record.Record, error)
}
