package search

import (
	"context"

	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/record"
	"github.com/kailas-cloud/searchable/internal/domain/search/hit"
	"github.com/kailas-cloud/searchable/internal/domain/search/query"
)

// Executor runs a built query against the index engine.
type Executor interface {
	Execute(ctx context.Context, q query.Clause, e entity.Entity) ([]hit.Hit, error)
}

// RecordFetcher loads persisted records by id. The result order is not
// significant and unknown ids are skipped.
type RecordFetcher interface {
	Find(ctx context.Context, typ string, ids []string) ([]record.Record, error)
}

// Catalog lists the configured entities.
type Catalog interface {
	All() []entity.Entity
}
