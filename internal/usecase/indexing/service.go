package indexing

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/searchable/internal/domain"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/logger"
	"github.com/kailas-cloud/searchable/internal/metrics"
)

// Defaults for Reindex.
const (
	DefaultWorkers   = 4
	DefaultBatchSize = 100
)

// Service keeps the index in sync with record lifecycle events.
// Writes are synchronous and best effort: a failed write is reported to the
// caller and never rolled back on the record side.
type Service struct {
	docs      Documents
	records   RecordSource
	workers   int
	batchSize int
}

// New creates an indexing service. records may be nil when Reindex is not used.
func New(docs Documents, records RecordSource) *Service {
	return &Service{
		docs:      docs,
		records:   records,
		workers:   DefaultWorkers,
		batchSize: DefaultBatchSize,
	}
}

// WithReindex configures reindex concurrency and batch size.
func (s *Service) WithReindex(workers, batchSize int) *Service {
	if workers > 0 {
		s.workers = workers
	}
	if batchSize > 0 {
		s.batchSize = batchSize
	}
	return s
}

// Created indexes a freshly persisted record when the entity indexes on create.
func (s *Service) Created(ctx context.Context, e entity.Entity, doc domain.Indexable) error {
	h := e.Hooks()
	if !h.Enabled || !h.OnCreate {
		return nil
	}
	return s.index(ctx, e, "create", doc)
}

// Updated re-indexes a record when the entity indexes on update.
func (s *Service) Updated(ctx context.Context, e entity.Entity, doc domain.Indexable) error {
	h := e.Hooks()
	if !h.Enabled || !h.OnUpdate {
		return nil
	}
	return s.index(ctx, e, "update", doc)
}

// Deleted removes a record's document when the entity indexes on delete.
func (s *Service) Deleted(ctx context.Context, e entity.Entity, id string) error {
	h := e.Hooks()
	if !h.Enabled || !h.OnDelete {
		return nil
	}
	err := s.docs.Delete(ctx, e, id)
	observe(e, "delete", err)
	if err != nil {
		logger.ForEntity(ctx, e.Name()).Warn("Index delete failed",
			zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Purge removes every document of the entity type from the index.
func (s *Service) Purge(ctx context.Context, e entity.Entity) error {
	err := s.docs.DeleteAll(ctx, e)
	observe(e, "purge", err)
	if err != nil {
		return fmt.Errorf("purge %s: %w", e.Name(), err)
	}
	logger.ForEntity(ctx, e.Name()).Info("Index purged",
		zap.String("index", e.IndexName()),
		zap.String("type", e.TypeName()),
	)
	return nil
}

// Reindex writes every stored record of the entity to the index and returns
// the number of documents written. Batches run concurrently; the first
// failure cancels the rest.
func (s *Service) Reindex(ctx context.Context, e entity.Entity) (int, error) {
	if s.records == nil {
		return 0, fmt.Errorf("reindex %s: no record source configured", e.Name())
	}
	ids, err := s.records.IDs(ctx, e.Name())
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for start := 0; start < len(ids); start += s.batchSize {
		batch := ids[start:min(start+s.batchSize, len(ids))]
		g.Go(func() error {
			recs, err := s.records.Find(gctx, e.Name(), batch)
			if err != nil {
				return fmt.Errorf("fetch batch at %d: %w", start, err)
			}
			for _, rec := range recs {
				if err := s.index(gctx, e, "reindex", rec); err != nil {
					return err
				}
				written.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(written.Load()), fmt.Errorf("reindex %s: %w", e.Name(), err)
	}

	logger.ForEntity(ctx, e.Name()).Info("Reindex completed",
		zap.Int("records", len(ids)),
		zap.Int64("written", written.Load()),
	)
	return int(written.Load()), nil
}

func (s *Service) index(ctx context.Context, e entity.Entity, op string, doc domain.Indexable) error {
	err := s.docs.Index(ctx, e, doc.ID(), doc.Attributes())
	observe(e, op, err)
	if err != nil {
		logger.ForEntity(ctx, e.Name()).Warn("Index write failed",
			zap.String("op", op),
			zap.String("id", doc.ID()),
			zap.Error(err),
		)
		return fmt.Errorf("index document %s: %w", doc.ID(), err)
	}
	return nil
}

func observe(e entity.Entity, op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.IndexOperationsTotal.WithLabelValues(e.Name(), op, status).Inc()
}
