package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchable/internal/domain"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/record"
	"github.com/kailas-cloud/searchable/internal/domain/search/hit"
	"github.com/kailas-cloud/searchable/internal/domain/search/query"
	"github.com/kailas-cloud/searchable/internal/domain/search/variant"
	"github.com/kailas-cloud/searchable/internal/logger"
	"github.com/kailas-cloud/searchable/internal/metrics"
)

// Result is a persisted record with the relevance score the engine gave it.
type Result = hit.Scored[record.Record]

// Service runs the search pipeline for one entity:
// normalize, variants, query, execute, fetch, hydrate.
type Service struct {
	entity  entity.Entity
	exec    Executor
	records RecordFetcher
}

// New creates the search service of e.
func New(e entity.Entity, exec Executor, records RecordFetcher) *Service {
	return &Service{entity: e, exec: exec, records: records}
}

// Entity returns the configuration the service searches with.
func (s *Service) Entity() entity.Entity { return s.entity }

// Query builds the engine query for text and reports how many layout
// variants went into it.
func (s *Service) Query(text string, opts query.Options) (query.Clause, int) {
	if len(s.entity.Fields()) == 0 {
		return query.Build(text, s.entity, opts), 1
	}
	vs := variant.Generate(query.Normalize(text, opts.Wildcard))
	return query.BuildVariants(vs, s.entity, opts), len(vs)
}

// Hits builds the query and executes it, returning hits in engine order.
func (s *Service) Hits(ctx context.Context, text string, opts query.Options) ([]hit.Hit, error) {
	log := logger.ForEntity(ctx, s.entity.Name())

	q, variants := s.Query(text, opts)
	metrics.SearchVariants.WithLabelValues(s.entity.Name()).Observe(float64(variants))
	log.Debug("Search query built",
		zap.Int("variants", variants),
		zap.Int("clauses", query.Count(q)),
		zap.Bool("wildcard", opts.Wildcard),
	)

	hits, err := s.exec.Execute(ctx, q, s.entity)
	if err != nil {
		kind := "unavailable"
		if errors.Is(err, domain.ErrQueryRejected) {
			kind = "rejected"
		}
		metrics.SearchErrorsTotal.WithLabelValues(s.entity.Name(), kind).Inc()
		log.Warn("Search execution failed", zap.Error(err))
		return nil, fmt.Errorf("execute search: %w", err)
	}
	metrics.SearchHits.WithLabelValues(s.entity.Name()).Observe(float64(len(hits)))
	return hits, nil
}

// Search runs the whole pipeline and returns the matching records ordered by
// score, highest first. Hits whose record no longer exists are dropped.
func (s *Service) Search(ctx context.Context, text string, opts query.Options) ([]Result, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues(s.entity.Name()).Observe(time.Since(start).Seconds())
	}()

	hits, err := s.Hits(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []Result{}, nil
	}

	recs, err := s.records.Find(ctx, s.entity.Name(), hit.IDs(hits))
	if err != nil {
		metrics.SearchErrorsTotal.WithLabelValues(s.entity.Name(), "fetch").Inc()
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	results := hit.Hydrate(hits, recs, record.Record.ID)
	logger.ForEntity(ctx, s.entity.Name()).Debug("Search completed",
		zap.Int("hits", len(hits)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

// Registry holds one Service per configured entity.
type Registry struct {
	services map[string]*Service
}

// NewRegistry builds a Service for every entity of the catalog.
func NewRegistry(c Catalog, exec Executor, records RecordFetcher) *Registry {
	r := &Registry{services: make(map[string]*Service)}
	for _, e := range c.All() {
		r.services[e.Name()] = New(e, exec, records)
	}
	return r
}

// Get returns the service of the named entity.
func (r *Registry) Get(name string) (*Service, error) {
	s, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, name)
	}
	return s, nil
}
