// Package bleve implements db.Engine on embedded bleve indexes, one per
// {index, type} pair. Used for local development, tests and single-node
// deployments that do not run Elasticsearch.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/searchable/internal/db"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

var errClosed = errors.New("engine closed")

// Config selects in-memory (empty Path) or on-disk indexes under Path.
type Config struct {
	Path string
}

// Engine owns the bleve indexes. Indexes are opened lazily on first write.
type Engine struct {
	path string

	mu      sync.RWMutex
	indexes map[string]bleve.Index
	closed  bool
}

// NewEngine creates the engine; nothing is opened until first use.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
	}
	return &Engine{path: cfg.Path, indexes: make(map[string]bleve.Index)}, nil
}

func key(index, typ string) string {
	return index + "/" + typ
}

func (e *Engine) dir(index, typ string) string {
	return filepath.Join(e.path, index, typ)
}

func newMapping() *mapping.IndexMappingImpl {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = "standard"
	return m
}

// lookup returns the open index or nil when none exists yet.
func (e *Engine) lookup(index, typ string) (bleve.Index, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, errClosed
	}
	return e.indexes[key(index, typ)], nil
}

// open returns the index, opening or creating it when needed.
func (e *Engine) open(index, typ string) (bleve.Index, error) {
	if idx, err := e.lookup(index, typ); err != nil || idx != nil {
		return idx, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, errClosed
	}
	k := key(index, typ)
	if idx, ok := e.indexes[k]; ok {
		return idx, nil
	}

	var idx bleve.Index
	var err error
	if e.path == "" {
		idx, err = bleve.NewMemOnly(newMapping())
	} else {
		dir := e.dir(index, typ)
		idx, err = bleve.Open(dir)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			if mkErr := os.MkdirAll(filepath.Dir(dir), 0o750); mkErr != nil {
				return nil, fmt.Errorf("create index dir: %w", mkErr)
			}
			idx, err = bleve.New(dir, newMapping())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", k, err)
	}
	e.indexes[k] = idx
	return idx, nil
}

// existing opens an on-disk index that was created earlier, without creating one.
func (e *Engine) existing(index, typ string) (bleve.Index, error) {
	idx, err := e.lookup(index, typ)
	if err != nil || idx != nil {
		return idx, err
	}
	if e.path == "" {
		return nil, nil
	}
	if _, statErr := os.Stat(e.dir(index, typ)); statErr != nil {
		return nil, nil //nolint:nilerr // never written
	}
	return e.open(index, typ)
}

// Ping reports whether the engine is still open.
func (e *Engine) Ping(_ context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return db.Unavailable(db.OpPing, errClosed)
	}
	return nil
}

// Search translates the clause tree and searches {index, type}. A type that
// was never written has no documents and yields an empty response.
func (e *Engine) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error) {
	if req.Query == nil {
		return nil, db.Rejected(db.OpSearch, errors.New("query is required"))
	}
	q, err := translate(req.Query)
	if err != nil {
		return nil, db.Rejected(db.OpSearch, err)
	}

	idx, err := e.existing(req.Index, req.Type)
	if err != nil {
		return nil, db.Unavailable(db.OpSearch, err)
	}
	if idx == nil {
		return &db.SearchResponse{}, nil
	}

	sr := bleve.NewSearchRequest(q)
	if req.Size != nil {
		sr.Size = *req.Size
	}

	res, err := idx.SearchInContext(ctx, sr)
	if err != nil {
		if ctx.Err() != nil {
			return nil, db.Unavailable(db.OpSearch, err)
		}
		return nil, db.Rejected(db.OpSearch, err)
	}

	out := &db.SearchResponse{
		Total: int64(res.Total), //nolint:gosec // hit counts fit
		Hits:  make([]db.SearchHit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		out.Hits = append(out.Hits, db.SearchHit{ID: h.ID, Score: h.Score})
	}
	return out, nil
}

// Index writes the document; nil attributes are left out.
func (e *Engine) Index(ctx context.Context, req *db.IndexRequest) error {
	if err := ctx.Err(); err != nil {
		return db.Unavailable(db.OpIndex, err)
	}
	idx, err := e.open(req.Index, req.Type)
	if err != nil {
		return db.Unavailable(db.OpIndex, err)
	}
	body := make(map[string]any, len(req.Body))
	for k, v := range req.Body {
		if v != nil {
			body[k] = v
		}
	}
	if err := idx.Index(req.ID, body); err != nil {
		return db.Unavailable(db.OpIndex, err)
	}
	return nil
}

// Delete removes a document. Missing documents and types are not an error.
func (e *Engine) Delete(ctx context.Context, index, typ, id string) error {
	if err := ctx.Err(); err != nil {
		return db.Unavailable(db.OpDelete, err)
	}
	idx, err := e.existing(index, typ)
	if err != nil {
		return db.Unavailable(db.OpDelete, err)
	}
	if idx == nil {
		return nil
	}
	if err := idx.Delete(id); err != nil {
		return db.Unavailable(db.OpDelete, err)
	}
	return nil
}

// DeleteAll drops the whole {index, type} index.
func (e *Engine) DeleteAll(ctx context.Context, index, typ string) error {
	if err := ctx.Err(); err != nil {
		return db.Unavailable(db.OpDeleteAll, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return db.Unavailable(db.OpDeleteAll, errClosed)
	}

	k := key(index, typ)
	if idx, ok := e.indexes[k]; ok {
		delete(e.indexes, k)
		if err := idx.Close(); err != nil {
			return db.Unavailable(db.OpDeleteAll, err)
		}
	}
	if e.path != "" {
		if err := os.RemoveAll(e.dir(index, typ)); err != nil {
			return db.Unavailable(db.OpDeleteAll, err)
		}
	}
	return nil
}

// Close closes every open index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for k, idx := range e.indexes {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", k, err))
		}
	}
	e.indexes = nil
	return errors.Join(errs...)
}
