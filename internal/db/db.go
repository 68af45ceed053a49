package db

import (
	"context"
	"time"
)

// Engine is the index engine facade combining all sub-interfaces.
type Engine interface {
	Pinger
	Searcher
	Writer
	Close() error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs queries against the index.
type Searcher interface {
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
}

// Writer keeps indexed documents in sync with records.
type Writer interface {
	Index(ctx context.Context, req *IndexRequest) error
	Delete(ctx context.Context, index, typ, id string) error
	// DeleteAll drops every document of the type (mapping delete).
	DeleteAll(ctx context.Context, index, typ string) error
}

// RecordStore persists records as opaque JSON blobs grouped by type.
//
//nolint:interfacebloat // facade -- consumers use narrow interfaces
type RecordStore interface {
	Pinger
	Put(ctx context.Context, typ, id string, data []byte) error
	Get(ctx context.Context, typ, id string) ([]byte, error)
	// GetMulti returns the blobs found for ids, keyed by id. Missing ids are skipped.
	GetMulti(ctx context.Context, typ string, ids []string) (map[string][]byte, error)
	Delete(ctx context.Context, typ, id string) error
	List(ctx context.Context, typ string) ([]string, error)
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
