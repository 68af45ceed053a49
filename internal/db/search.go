package db

import "github.com/kailas-cloud/searchable/internal/domain/search/query"

// SearchRequest is the input of a search: {index, type, size, query}.
type SearchRequest struct {
	Index string
	Type  string
	Size  *int // nil: engine default
	Query query.Clause
}

// SearchResponse is the output of a search operation.
type SearchResponse struct {
	Total int64
	Hits  []SearchHit
}

// SearchHit is a single document hit, in engine order.
type SearchHit struct {
	ID    string
	Score float64
}

// IndexRequest writes one document: {index, type, id, body}.
type IndexRequest struct {
	Index string
	Type  string
	ID    string
	Body  map[string]any
}
