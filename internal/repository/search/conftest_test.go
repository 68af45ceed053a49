package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/searchable/internal/db"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error)
}

func (m *mockStore) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &db.SearchResponse{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testEntity(t *testing.T, size *int) entity.Entity {
	t.Helper()
	f, err := field.Named("title")
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	e, err := entity.New("article", []field.Spec{f}, entity.DefaultParams(), "", "", size, entity.AllHooks())
	if err != nil {
		t.Fatalf("entity: %v", err)
	}
	return e
}
