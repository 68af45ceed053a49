package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/searchable/internal/db"
	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/search/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexFn     func(ctx context.Context, req *db.IndexRequest) error
	deleteFn    func(ctx context.Context, index, typ, id string) error
	deleteAllFn func(ctx context.Context, index, typ string) error
}

func (m *mockStore) Index(ctx context.Context, req *db.IndexRequest) error {
	if m.indexFn != nil {
		return m.indexFn(ctx, req)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, index, typ, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, typ, id)
	}
	return nil
}

func (m *mockStore) DeleteAll(ctx context.Context, index, typ string) error {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx, index, typ)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func mustField(t *testing.T, name, title string, weight *float64) field.Spec {
	t.Helper()
	f, err := field.New(name, title, weight)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func testEntity(t *testing.T, fields ...field.Spec) entity.Entity {
	t.Helper()
	e, err := entity.New("BlogPost", fields, entity.DefaultParams(), "content", "", nil, entity.AllHooks())
	if err != nil {
		t.Fatalf("entity.New: %v", err)
	}
	return e
}
