package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/searchable/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{DSN: MemoryDSN})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "post", "1", []byte(`{"title":"Go"}`)))

	got, err := s.Get(ctx, "post", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Go"}`, string(got))
}

func TestStore_PutOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "post", "1", []byte("v1")))
	require.NoError(t, s.Put(ctx, "post", "1", []byte("v2")))

	got, err := s.Get(ctx, "post", "1")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "post", "nope")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestStore_TypesAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "post", "1", []byte("post")))
	require.NoError(t, s.Put(ctx, "category", "1", []byte("category")))

	got, err := s.Get(ctx, "category", "1")
	require.NoError(t, err)
	assert.Equal(t, "category", string(got))

	ids, err := s.List(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)
}

func TestStore_GetMulti(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "post", "1", []byte("one")))
	require.NoError(t, s.Put(ctx, "post", "3", []byte("three")))

	got, err := s.GetMulti(ctx, "post", []string{"3", "2", "1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "one", string(got["1"]))
	assert.Equal(t, "three", string(got["3"]))
}

func TestStore_GetMultiChunks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids := make([]string, 0, maxParams+10)
	for i := range maxParams + 10 {
		id := fmt.Sprintf("%04d", i)
		ids = append(ids, id)
		require.NoError(t, s.Put(ctx, "post", id, []byte(id)))
	}

	got, err := s.GetMulti(ctx, "post", ids)
	require.NoError(t, err)
	assert.Len(t, got, len(ids))
	assert.Equal(t, "0505", string(got["0505"]))
}

func TestStore_GetMultiEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetMulti(context.Background(), "post", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "post", "1", []byte("x")))
	require.NoError(t, s.Delete(ctx, "post", "1"))
	require.NoError(t, s.Delete(ctx, "post", "1"), "deleting twice is not an error")

	_, err := s.Get(ctx, "post", "1")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestStore_ListSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"b", "c", "a"} {
		require.NoError(t, s.Put(ctx, "post", id, []byte(id)))
	}

	ids, err := s.List(ctx, "post")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	empty, err := s.List(ctx, "category")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_FileReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "records.db")
	ctx := context.Background()

	s, err := NewStore(Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "post", "1", []byte("kept")))
	s.Close()

	reopened, err := NewStore(Config{DSN: dsn})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "post", "1")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestStore_PingAndReady(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.WaitForReady(context.Background(), time.Second))
}

func TestStore_ClosedPingFails(t *testing.T) {
	s, err := NewStore(Config{})
	require.NoError(t, err)
	s.Close()

	err = s.Ping(context.Background())
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpPing, dbErr.Op)
}
