package record

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/kailas-cloud/searchable/internal/db"
)

// memStore is an in-memory store for repository tests.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte

	getErr error
	putErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, typ, id string, data []byte) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[typ+":"+id] = data
	return nil
}

func (m *memStore) Get(_ context.Context, typ, id string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[typ+":"+id]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) GetMulti(_ context.Context, typ string, ids []string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte)
	for _, id := range ids {
		if v, ok := m.data[typ+":"+id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, typ, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, typ+":"+id)
	return nil
}

func (m *memStore) List(_ context.Context, typ string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := typ + ":"
	var ids []string
	for k := range m.data {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			ids = append(ids, k[len(prefix):])
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func newTestRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(ms), ms
}
