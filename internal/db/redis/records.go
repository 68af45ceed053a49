package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchable/internal/db"
)

// key layout: <prefix><type>:<id>
func (s *Store) key(typ, id string) string {
	return s.prefix + typ + ":" + id
}

// Put stores a record blob.
func (s *Store) Put(ctx context.Context, typ, id string, data []byte) error {
	cmd := s.b().Set().Key(s.key(typ, id)).Value(rueidis.BinaryString(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Get returns a record blob or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, typ, id string) ([]byte, error) {
	cmd := s.b().Get().Key(s.key(typ, id)).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// GetMulti fetches many records at once. rueidis.MGet groups the keys by
// hash slot, so ids of one type may live on different cluster nodes.
func (s *Store) GetMulti(ctx context.Context, typ string, ids []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(typ, id)
	}

	msgs, err := rueidis.MGet(s.client, ctx, keys)
	if err != nil {
		return nil, &db.Error{Op: db.OpMGet, Err: err}
	}

	for i, key := range keys {
		m, ok := msgs[key]
		if !ok || m.IsNil() {
			continue
		}
		v, err := m.ToString()
		if err != nil {
			return nil, &db.Error{Op: db.OpMGet, Err: fmt.Errorf("key %s: %w", key, err)}
		}
		out[ids[i]] = []byte(v)
	}
	return out, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, typ, id string) error {
	cmd := s.b().Del().Key(s.key(typ, id)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// List returns the ids of every record of the type (SCAN, unordered).
func (s *Store) List(ctx context.Context, typ string) ([]string, error) {
	prefix := s.key(typ, "")
	pattern := escapeGlob(prefix) + "*"

	var ids []string
	var cursor uint64
	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		for _, k := range res.Elements {
			ids = append(ids, strings.TrimPrefix(k, prefix))
		}
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}

var globEscaper = strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `\`, `\\`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
