package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchable/internal/db"
	"github.com/kailas-cloud/searchable/internal/domain"
	"github.com/kailas-cloud/searchable/internal/domain/record"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	Put(ctx context.Context, typ, id string, data []byte) error
	Get(ctx context.Context, typ, id string) ([]byte, error)
	GetMulti(ctx context.Context, typ string, ids []string) (map[string][]byte, error)
	Delete(ctx context.Context, typ, id string) error
	List(ctx context.Context, typ string) ([]string, error)
}

// Repo implements usecase/record.Repository and the record fetcher of
// usecase/search.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save stores the record. Returns true if it did not exist before.
func (r *Repo) Save(ctx context.Context, typ string, rec record.Record) (bool, error) {
	data, err := json.Marshal(rec.Attributes())
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	_, err = r.store.Get(ctx, typ, rec.ID())
	created := errors.Is(err, db.ErrKeyNotFound)
	if err != nil && !created {
		return false, fmt.Errorf("get %s/%s: %w", typ, rec.ID(), err)
	}

	if err := r.store.Put(ctx, typ, rec.ID(), data); err != nil {
		return false, fmt.Errorf("put %s/%s: %w", typ, rec.ID(), err)
	}
	return created, nil
}

// Get returns a record by id.
func (r *Repo) Get(ctx context.Context, typ, id string) (record.Record, error) {
	raw, err := r.store.Get(ctx, typ, id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return record.Record{}, domain.ErrNotFound
		}
		return record.Record{}, fmt.Errorf("get %s/%s: %w", typ, id, err)
	}
	return decode(id, raw)
}

// Find returns the records with the given ids. Unknown ids are skipped; the
// order of the result is not significant.
func (r *Repo) Find(ctx context.Context, typ string, ids []string) ([]record.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	blobs, err := r.store.GetMulti(ctx, typ, ids)
	if err != nil {
		return nil, fmt.Errorf("get multi %s: %w", typ, err)
	}

	out := make([]record.Record, 0, len(blobs))
	for _, id := range ids {
		raw, ok := blobs[id]
		if !ok {
			continue
		}
		rec, err := decode(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
		delete(blobs, id)
	}
	return out, nil
}

// Delete removes a record.
func (r *Repo) Delete(ctx context.Context, typ, id string) error {
	if _, err := r.Get(ctx, typ, id); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, typ, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", typ, id, err)
	}
	return nil
}

// IDs lists the ids of every stored record of typ.
func (r *Repo) IDs(ctx context.Context, typ string) ([]string, error) {
	ids, err := r.store.List(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", typ, err)
	}
	return ids, nil
}

func decode(id string, raw []byte) (record.Record, error) {
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return record.Record{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return record.Reconstruct(id, attrs), nil
}
