// Package hit reconciles engine hits with persisted records.
package hit

import "slices"

// Hit is one row of the engine response.
type Hit struct {
	ID    string
	Score float64
}

// Scored is a record with the relevance score of its hit.
type Scored[T any] struct {
	Record T
	Score  float64
}

type rank struct {
	score float64
	pos   int
}

type ranked[T any] struct {
	item Scored[T]
	pos  int
}

// IDs plucks hit ids in engine order, dropping repeats.
func IDs(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.ID]; ok {
			continue
		}
		seen[h.ID] = struct{}{}
		out = append(out, h.ID)
	}
	return out
}

// Hydrate attaches to every record the score of the first hit with the same
// id (0 when there is none) and orders the records by score, highest first.
// Equal scores keep the engine order; records without a hit keep their input
// order. The output has exactly one entry per record.
func Hydrate[T any](hits []Hit, records []T, idOf func(T) string) []Scored[T] {
	first := make(map[string]rank, len(hits))
	for i, h := range hits {
		if _, ok := first[h.ID]; !ok {
			first[h.ID] = rank{score: h.Score, pos: i}
		}
	}

	rs := make([]ranked[T], len(records))
	for i, rec := range records {
		r, ok := first[idOf(rec)]
		if !ok {
			r = rank{pos: len(hits)}
		}
		rs[i] = ranked[T]{item: Scored[T]{Record: rec, Score: r.score}, pos: r.pos}
	}

	slices.SortStableFunc(rs, func(a, b ranked[T]) int {
		switch {
		case a.item.Score > b.item.Score:
			return -1
		case a.item.Score < b.item.Score:
			return 1
		}
		return a.pos - b.pos
	})

	out := make([]Scored[T], len(rs))
	for i, r := range rs {
		out[i] = r.item
	}
	return out
}
