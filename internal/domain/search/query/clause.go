// Package query builds the structured query tree sent to the index engine.
package query

import (
	"encoding/json"
	"fmt"
)

// Clause is a node of the query tree: *MultiMatch, *QueryString or *BoolShould.
// Source renders the Elasticsearch query DSL form of the node.
type Clause interface {
	Source() (any, error)
	clause()
}

// MultiMatch is a fuzzy match over several weighted fields.
type MultiMatch struct {
	Query         string
	Fields        []string
	Fuzziness     int
	PrefixLength  int
	MaxExpansions int
	Lenient       bool
	Boost         float64
}

// QueryString is a query_string clause. Optional parameters are omitted
// from the rendered query when nil.
type QueryString struct {
	Query     string
	Fields    []string
	Fuzziness *int
	Lenient   *bool
	Boost     *float64
}

// BoolShould matches when any of its clauses matches.
type BoolShould struct {
	Clauses []Clause
}

func (*MultiMatch) clause()  {}
func (*QueryString) clause() {}
func (*BoolShould) clause()  {}

// Source implements Clause.
func (q *MultiMatch) Source() (any, error) {
	fields := q.Fields
	if fields == nil {
		fields = []string{}
	}
	return map[string]any{
		"multi_match": map[string]any{
			"query":          q.Query,
			"fields":         fields,
			"fuzziness":      q.Fuzziness,
			"prefix_length":  q.PrefixLength,
			"max_expansions": q.MaxExpansions,
			"lenient":        q.Lenient,
			"boost":          q.Boost,
		},
	}, nil
}

// Source implements Clause.
func (q *QueryString) Source() (any, error) {
	body := map[string]any{"query": q.Query}
	if len(q.Fields) > 0 {
		body["fields"] = q.Fields
	}
	if q.Fuzziness != nil {
		body["fuzziness"] = *q.Fuzziness
	}
	if q.Lenient != nil {
		body["lenient"] = *q.Lenient
	}
	if q.Boost != nil {
		body["boost"] = *q.Boost
	}
	return map[string]any{"query_string": body}, nil
}

// Source implements Clause.
func (q *BoolShould) Source() (any, error) {
	should := make([]any, 0, len(q.Clauses))
	for i, c := range q.Clauses {
		src, err := c.Source()
		if err != nil {
			return nil, fmt.Errorf("should clause %d: %w", i, err)
		}
		should = append(should, src)
	}
	return map[string]any{
		"bool": map[string]any{"should": should},
	}, nil
}

// Marshal renders the clause as JSON.
func Marshal(c Clause) ([]byte, error) {
	src, err := c.Source()
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	return data, nil
}

// Count returns the number of leaf clauses in the tree.
func Count(c Clause) int {
	switch q := c.(type) {
	case *BoolShould:
		n := 0
		for _, sub := range q.Clauses {
			n += Count(sub)
		}
		return n
	case nil:
		return 0
	default:
		return 1
	}
}
