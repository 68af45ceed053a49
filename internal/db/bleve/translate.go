package bleve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/searchable/internal/domain/search/query"
)

// maxFuzziness is the largest edit distance bleve accepts.
const maxFuzziness = 2

// bleveReserved are the characters bleve's query string syntax treats as
// operators. '*' is not among them so wildcard text keeps working.
const bleveReserved = `+-=&|><!(){}[]^"~?:\/`

// translate maps the clause tree onto bleve queries:
// multi_match becomes a disjunction of per-field match queries carrying the
// field weights, bool/should a disjunction, query_string a bleve query string
// over the composite field. lenient and max_expansions have no bleve
// counterpart and are dropped.
//
// Built clauses carry Elasticsearch escaping. It is undone and the text
// re-escaped for bleve, so "node\.js" searches for "node.js". A query_string
// without fields is raw user syntax and goes through untouched.
func translate(c query.Clause) (blevequery.Query, error) {
	switch q := c.(type) {
	case *query.MultiMatch:
		return multiMatch(q), nil
	case *query.QueryString:
		text := q.Query
		if len(q.Fields) > 0 {
			text = escapeBleve(query.Unescape(text))
		}
		qs := bleve.NewQueryStringQuery(text)
		if q.Boost != nil {
			qs.SetBoost(*q.Boost)
		}
		return qs, nil
	case *query.BoolShould:
		if len(q.Clauses) == 0 {
			return bleve.NewMatchNoneQuery(), nil
		}
		subs := make([]blevequery.Query, 0, len(q.Clauses))
		for i, sub := range q.Clauses {
			bq, err := translate(sub)
			if err != nil {
				return nil, fmt.Errorf("should clause %d: %w", i, err)
			}
			subs = append(subs, bq)
		}
		return bleve.NewDisjunctionQuery(subs...), nil
	default:
		return nil, fmt.Errorf("unsupported clause type %T", c)
	}
}

func multiMatch(q *query.MultiMatch) blevequery.Query {
	text := query.Unescape(q.Query)
	subs := make([]blevequery.Query, 0, len(q.Fields))
	for _, ref := range q.Fields {
		name, weight := splitRef(ref)
		m := bleve.NewMatchQuery(text)
		m.SetField(name)
		m.SetFuzziness(min(q.Fuzziness, maxFuzziness))
		m.SetPrefix(q.PrefixLength)
		m.SetBoost(weight)
		subs = append(subs, m)
	}
	d := bleve.NewDisjunctionQuery(subs...)
	d.SetBoost(q.Boost)
	return d
}

// splitRef parses "title^2" into ("title", 2); no suffix means weight 1.
func splitRef(ref string) (string, float64) {
	name, w, ok := strings.Cut(ref, "^")
	if !ok {
		return ref, 1
	}
	weight, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return name, 1
	}
	return name, weight
}

func escapeBleve(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(bleveReserved, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
