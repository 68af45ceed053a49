package query

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/layout"
	"github.com/kailas-cloud/searchable/internal/domain/search/field"
	"github.com/kailas-cloud/searchable/internal/domain/search/variant"
)

// Boosts applied to the clauses of the original (untranslated) phrase.
// Translated variants get zero boost on both clause types.
const (
	OriginalFuzzyBoost  = 0.1
	OriginalStringBoost = 5.0

	// minFuzzyLen is the shortest escaped text, exclusive, that still gets a
	// fuzzy multi_match clause. Shorter variants expand to too many terms.
	minFuzzyLen = 5
)

// escaper backslash-escapes characters reserved by the query_string syntax.
var escaper = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `?`, `\?`, `|`, `\|`,
	`{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`,
	`(`, `\(`, `)`, `\)`, `"`, `\"`, `/`, `\/`,
)

var unescaper = strings.NewReplacer(
	`\\`, `\`, `\.`, `.`, `\?`, `?`, `\|`, `|`,
	`\{`, `{`, `\}`, `}`, `\[`, `[`, `\]`, `]`,
	`\(`, `(`, `\)`, `)`, `\"`, `"`, `\/`, `/`,
)

// Options are per-request switches.
type Options struct {
	// Wildcard wraps the text in '*' for substring matching.
	Wildcard bool
	// Lenient overrides the entity's lenient setting when non-nil.
	Lenient *bool
}

// Escape backslash-escapes . ? | { } [ ] ( ) " \ /
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// Normalize lower-cases text and, when wildcard is set, makes sure it starts
// and ends with '*'.
func Normalize(text string, wildcard bool) string {
	// Casers are stateful, one per call.
	text = cases.Lower(language.Und).String(text)
	if !wildcard || text == "" {
		return text
	}
	w := string(layout.Wildcard)
	if !strings.HasPrefix(text, w) {
		text = w + text
	}
	if !strings.HasSuffix(text, w) {
		text += w
	}
	return text
}

// Build turns raw search text into the query for the entity. Without
// configured fields the raw text goes to a single query_string clause;
// otherwise the normalized text is expanded into layout variants.
func Build(text string, e entity.Entity, opts Options) Clause {
	if len(e.Fields()) == 0 {
		return &QueryString{Query: text}
	}
	return BuildVariants(variant.Generate(Normalize(text, opts.Wildcard)), e, opts)
}

// BuildVariants combines the variants into a single bool/should query.
// The first variant is treated as the original phrase.
func BuildVariants(variants []variant.Variant, e entity.Entity, opts Options) Clause {
	if len(e.Fields()) == 0 {
		var text string
		if len(variants) > 0 {
			text = variants[0].Text
		}
		return &QueryString{Query: text}
	}

	p := e.Params()
	lenient := p.Lenient
	if opts.Lenient != nil {
		lenient = *opts.Lenient
	}
	refs := field.Refs(e.Fields())

	clauses := make([]Clause, 0, 2*len(variants))
	for i, v := range variants {
		text := Escape(v.Text)
		first := i == 0

		if utf8.RuneCountInString(text) > minFuzzyLen {
			mm := &MultiMatch{
				Query:         text,
				Fields:        refs,
				Fuzziness:     p.Fuzziness,
				PrefixLength:  p.PrefixLength,
				MaxExpansions: p.MaxExpansions,
				Lenient:       lenient,
			}
			if first {
				mm.Boost = OriginalFuzzyBoost
			}
			clauses = append(clauses, mm)
		}

		boost := 0.0
		if first {
			boost = OriginalStringBoost
		}
		fuzziness := p.Fuzziness
		clauses = append(clauses, &QueryString{
			Query:     text,
			Fields:    refs,
			Fuzziness: &fuzziness,
			Lenient:   &lenient,
			Boost:     &boost,
		})
	}
	return &BoolShould{Clauses: clauses}
}
