// Package variant expands a search phrase into keyboard-layout rewrites.
package variant

import (
	"strings"

	"github.com/kailas-cloud/searchable/internal/domain/layout"
)

// maxWords caps the subset enumeration; longer phrases only get rewrites
// for their first maxWords words. 2^9 variants at two clauses each is the
// Elasticsearch default max_clause_count of 1024.
const maxWords = 9

// Variant is one rendering of the search phrase.
type Variant struct {
	Text       string
	IsOriginal bool
}

// Generate returns the original phrase followed by every distinct rewrite in
// which a non-empty subset of its words is translated to the other layout.
// The result is never empty and always starts with the original.
func Generate(phrase string) []Variant {
	words := strings.Split(phrase, " ")
	n := min(len(words), maxWords)

	translated := make([]string, n)
	for i := range n {
		translated[i] = layout.TranslateWord(words[i])
	}

	out := make([]Variant, 0, 1<<n)
	out = append(out, Variant{Text: phrase, IsOriginal: true})
	seen := map[string]struct{}{phrase: {}}

	var sb strings.Builder
	for mask := 1; mask < 1<<n; mask++ {
		sb.Reset()
		for i, w := range words {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if i < n && mask&(1<<i) != 0 {
				sb.WriteString(translated[i])
			} else {
				sb.WriteString(w)
			}
		}
		text := strings.TrimRight(sb.String(), " ")
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, Variant{Text: text})
	}
	return out
}

// Texts returns the variant texts in order.
func Texts(vs []Variant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Text
	}
	return out
}
