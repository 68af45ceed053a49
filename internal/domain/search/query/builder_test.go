package query

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kailas-cloud/searchable/internal/domain/entity"
	"github.com/kailas-cloud/searchable/internal/domain/search/field"
	"github.com/kailas-cloud/searchable/internal/domain/search/variant"
)

func testEntity(t *testing.T, withFields bool) entity.Entity {
	t.Helper()
	var fields []field.Spec
	if withFields {
		title, err := field.Weighted("title", 2)
		if err != nil {
			t.Fatal(err)
		}
		body, err := field.Named("body")
		if err != nil {
			t.Fatal(err)
		}
		fields = []field.Spec{title, body}
	}
	e, err := entity.New("post", fields, entity.DefaultParams(), "", "", nil, entity.AllHooks())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"a.b", `a\.b`},
		{`f(x)?`, `f\(x\)\?`},
		{`[1]{2}`, `\[1\]\{2\}`},
		{`a|b/c`, `a\|b\/c`},
		{`"quoted"`, `\"quoted\"`},
		{`back\slash`, `back\\slash`},
		{"*wild*", "*wild*"},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		wildcard bool
		want     string
	}{
		{"Java", false, "java"},
		{"ПРИВЕТ", false, "привет"},
		{"Java", true, "*java*"},
		{"*java", true, "*java*"},
		{"java*", true, "*java*"},
		{"*java*", true, "*java*"},
		{"", true, ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in, tt.wildcard); got != tt.want {
			t.Errorf("Normalize(%q, %v) = %q, want %q", tt.in, tt.wildcard, got, tt.want)
		}
	}
}

func TestBuild_NoFieldsUsesRawText(t *testing.T) {
	c := Build("Hello World", testEntity(t, false), Options{Wildcard: true})
	qs, ok := c.(*QueryString)
	if !ok {
		t.Fatalf("Build() = %T, want *QueryString", c)
	}
	if qs.Query != "Hello World" {
		t.Errorf("Query = %q", qs.Query)
	}
	if qs.Fields != nil || qs.Boost != nil || qs.Lenient != nil || qs.Fuzziness != nil {
		t.Errorf("unexpected options on bare query_string: %+v", qs)
	}
}

func TestBuild_TwoWordPhrase(t *testing.T) {
	c := Build("Ghbdtn Vbh", testEntity(t, true), Options{})
	b, ok := c.(*BoolShould)
	if !ok {
		t.Fatalf("Build() = %T, want *BoolShould", c)
	}
	// 4 variants, every escaped text longer than 5 runes: fuzzy + string each.
	if len(b.Clauses) != 8 {
		t.Fatalf("clauses = %d, want 8", len(b.Clauses))
	}

	mm, ok := b.Clauses[0].(*MultiMatch)
	if !ok {
		t.Fatalf("clause 0 = %T, want *MultiMatch", b.Clauses[0])
	}
	if mm.Query != "ghbdtn vbh" || mm.Boost != OriginalFuzzyBoost {
		t.Errorf("original multi_match = %+v", mm)
	}
	if strings.Join(mm.Fields, ",") != "title^2,body" {
		t.Errorf("fields = %v", mm.Fields)
	}
	if mm.Fuzziness != 2 || mm.PrefixLength != 2 || mm.MaxExpansions != 100 || !mm.Lenient {
		t.Errorf("params = %+v", mm)
	}

	qs, ok := b.Clauses[1].(*QueryString)
	if !ok {
		t.Fatalf("clause 1 = %T, want *QueryString", b.Clauses[1])
	}
	if *qs.Boost != OriginalStringBoost || *qs.Fuzziness != 2 || !*qs.Lenient {
		t.Errorf("original query_string = %+v", qs)
	}

	last := b.Clauses[7].(*QueryString)
	if last.Query != "привет мир" || *last.Boost != 0 {
		t.Errorf("last clause = %q boost %v", last.Query, *last.Boost)
	}
	if b.Clauses[2].(*MultiMatch).Boost != 0 {
		t.Error("translated multi_match should have zero boost")
	}
}

func TestBuildVariants_ShortTextSkipsFuzzy(t *testing.T) {
	c := BuildVariants(variant.Generate("java"), testEntity(t, true), Options{})
	b := c.(*BoolShould)
	if len(b.Clauses) != 2 {
		t.Fatalf("clauses = %d, want 2", len(b.Clauses))
	}
	for i, sub := range b.Clauses {
		if _, ok := sub.(*QueryString); !ok {
			t.Errorf("clause %d = %T, want *QueryString", i, sub)
		}
	}
}

func TestBuildVariants_FuzzyThresholdCountsEscapedRunes(t *testing.T) {
	e := testEntity(t, true)

	// 5 runes: no fuzzy clause.
	five := BuildVariants([]variant.Variant{{Text: "приве", IsOriginal: true}}, e, Options{})
	if Count(five) != 1 {
		t.Errorf("5 runes: Count = %d, want 1", Count(five))
	}
	// 4 runes escaped to 5: still no fuzzy clause.
	escaped := BuildVariants([]variant.Variant{{Text: "a.bc", IsOriginal: true}}, e, Options{})
	if Count(escaped) != 1 {
		t.Errorf("escaped to 5: Count = %d, want 1", Count(escaped))
	}
	// 5 runes escaped to 6: fuzzy clause added.
	longer := BuildVariants([]variant.Variant{{Text: "a.bcd", IsOriginal: true}}, e, Options{})
	if Count(longer) != 2 {
		t.Errorf("escaped to 6: Count = %d, want 2", Count(longer))
	}
}

func TestBuildVariants_LenientOverride(t *testing.T) {
	off := false
	c := Build("wildcard", testEntity(t, true), Options{Lenient: &off})
	for _, sub := range c.(*BoolShould).Clauses {
		switch q := sub.(type) {
		case *MultiMatch:
			if q.Lenient {
				t.Error("multi_match should not be lenient")
			}
		case *QueryString:
			if *q.Lenient {
				t.Error("query_string should not be lenient")
			}
		}
	}
}

func TestBuild_Wildcard(t *testing.T) {
	c := Build("Java", testEntity(t, true), Options{Wildcard: true})
	b := c.(*BoolShould)
	// "*java*" and "*офмф*": 6 runes each, fuzzy + string.
	if len(b.Clauses) != 4 {
		t.Fatalf("clauses = %d, want 4", len(b.Clauses))
	}
	if got := b.Clauses[0].(*MultiMatch).Query; got != "*java*" {
		t.Errorf("original = %q", got)
	}
	if got := b.Clauses[3].(*QueryString).Query; got != "*офмф*" {
		t.Errorf("translated = %q", got)
	}
}

func TestBuildVariants_NoFieldsTakesFirstVariant(t *testing.T) {
	c := BuildVariants(variant.Generate("java"), testEntity(t, false), Options{})
	if qs := c.(*QueryString); qs.Query != "java" {
		t.Errorf("Query = %q", qs.Query)
	}
	empty := BuildVariants(nil, testEntity(t, false), Options{})
	if qs := empty.(*QueryString); qs.Query != "" {
		t.Errorf("Query = %q, want empty", qs.Query)
	}
}

func TestMarshal(t *testing.T) {
	c := Build("java", testEntity(t, true), Options{})
	data, err := Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got struct {
		Bool struct {
			Should []map[string]map[string]any `json:"should"`
		} `json:"bool"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Bool.Should) != 2 {
		t.Fatalf("should = %d, want 2", len(got.Bool.Should))
	}
	first := got.Bool.Should[0]["query_string"]
	if first["query"] != "java" || first["boost"] != 5.0 || first["lenient"] != true {
		t.Errorf("first clause = %v", first)
	}
}

func TestMarshal_BareQueryStringOmitsOptions(t *testing.T) {
	data, err := Marshal(&QueryString{Query: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"query_string":{"query":"x"}}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestCount(t *testing.T) {
	if Count(nil) != 0 {
		t.Error("Count(nil) != 0")
	}
	if Count(&QueryString{}) != 1 {
		t.Error("Count(leaf) != 1")
	}
	nested := &BoolShould{Clauses: []Clause{
		&MultiMatch{},
		&BoolShould{Clauses: []Clause{&QueryString{}, &QueryString{}}},
	}}
	if Count(nested) != 3 {
		t.Errorf("Count(nested) = %d, want 3", Count(nested))
	}
}

func TestBuild_SingleOriginalBoost(t *testing.T) {
	for _, text := range []string{"Ghbdtn Vbh", "java", "node.js guide v2", "q w e"} {
		b := Build(text, testEntity(t, true), Options{}).(*BoolShould)

		strong, fuzzy := 0, 0
		for i, c := range b.Clauses {
			switch c := c.(type) {
			case *QueryString:
				if *c.Boost == OriginalStringBoost {
					strong++
					if i > 1 {
						t.Errorf("%q: boosted query_string at clause %d", text, i)
					}
				} else if *c.Boost != 0 {
					t.Errorf("%q: query_string boost %v", text, *c.Boost)
				}
			case *MultiMatch:
				if c.Boost == OriginalFuzzyBoost {
					fuzzy++
				} else if c.Boost != 0 {
					t.Errorf("%q: multi_match boost %v", text, c.Boost)
				}
			}
		}
		if strong != 1 {
			t.Errorf("%q: %d query_string clauses with boost %v, want 1", text, strong, OriginalStringBoost)
		}
		if fuzzy > 1 {
			t.Errorf("%q: %d boosted multi_match clauses", text, fuzzy)
		}
	}
}

func TestBuild_EmptyText(t *testing.T) {
	b, ok := Build("", testEntity(t, true), Options{Wildcard: true}).(*BoolShould)
	if !ok {
		t.Fatal("want *BoolShould")
	}
	if len(b.Clauses) != 1 {
		t.Fatalf("clauses = %d, want 1", len(b.Clauses))
	}
	qs, ok := b.Clauses[0].(*QueryString)
	if !ok {
		t.Fatalf("clause = %T, want *QueryString", b.Clauses[0])
	}
	if qs.Query != "" || *qs.Boost != OriginalStringBoost {
		t.Errorf("clause = %q boost %v", qs.Query, *qs.Boost)
	}
}

func TestUnescape(t *testing.T) {
	for _, s := range []string{`node.js`, `a\b`, `x\.y`, `(a|b) [c] {d} "e" f/g?`} {
		if got := Unescape(Escape(s)); got != s {
			t.Errorf("Unescape(Escape(%q)) = %q", s, got)
		}
	}
}

func TestBuild_LongPhraseStaysWithinClauseLimit(t *testing.T) {
	phrase := strings.TrimSpace(strings.Repeat("ghbdtn ", 12))
	c := Build(phrase, testEntity(t, true), Options{})
	if n := Count(c); n > 1024 {
		t.Errorf("clauses = %d, want at most 1024", n)
	}
}
