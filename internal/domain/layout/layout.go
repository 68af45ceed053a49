// Package layout maps characters between the QWERTY and ЙЦУКЕН keyboard layouts.
//
// Text typed with the wrong layout active ("ghbdtn" instead of "привет") is
// recovered by translating every character to the key at the same position
// on the other layout.
package layout

import "unicode"

// Wildcard is never translated.
const Wildcard = '*'

// pairs holds key positions: Latin layout on the left, Cyrillic on the right.
var pairs = [...][2]rune{
	{'q', 'й'}, {'w', 'ц'}, {'e', 'у'}, {'r', 'к'}, {'t', 'е'},
	{'y', 'н'}, {'u', 'г'}, {'i', 'ш'}, {'o', 'щ'}, {'p', 'з'},
	{'[', 'х'}, {'{', 'Х'}, {']', 'ъ'}, {'}', 'Ъ'}, {'`', 'ё'}, {'~', 'Ё'},
	{'a', 'ф'}, {'s', 'ы'}, {'d', 'в'}, {'f', 'а'}, {'g', 'п'},
	{'h', 'р'}, {'j', 'о'}, {'k', 'л'}, {'l', 'д'},
	{';', 'ж'}, {':', 'Ж'}, {'\'', 'э'}, {'"', 'Э'},
	{'z', 'я'}, {'x', 'ч'}, {'c', 'с'}, {'v', 'м'}, {'b', 'и'},
	{'n', 'т'}, {'m', 'ь'}, {',', 'б'}, {'<', 'Б'}, {'.', 'ю'}, {'>', 'Ю'},
}

var (
	forward = make(map[rune]rune, len(pairs))
	reverse = make(map[rune]rune, len(pairs))
)

func init() {
	for _, p := range pairs {
		forward[p[0]] = p[1]
		reverse[p[1]] = p[0]
	}
}

// Translate returns the character on the other layout at the same key position.
// Unknown characters are lower-cased and looked up again; characters that still
// have no pair are returned unchanged.
func Translate(r rune) rune {
	if r == Wildcard {
		return r
	}
	if t, ok := lookup(r); ok {
		return t
	}
	if lr := unicode.ToLower(r); lr != r {
		if t, ok := lookup(lr); ok {
			return t
		}
	}
	return r
}

// TranslateWord translates every character of s.
func TranslateWord(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, Translate(r))
	}
	return string(out)
}

func lookup(r rune) (rune, bool) {
	if t, ok := forward[r]; ok {
		return t, true
	}
	t, ok := reverse[r]
	return t, ok
}

// Pairs returns a copy of the layout table (Latin, Cyrillic).
func Pairs() [][2]rune {
	out := make([][2]rune, len(pairs))
	copy(out, pairs[:])
	return out
}
