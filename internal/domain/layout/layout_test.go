package layout

import "testing"

func TestTranslate(t *testing.T) {
	tests := []struct {
		in, want rune
	}{
		{'q', 'й'},
		{'й', 'q'},
		{'[', 'х'},
		{'Х', '{'},
		{'G', 'п'},
		{'П', 'g'},
		{'*', '*'},
		{'5', '5'},
		{' ', ' '},
	}
	for _, tt := range tests {
		if got := Translate(tt.in); got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTranslateWord(t *testing.T) {
	if got := TranslateWord("ghbdtn"); got != "привет" {
		t.Errorf("TranslateWord(ghbdtn) = %q, want привет", got)
	}
	if got := TranslateWord("привет"); got != "ghbdtn" {
		t.Errorf("TranslateWord(привет) = %q, want ghbdtn", got)
	}
	if got := TranslateWord("*java*"); got != "*офмф*" {
		t.Errorf("TranslateWord(*java*) = %q, want *офмф*", got)
	}
	if got := TranslateWord(""); got != "" {
		t.Errorf("TranslateWord(\"\") = %q, want empty", got)
	}
}

func TestTranslate_RoundTrip(t *testing.T) {
	for _, p := range Pairs() {
		if got := Translate(Translate(p[0])); got != p[0] {
			t.Errorf("round trip of %q = %q", p[0], got)
		}
		if got := Translate(Translate(p[1])); got != p[1] {
			t.Errorf("round trip of %q = %q", p[1], got)
		}
	}
}

func TestPairs_ReturnsCopy(t *testing.T) {
	p := Pairs()
	p[0] = [2]rune{'x', 'x'}
	if Translate('q') != 'й' {
		t.Error("mutating Pairs() result changed the layout table")
	}
}
