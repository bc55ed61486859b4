package emotext

import (
	"strings"
	"testing"
	"testing/quick"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "I Am HAPPY", "i am happy"},
		{"punctuation", "Wow!!! Really?", "wow really"},
		{"digits", "42 cats and 7 dogs", "cats and dogs"},
		{"digits inside words", "abc123def", "abcdef"},
		{"url", "look at https://example.com/x?y=1 now", "look at now"},
		{"bare www", "visit www.example.org today", "visit today"},
		{"whitespace", "  spaced\tout\n\ntext  ", "spaced out text"},
		{"apostrophe", "I'm fine", "im fine"},
		{"accents kept", "Café Déjà Vu", "café déjà vu"},
		{"empty", "", ""},
		{"only symbols", "!!! ??? 123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"I am so happy today!",
		"This is VERY sad news... 100%",
		"é1x",
		"http://a.b/c https://d.e www.f.g plain",
		"  Mixed spaces here ",
		"Ünïcödé  and émojis 😀",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeNoDigits(t *testing.T) {
	inputs := []string{
		"ABC 123 Def 4five SIX٣",
		"0",
		"room 101, floor 7",
		"v2.0.1-beta",
		"call 555-0100 now",
		"١٢٣ arabic-indic",
		"०१२ devanagari",
		"１２３ fullwidth",
		"x²y³ superscripts",
		"e\u0301\u0663x",
		"https://example.com/42 then 42",
	}
	for _, in := range inputs {
		out := Normalize(in)
		for _, r := range out {
			assert.False(t, unicode.IsDigit(r), "digit %q in %q from %q", r, out, in)
			assert.False(t, unicode.IsUpper(r), "uppercase %q in %q from %q", r, out, in)
		}
	}
}

func TestNormalizeProperties(t *testing.T) {
	idempotent := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	noDigits := func(s string) bool {
		return strings.IndexFunc(Normalize(s), unicode.IsDigit) < 0
	}
	trimmed := func(s string) bool {
		out := Normalize(s)
		return out == strings.Join(strings.Fields(out), " ")
	}

	cfg := &quick.Config{MaxCount: 5000}
	require.NoError(t, quick.Check(idempotent, cfg))
	require.NoError(t, quick.Check(noDigits, cfg))
	require.NoError(t, quick.Check(trimmed, cfg))
}
