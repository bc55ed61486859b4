package emotext

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var urlRE = regexp.MustCompile(`https?://\S+|www\.\S+`)

// Normalize lowercases text and strips URLs, punctuation, symbols and digits,
// collapsing the remaining whitespace to single spaces.
//
// The result is what both training and inference see, so Normalize must stay
// a pure function: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ToLower(norm.NFC.String(text))
	text = urlRE.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return -1
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r), r == '_':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, text)
	// Dropping a digit can leave a combining mark next to its base letter.
	return norm.NFC.String(strings.Join(strings.Fields(text), " "))
}
