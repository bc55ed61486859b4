package emotext

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bbalet/stopwords"
)

// A Tokenizer turns normalized text into the n-grams used as features.
type Tokenizer interface {
	Tokenize(text string) []string
}

// NGramTokenizer splits normalized text on whitespace, drops short tokens and
// stopwords, then emits every n-gram in the configured range. N-grams are
// built from the surviving tokens, so two content words separated only by
// stopwords still form a bigram.
type NGramTokenizer struct {
	minN, maxN int
	minLength  int
	extraStops map[string]bool
	stopMemo   sync.Map // string -> bool
}

// TokenizerOptFunc configures an NGramTokenizer.
type TokenizerOptFunc func(*NGramTokenizer)

// UsingNGramRange sets the smallest and largest n-gram size.
func UsingNGramRange(minN, maxN int) TokenizerOptFunc {
	return func(t *NGramTokenizer) {
		t.minN, t.maxN = minN, maxN
	}
}

// UsingMinTokenLength sets the shortest token, in runes, that is kept.
func UsingMinTokenLength(n int) TokenizerOptFunc {
	return func(t *NGramTokenizer) {
		t.minLength = n
	}
}

// UsingStopWords adds words to drop on top of the English list.
func UsingStopWords(words ...string) TokenizerOptFunc {
	return func(t *NGramTokenizer) {
		for _, w := range words {
			t.extraStops[strings.ToLower(w)] = true
		}
	}
}

// NewNGramTokenizer returns a unigram+bigram English tokenizer unless
// options say otherwise.
func NewNGramTokenizer(opts ...TokenizerOptFunc) *NGramTokenizer {
	t := &NGramTokenizer{
		minN:       1,
		maxN:       2,
		minLength:  2,
		extraStops: make(map[string]bool),
	}
	for _, applyOpt := range opts {
		applyOpt(t)
	}
	if t.minN < 1 {
		t.minN = 1
	}
	if t.maxN < t.minN {
		t.maxN = t.minN
	}
	return t
}

// Tokenize returns the n-grams of text in order of appearance. Text is
// expected to be the output of Normalize.
func (t *NGramTokenizer) Tokenize(text string) []string {
	var words []string
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) < t.minLength || t.IsStopWord(w) {
			continue
		}
		words = append(words, w)
	}

	var grams []string
	for n := t.minN; n <= t.maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			grams = append(grams, strings.Join(words[i:i+n], " "))
		}
	}
	return grams
}

// IsStopWord reports whether word is filtered out before n-gram building.
func (t *NGramTokenizer) IsStopWord(word string) bool {
	if t.extraStops[word] {
		return true
	}
	if v, ok := t.stopMemo.Load(word); ok {
		return v.(bool)
	}
	// The stopwords package has no lookup function; a word that cleans to
	// nothing is on its list.
	isStop := strings.TrimSpace(stopwords.CleanString(word, string(English), false)) == ""
	t.stopMemo.Store(word, isStop)
	return isStop
}
