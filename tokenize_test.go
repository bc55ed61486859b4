package emotext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeDropsStopWords(t *testing.T) {
	tok := NewNGramTokenizer()
	for _, w := range []string{"the", "and", "is", "of", "to"} {
		assert.True(t, tok.IsStopWord(w), "%q should be a stopword", w)
	}
	for _, w := range []string{"happy", "furious", "terrified"} {
		assert.False(t, tok.IsStopWord(w), "%q should not be a stopword", w)
	}
	assert.Empty(t, tok.Tokenize("the and of to is"))
}

func TestTokenizeNGrams(t *testing.T) {
	tok := NewNGramTokenizer()
	got := tok.Tokenize("happy the sunshine party")
	assert.Equal(t, []string{
		"happy", "sunshine", "party",
		"happy sunshine", "sunshine party",
	}, got)
}

func TestTokenizeOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []TokenizerOptFunc
		text string
		want []string
	}{
		{
			name: "unigrams only",
			opts: []TokenizerOptFunc{UsingNGramRange(1, 1)},
			text: "happy sunshine",
			want: []string{"happy", "sunshine"},
		},
		{
			name: "bigrams only",
			opts: []TokenizerOptFunc{UsingNGramRange(2, 2)},
			text: "happy sunshine party",
			want: []string{"happy sunshine", "sunshine party"},
		},
		{
			name: "short tokens dropped",
			opts: []TokenizerOptFunc{UsingMinTokenLength(4)},
			text: "sad cat happy",
			want: []string{"happy"},
		},
		{
			name: "extra stopwords",
			opts: []TokenizerOptFunc{UsingStopWords("Sunshine"), UsingNGramRange(1, 1)},
			text: "happy sunshine party",
			want: []string{"happy", "party"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewNGramTokenizer(tt.opts...).Tokenize(tt.text))
		})
	}
}

func TestTokenizeConcurrent(t *testing.T) {
	tok := NewNGramTokenizer()
	done := make(chan []string)
	for i := 0; i < 8; i++ {
		go func() { done <- tok.Tokenize("scared of the dark") }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, []string{"scared", "dark", "scared dark"}, <-done)
	}
}
