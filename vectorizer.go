package emotext

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 1000

// A Vectorizer maps normalized text onto a fixed-length tf-idf vector.
//
// After Fit the vocabulary never grows; n-grams not seen during Fit
// contribute nothing to Transform.
type Vectorizer struct {
	tokenizer   Tokenizer
	maxFeatures int

	index map[string]int
	terms []string
	idf   []float64
}

// NewVectorizer creates an unfitted vectorizer. A maxFeatures of zero or less
// means DefaultMaxFeatures.
func NewVectorizer(tokenizer Tokenizer, maxFeatures int) *Vectorizer {
	if tokenizer == nil {
		tokenizer = NewNGramTokenizer()
	}
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{tokenizer: tokenizer, maxFeatures: maxFeatures}
}

// Fit learns the vocabulary and idf weights from texts. Candidate n-grams
// are ranked by their tf-idf weight summed over the corpus and only the top
// maxFeatures are kept.
func (v *Vectorizer) Fit(texts []string) error {
	docCount := float64(len(texts))
	docFreq := make(map[string]int)
	termFreq := make([]map[string]int, len(texts))

	for i, text := range texts {
		counts := make(map[string]int)
		for _, gram := range v.tokenizer.Tokenize(text) {
			counts[gram]++
		}
		for gram := range counts {
			docFreq[gram]++
		}
		termFreq[i] = counts
	}
	if len(docFreq) == 0 {
		return ErrEmptyVocabulary
	}

	idf := make(map[string]float64, len(docFreq))
	for gram, df := range docFreq {
		// smoothed: idf = ln((1+n)/(1+df)) + 1
		idf[gram] = math.Log((1+docCount)/(1+float64(df))) + 1
	}

	weight := make(map[string]float64, len(docFreq))
	for _, counts := range termFreq {
		for gram, tf := range counts {
			weight[gram] += float64(tf) * idf[gram]
		}
	}

	candidates := make([]string, 0, len(weight))
	for gram := range weight {
		candidates = append(candidates, gram)
	}
	sort.Slice(candidates, func(i, j int) bool {
		wi, wj := weight[candidates[i]], weight[candidates[j]]
		if wi != wj {
			return wi > wj
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.maxFeatures {
		candidates = candidates[:v.maxFeatures]
	}
	sort.Strings(candidates)

	v.terms = candidates
	v.index = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	for i, gram := range candidates {
		v.index[gram] = i
		v.idf[i] = idf[gram]
	}
	return nil
}

// Fitted reports whether Fit has completed.
func (v *Vectorizer) Fitted() bool {
	return v.index != nil
}

// Len returns the feature dimension.
func (v *Vectorizer) Len() int {
	return len(v.terms)
}

// Vocabulary returns the fitted n-grams in feature order.
func (v *Vectorizer) Vocabulary() []string {
	return append([]string(nil), v.terms...)
}

// Transform returns the L2-normalized tf-idf vector of text. Text with no
// known n-grams maps to the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, gram := range v.tokenizer.Tokenize(text) {
		if idx, found := v.index[gram]; found {
			vec[idx]++
		}
	}
	floats.Mul(vec, v.idf)
	if n := floats.Norm(vec, 2); n > 0 {
		floats.Scale(1/n, vec)
	}
	return vec
}

// TransformAll stacks the vectors of texts into a len(texts) x Len() matrix.
func (v *Vectorizer) TransformAll(texts []string) *mat.Dense {
	m := mat.NewDense(len(texts), v.Len(), nil)
	for i, text := range texts {
		m.SetRow(i, v.Transform(text))
	}
	return m
}
