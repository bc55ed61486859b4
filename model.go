package emotext

import (
	"fmt"
)

// A Model holds a fitted feature pipeline together with the classifier
// trained on its output. The two are only valid as a pair: the classifier's
// input dimension is the vectorizer's vocabulary size.
//
// A Model is immutable once built and safe for concurrent use.
type Model struct {
	Name string

	vectorizer *Vectorizer
	classifier Classifier
}

// Labels returns the labels the model can predict, sorted.
func (m *Model) Labels() []Emotion {
	return m.classifier.Labels()
}

// Vocabulary returns the n-grams the model uses as features.
func (m *Model) Vocabulary() []string {
	return m.vectorizer.Vocabulary()
}

// Probabilistic reports whether the model can estimate class probabilities.
func (m *Model) Probabilistic() bool {
	_, ok := m.classifier.(ProbabilisticClassifier)
	return ok
}

// features vectorizes text that has already been normalized.
func (m *Model) features(normalized string) ([]float64, error) {
	if m == nil || m.vectorizer == nil || m.classifier == nil {
		return nil, fmt.Errorf("model: %w", ErrNotFitted)
	}
	if !m.vectorizer.Fitted() {
		return nil, fmt.Errorf("vectorizer: %w", ErrNotFitted)
	}
	return m.vectorizer.Transform(normalized), nil
}

// Classify returns the predicted label of raw text.
func (m *Model) Classify(text string) (Emotion, error) {
	x, err := m.features(Normalize(text))
	if err != nil {
		return "", err
	}
	return m.classifier.Predict(x)
}

// Evaluate classifies every sample of data and compares the result with its
// label.
func (m *Model) Evaluate(data Dataset) Report {
	actual := make([]Emotion, 0, len(data))
	predicted := make([]Emotion, 0, len(data))
	for _, s := range data {
		label, err := m.Classify(s.Text)
		if err != nil {
			label = ""
		}
		actual = append(actual, s.Emotion)
		predicted = append(predicted, label)
	}
	return NewReport(actual, predicted)
}
