package emotext

import (
	"fmt"
	"sort"
	"strings"
)

// An Emotion is one of the discrete labels the classifier can output.
type Emotion string

const (
	Happy   Emotion = "happy"
	Sad     Emotion = "sad"
	Angry   Emotion = "angry"
	Fear    Emotion = "fear"
	Neutral Emotion = "neutral"
)

// legacyNeutral is the spelling some datasets use for Neutral.
const legacyNeutral = "normal"

// Emotions returns the closed label set in display order.
func Emotions() []Emotion {
	return []Emotion{Happy, Sad, Angry, Fear, Neutral}
}

// Valid reports whether e belongs to the closed label set.
func (e Emotion) Valid() bool {
	switch e {
	case Happy, Sad, Angry, Fear, Neutral:
		return true
	}
	return false
}

// String returns the label text.
func (e Emotion) String() string {
	return string(e)
}

// ParseEmotion converts a label string into an Emotion. Matching ignores case
// and surrounding space; "normal" is read as Neutral.
func ParseEmotion(s string) (Emotion, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	if label == legacyNeutral {
		return Neutral, nil
	}
	e := Emotion(label)
	if !e.Valid() {
		return "", fmt.Errorf("unknown emotion label %q", s)
	}
	return e, nil
}

// A Sample is a labeled piece of training text.
type Sample struct {
	Text    string  // The raw, un-normalized text.
	Emotion Emotion // The sample's label.
}

// A Dataset is an ordered collection of samples.
type Dataset []Sample

// Counts returns the number of samples for each label present.
func (d Dataset) Counts() map[Emotion]int {
	counts := make(map[Emotion]int)
	for _, s := range d {
		counts[s.Emotion]++
	}
	return counts
}

// Labels returns the labels present in d, sorted.
func (d Dataset) Labels() []Emotion {
	counts := d.Counts()
	labels := make([]Emotion, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sortEmotions(labels)
	return labels
}

// Texts returns the sample texts in order.
func (d Dataset) Texts() []string {
	texts := make([]string, len(d))
	for i, s := range d {
		texts[i] = s.Text
	}
	return texts
}

// Language represents supported languages
type Language string

// English is the only language the bundled stopword list covers.
const English Language = "en"

// ConfidenceLevel represents different confidence thresholds
type ConfidenceLevel float64

const (
	LowConfidence    ConfidenceLevel = 50
	MediumConfidence ConfidenceLevel = 70
	HighConfidence   ConfidenceLevel = 90
)

func (c ConfidenceLevel) String() string {
	switch c {
	case LowConfidence:
		return "low"
	case MediumConfidence:
		return "medium"
	case HighConfidence:
		return "high"
	}
	return fmt.Sprintf("ConfidenceLevel(%g)", float64(c))
}

// Level buckets a confidence percentage.
func Level(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= float64(HighConfidence):
		return HighConfidence
	case confidence >= float64(MediumConfidence):
		return MediumConfidence
	default:
		return LowConfidence
	}
}

func sortEmotions(labels []Emotion) {
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
}
