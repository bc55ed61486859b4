package emotext

import (
	"fmt"
	"strings"
)

// ClassMetrics holds the per-label scores of a Report.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1Score   float64
	Support   int
}

// A Report summarizes predictions against known labels.
type Report struct {
	Accuracy float64
	Classes  map[Emotion]ClassMetrics
	Total    int
}

// NewReport computes accuracy and per-label precision, recall and F1. Labels
// that never occur in actual or predicted are omitted; an undefined ratio is
// reported as zero.
func NewReport(actual, predicted []Emotion) Report {
	tp := make(map[Emotion]int)
	fp := make(map[Emotion]int)
	fn := make(map[Emotion]int)
	support := make(map[Emotion]int)
	correct := 0

	for i, want := range actual {
		got := predicted[i]
		support[want]++
		if got == want {
			correct++
			tp[want]++
			continue
		}
		fn[want]++
		if got != "" {
			fp[got]++
		}
	}

	report := Report{
		Classes: make(map[Emotion]ClassMetrics),
		Total:   len(actual),
	}
	if len(actual) > 0 {
		report.Accuracy = float64(correct) / float64(len(actual))
	}

	seen := make(map[Emotion]bool)
	for label := range support {
		seen[label] = true
	}
	for label := range fp {
		seen[label] = true
	}
	for label := range seen {
		var m ClassMetrics
		m.Support = support[label]
		m.Precision = ratio(tp[label], tp[label]+fp[label])
		m.Recall = ratio(tp[label], tp[label]+fn[label])
		if m.Precision+m.Recall > 0 {
			m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.Classes[label] = m
	}
	return report
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// String renders the report as a table.
func (r Report) String() string {
	labels := make([]Emotion, 0, len(r.Classes))
	for label := range r.Classes {
		labels = append(labels, label)
	}
	sortEmotions(labels)

	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	for _, label := range labels {
		m := r.Classes[label]
		fmt.Fprintf(&b, "%-10s %9.2f %9.2f %9.2f %9d\n", label, m.Precision, m.Recall, m.F1Score, m.Support)
	}
	fmt.Fprintf(&b, "%-10s %9s %9s %9.2f %9d\n", "accuracy", "", "", r.Accuracy, r.Total)
	return b.String()
}
