package emotext

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when there is nothing to train on.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrTooFewClasses is returned when fewer than two labels are present.
	ErrTooFewClasses = errors.New("at least two emotion classes are required")

	// ErrClassTooSmall is returned when a class cannot be split into a
	// training and a test portion.
	ErrClassTooSmall = errors.New("class has too few samples for the requested split")

	// ErrEmptyVocabulary is returned when no n-gram survives stopword removal.
	ErrEmptyVocabulary = errors.New("vocabulary is empty")

	// ErrNotFitted is returned when a pipeline stage is used before Fit.
	ErrNotFitted = errors.New("not fitted")

	// ErrDimension is returned for feature vectors of the wrong length.
	ErrDimension = errors.New("feature vector has the wrong dimension")

	// ErrEmptyInput marks text that normalizes to nothing.
	ErrEmptyInput = errors.New("text is empty after normalization")
)

// A DatasetError reports a persisted dataset that exists but cannot be used.
type DatasetError struct {
	Path string // File path, if known.
	Line int    // 1-based line number, 0 when not line specific.
	Err  error
}

func (e *DatasetError) Error() string {
	path := e.Path
	if path == "" {
		path = "dataset"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", path, e.Err)
}

func (e *DatasetError) Unwrap() error { return e.Err }

// A TrainingError reports a model that could not be fitted.
type TrainingError struct {
	Op  string // The training step that failed.
	Err error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("training failed during %s: %v", e.Op, e.Err)
}

func (e *TrainingError) Unwrap() error { return e.Err }

// An InferenceError describes a single prediction that degraded to the
// fallback result. It never escapes the Detector's label-returning methods.
type InferenceError struct {
	Text string
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference degraded for %q: %v", truncate(e.Text, 40), e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
