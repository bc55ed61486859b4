package emotext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/neurosnap/sentences.v1/english"
)

const (
	// PlaceholderConfidence is reported when the model cannot estimate
	// probabilities. It is not a measurement.
	PlaceholderConfidence = 75.0

	// FallbackConfidence accompanies FallbackEmotion when a prediction
	// fails altogether.
	FallbackConfidence = 50.0

	// FallbackEmotion is returned when a prediction fails altogether.
	FallbackEmotion = Neutral
)

// Outcome tells how a Prediction was obtained.
type Outcome int

const (
	// Measured predictions carry the model's own probability.
	Measured Outcome = iota
	// Placeholder predictions carry a real label but PlaceholderConfidence.
	Placeholder
	// Degraded predictions are the fixed fallback result.
	Degraded
)

func (o Outcome) String() string {
	switch o {
	case Measured:
		return "measured"
	case Placeholder:
		return "placeholder"
	case Degraded:
		return "degraded"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// A Prediction is the result of classifying one text.
type Prediction struct {
	Emotion    Emotion
	Confidence float64             // Percentage in [0, 100], one decimal.
	Outcome    Outcome             // How trustworthy Confidence is.
	Scores     map[Emotion]float64 // Class probabilities; nil unless Measured.
	Err        error               // Cause of a Degraded outcome.
}

// Level buckets the prediction's confidence.
func (p Prediction) Level() ConfidenceLevel {
	return Level(p.Confidence)
}

// A SentenceEmotion is the prediction for one sentence of a longer text.
type SentenceEmotion struct {
	Text  string
	Start int
	End   int
	Prediction
}

// A DetectorOpt represents a setting that changes how a Detector behaves.
type DetectorOpt func(d *Detector)

// WithLogger sets the logger used for degraded predictions.
func WithLogger(logger *slog.Logger) DetectorOpt {
	return func(d *Detector) {
		d.logger = logger
	}
}

// WithBatchLimit caps the number of concurrent predictions in PredictBatch.
func WithBatchLimit(n int) DetectorOpt {
	return func(d *Detector) {
		d.batchLimit = n
	}
}

// A Detector is the inference entry point. It never returns an error or
// panics for a single text: failures turn into the documented fallback.
//
// A Detector is safe for concurrent use.
type Detector struct {
	model      *Model
	logger     *slog.Logger
	batchLimit int

	segMu   sync.Mutex
	segment func(text string) []span
}

// A span is a sentence and its byte offsets in the segmented text.
type span struct {
	text       string
	start, end int
}

// NewDetector wraps a trained model.
func NewDetector(model *Model, opts ...DetectorOpt) (*Detector, error) {
	if model == nil {
		return nil, fmt.Errorf("detector: %w", ErrNotFitted)
	}
	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("detector: loading sentence segmenter: %w", err)
	}

	d := &Detector{
		model:      model,
		logger:     slog.Default(),
		batchLimit: runtime.GOMAXPROCS(0),
		segment: func(text string) []span {
			sents := segmenter.Tokenize(text)
			spans := make([]span, len(sents))
			for i, s := range sents {
				spans[i] = span{text: s.Text, start: s.Start, end: s.End}
			}
			return spans
		},
	}
	for _, applyOpt := range opts {
		applyOpt(d)
	}
	if d.batchLimit < 1 {
		d.batchLimit = 1
	}
	return d, nil
}

// NewDetectorFromProvider loads a dataset, trains a model on it and wraps
// it in a Detector. Any error means no usable detector exists.
func NewDetectorFromProvider(provider *DatasetProvider, cfg TrainingConfig, opts ...DetectorOpt) (*Detector, TrainingMetrics, error) {
	data, err := provider.Load()
	if err != nil {
		return nil, TrainingMetrics{}, err
	}
	model, metrics, err := ModelFromData("emotion", data, cfg)
	if err != nil {
		return nil, TrainingMetrics{}, err
	}
	d, err := NewDetector(model, opts...)
	if err != nil {
		return nil, TrainingMetrics{}, err
	}
	return d, metrics, nil
}

// Model returns the wrapped model.
func (d *Detector) Model() *Model {
	return d.model
}

// PredictEmotion returns the label of text, or FallbackEmotion if it could
// not be classified.
func (d *Detector) PredictEmotion(text string) Emotion {
	return d.Predict(text).Emotion
}

// PredictEmotionWithConfidence returns the label of text with a confidence
// percentage. See Predict for how the pair degrades.
func (d *Detector) PredictEmotionWithConfidence(text string) (Emotion, float64) {
	p := d.Predict(text)
	return p.Emotion, p.Confidence
}

// Predict classifies text and tags the result with how it was obtained:
//
//   - Measured: the label and its probability mass as a percentage.
//   - Placeholder: the label, with PlaceholderConfidence because the model
//     cannot estimate probabilities.
//   - Degraded: FallbackEmotion and FallbackConfidence, with Err set. Text
//     that is empty after normalization ends up here.
func (d *Detector) Predict(text string) (p Prediction) {
	defer func() {
		if r := recover(); r != nil {
			p = d.degraded(text, fmt.Errorf("panic: %v", r))
		}
	}()

	normalized := Normalize(text)
	if normalized == "" {
		return d.degraded(text, ErrEmptyInput)
	}

	x, err := d.model.features(normalized)
	if err != nil {
		return d.degraded(text, err)
	}
	label, err := d.model.classifier.Predict(x)
	if err != nil {
		return d.degraded(text, err)
	}

	prob, ok := d.model.classifier.(ProbabilisticClassifier)
	if !ok {
		return Prediction{Emotion: label, Confidence: PlaceholderConfidence, Outcome: Placeholder}
	}
	scores, err := prob.PredictProba(x)
	if err != nil {
		return d.degraded(text, err)
	}
	return Prediction{
		Emotion:    label,
		Confidence: percent(scores[label]),
		Outcome:    Measured,
		Scores:     scores,
	}
}

func (d *Detector) log() *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return slog.Default()
}

func (d *Detector) degraded(text string, err error) Prediction {
	err = &InferenceError{Text: text, Err: err}
	if errors.Is(err, ErrEmptyInput) {
		d.log().Debug("empty input, using fallback emotion")
	} else {
		d.log().Warn("prediction degraded", slog.String("error", err.Error()))
	}
	return Prediction{
		Emotion:    FallbackEmotion,
		Confidence: FallbackConfidence,
		Outcome:    Degraded,
		Err:        err,
	}
}

// percent converts a probability into a percentage in [0, 100] rounded to
// one decimal.
func percent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Round(math.Max(0, math.Min(1, p))*1000) / 10
}

// PredictBatch classifies texts concurrently. Results are in input order. It
// only fails when ctx is done before every text has been classified.
func (d *Detector) PredictBatch(ctx context.Context, texts []string) ([]Prediction, error) {
	out := make([]Prediction, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.batchLimit, 1))

	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		i, text := i, text
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = d.Predict(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeSentences splits text into sentences and classifies each one.
// Sentences that are empty after trimming are skipped. A Detector not built
// by NewDetector has no segmenter and treats text as a single sentence.
func (d *Detector) AnalyzeSentences(text string) []SentenceEmotion {
	if d.segment == nil {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		start := strings.Index(text, trimmed)
		return []SentenceEmotion{{
			Text:       trimmed,
			Start:      start,
			End:        start + len(trimmed),
			Prediction: d.Predict(trimmed),
		}}
	}

	d.segMu.Lock()
	spans := d.segment(text)
	d.segMu.Unlock()

	results := make([]SentenceEmotion, 0, len(spans))
	for _, s := range spans {
		trimmed := strings.TrimSpace(s.text)
		if trimmed == "" {
			continue
		}
		results = append(results, SentenceEmotion{
			Text:       trimmed,
			Start:      s.start,
			End:        s.end,
			Prediction: d.Predict(trimmed),
		})
	}
	return results
}
