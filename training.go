package emotext

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Algorithm selects the classifier trained by ModelFromData.
type Algorithm string

const (
	// AlgorithmLogistic trains a multinomial logistic regression and
	// reports measured confidences.
	AlgorithmLogistic Algorithm = "logistic"

	// AlgorithmCentroid trains a nearest-centroid classifier, which has no
	// probability estimates.
	AlgorithmCentroid Algorithm = "centroid"
)

// TrainingConfig contains configuration for model training
type TrainingConfig struct {
	TestSize      float64      // Fraction of each class held out for evaluation.
	Seed          int64        // Seed of the split shuffle.
	MaxFeatures   int          // Vocabulary cap.
	C             float64      // Inverse L2 regularization strength.
	MaxIterations int          // Optimizer iteration limit.
	Algorithm     Algorithm    // Classifier to fit.
	StopWords     []string     // Extra stopwords.
	Logger        *slog.Logger // Progress logger; slog.Default() when nil.
}

// DefaultTrainingConfig returns a default training configuration
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		TestSize:      0.2,
		Seed:          42,
		MaxFeatures:   DefaultMaxFeatures,
		C:             10,
		MaxIterations: 1000,
		Algorithm:     AlgorithmLogistic,
	}
}

func (cfg TrainingConfig) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// TrainingMetrics contains metrics from training
type TrainingMetrics struct {
	TrainSize    int     // Samples the evaluation model was fitted on.
	TestSize     int     // Samples held out for evaluation.
	FitSize      int     // Samples the returned model was fitted on.
	Accuracy     float64 // Hold-out accuracy; NaN when nothing was held out.
	Report       Report
	TrainingTime time.Duration
	Iterations   int
	Converged    bool
}

// CrossValidationResult contains results from cross-validation
type CrossValidationResult struct {
	MeanAccuracy float64
	StdAccuracy  float64
	FoldAccuracy []float64
}

// validateClasses checks that data can be split and trained on.
func validateClasses(data Dataset, testSize float64) error {
	if len(data) == 0 {
		return ErrEmptyDataset
	}
	counts := data.Counts()
	if len(counts) < 2 {
		return fmt.Errorf("%w: found %d", ErrTooFewClasses, len(counts))
	}
	if testSize <= 0 {
		return nil
	}
	if testSize >= 1 {
		return fmt.Errorf("test size must be below 1, got %v", testSize)
	}
	for _, label := range data.Labels() {
		if counts[label] < 2 {
			return fmt.Errorf("%w: %q has %d sample(s)", ErrClassTooSmall, label, counts[label])
		}
	}
	return nil
}

// holdOut returns how many of n class samples go to the test split.
func holdOut(n int, testSize float64) int {
	if testSize <= 0 {
		return 0
	}
	k := int(math.Round(float64(n) * testSize))
	if k < 1 {
		k = 1
	}
	if k > n-1 {
		k = n - 1
	}
	return k
}

// stratifiedSplit shuffles each class with a seeded source and moves
// holdOut(n_c) samples of every class to the test split. Both splits keep
// the dataset's original order.
func stratifiedSplit(data Dataset, testSize float64, seed int64) (train, test Dataset) {
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[Emotion][]int)
	for i, s := range data {
		byClass[s.Emotion] = append(byClass[s.Emotion], i)
	}

	inTest := make([]bool, len(data))
	for _, label := range data.Labels() {
		idx := byClass[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, i := range idx[:holdOut(len(idx), testSize)] {
			inTest[i] = true
		}
	}

	for i, s := range data {
		if inTest[i] {
			test = append(test, s)
		} else {
			train = append(train, s)
		}
	}
	return train, test
}

// fit builds a Model from already-validated training samples.
func fit(name string, train Dataset, cfg TrainingConfig) (*Model, fitStats, error) {
	texts := train.Texts()
	labels := make([]Emotion, len(train))
	for i, s := range train {
		texts[i] = Normalize(texts[i])
		labels[i] = s.Emotion
	}

	tokenizer := NewNGramTokenizer(UsingStopWords(cfg.StopWords...))
	vectorizer := NewVectorizer(tokenizer, cfg.MaxFeatures)
	if err := vectorizer.Fit(texts); err != nil {
		return nil, fitStats{}, &TrainingError{Op: "vectorize", Err: err}
	}
	X := vectorizer.TransformAll(texts)

	var (
		classifier Classifier
		stats      fitStats
		err        error
	)
	switch cfg.Algorithm {
	case AlgorithmLogistic, "":
		classifier, stats, err = fitLogistic(X, labels, logisticSettings{
			C:             cfg.C,
			MaxIterations: cfg.MaxIterations,
		})
	case AlgorithmCentroid:
		classifier, err = fitCentroid(X, labels)
		stats = fitStats{Converged: true}
	default:
		err = fmt.Errorf("unknown algorithm %q", cfg.Algorithm)
	}
	if err != nil {
		return nil, fitStats{}, &TrainingError{Op: "fit", Err: err}
	}

	return &Model{
		Name:       name,
		vectorizer: vectorizer,
		classifier: classifier,
	}, stats, nil
}

// ModelFromData trains a Model on data. A stratified TestSize fraction of
// every class is held out, and a model fitted on the rest is scored on it to
// produce the returned metrics. The returned model is then refitted on all
// of data, so no sample is lost to evaluation.
func ModelFromData(name string, data Dataset, cfg TrainingConfig) (*Model, TrainingMetrics, error) {
	startTime := time.Now()
	logger := cfg.logger()

	if err := validateClasses(data, cfg.TestSize); err != nil {
		return nil, TrainingMetrics{}, &TrainingError{Op: "validate", Err: err}
	}

	train, test := stratifiedSplit(data, cfg.TestSize, cfg.Seed)
	logger.Info("training emotion model",
		slog.String("model", name),
		slog.Int("train", len(train)),
		slog.Int("test", len(test)),
		slog.String("algorithm", string(cfg.Algorithm)))
	for _, label := range data.Labels() {
		logger.Debug("class distribution",
			slog.String("emotion", string(label)),
			slog.Int("samples", data.Counts()[label]))
	}

	metrics := TrainingMetrics{
		TrainSize: len(train),
		TestSize:  len(test),
		Accuracy:  math.NaN(),
	}
	if len(test) > 0 {
		heldOut, _, err := fit(name, train, cfg)
		if err != nil {
			return nil, TrainingMetrics{}, err
		}
		metrics.Report = heldOut.Evaluate(test)
		metrics.Accuracy = metrics.Report.Accuracy
		logger.Info("hold-out evaluation",
			slog.String("model", name),
			slog.Float64("accuracy", metrics.Accuracy))
	}

	model, stats, err := fit(name, data, cfg)
	if err != nil {
		return nil, TrainingMetrics{}, err
	}
	if !stats.Converged {
		logger.Warn("optimizer stopped before convergence",
			slog.Int("iterations", stats.Iterations),
			slog.String("status", stats.Status))
	}

	metrics.FitSize = len(data)
	metrics.Iterations = stats.Iterations
	metrics.Converged = stats.Converged
	metrics.TrainingTime = time.Since(startTime)

	logger.Info("model trained",
		slog.String("model", name),
		slog.Int("features", model.vectorizer.Len()),
		slog.Float64("accuracy", metrics.Accuracy),
		slog.Duration("elapsed", metrics.TrainingTime))
	return model, metrics, nil
}

// CrossValidate performs stratified k-fold cross-validation and reports the
// accuracy of each fold. cfg.TestSize is ignored.
func CrossValidate(ctx context.Context, data Dataset, k int, cfg TrainingConfig) (CrossValidationResult, error) {
	if k <= 1 {
		return CrossValidationResult{}, fmt.Errorf("k must be greater than 1")
	}
	if err := validateClasses(data, 0); err != nil {
		return CrossValidationResult{}, &TrainingError{Op: "validate", Err: err}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	fold := make([]int, len(data))
	byClass := make(map[Emotion][]int)
	for i, s := range data {
		byClass[s.Emotion] = append(byClass[s.Emotion], i)
	}
	for _, label := range data.Labels() {
		idx := byClass[label]
		if len(idx) < k {
			return CrossValidationResult{}, &TrainingError{
				Op:  "validate",
				Err: fmt.Errorf("%w: %q has %d sample(s) for %d folds", ErrClassTooSmall, label, len(idx), k),
			}
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for pos, i := range idx {
			fold[i] = pos % k
		}
	}

	accuracies := make([]float64, k)
	for f := 0; f < k; f++ {
		select {
		case <-ctx.Done():
			return CrossValidationResult{}, ctx.Err()
		default:
		}

		var train, test Dataset
		for i, s := range data {
			if fold[i] == f {
				test = append(test, s)
			} else {
				train = append(train, s)
			}
		}
		model, _, err := fit(fmt.Sprintf("fold-%d", f), train, cfg)
		if err != nil {
			return CrossValidationResult{}, err
		}
		accuracies[f] = model.Evaluate(test).Accuracy
	}

	mean, std := stat.MeanStdDev(accuracies, nil)
	return CrossValidationResult{
		MeanAccuracy: mean,
		StdAccuracy:  std,
		FoldAccuracy: accuracies,
	}, nil
}
