package emotext

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// A Classifier assigns a label to a feature vector.
type Classifier interface {
	Labels() []Emotion
	Predict(x []float64) (Emotion, error)
}

// A ProbabilisticClassifier also estimates a distribution over its labels.
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(x []float64) (map[Emotion]float64, error)
}

// balancedWeights returns n/(k*n_c) for each sample so that every class
// contributes the same total weight to the loss.
func balancedWeights(y []int, k int) []float64 {
	counts := make([]float64, k)
	for _, c := range y {
		counts[c]++
	}
	n := float64(len(y))
	weights := make([]float64, len(y))
	for i, c := range y {
		weights[i] = n / (float64(k) * counts[c])
	}
	return weights
}

// labelIndex encodes labels as indices into the sorted label set.
func labelIndex(labels []Emotion) ([]Emotion, []int) {
	pos := make(map[Emotion]int)
	var sorted []Emotion
	for _, l := range labels {
		if _, seen := pos[l]; !seen {
			pos[l] = 0
			sorted = append(sorted, l)
		}
	}
	sortEmotions(sorted)
	for i, l := range sorted {
		pos[l] = i
	}
	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = pos[l]
	}
	return sorted, y
}

// logisticRegression is a multinomial, L2-regularized, class-balanced
// logistic regression.
type logisticRegression struct {
	labels  []Emotion
	weights *mat.Dense    // features x classes
	bias    *mat.VecDense // classes
}

type logisticSettings struct {
	C             float64
	MaxIterations int
}

type fitStats struct {
	Iterations int
	Converged  bool
	Status     string
}

// fitLogistic minimizes
//
//	(1/n) * sum_i w_i * (logsumexp(z_i) - z_i[y_i]) + ||W||^2 / (2*C*n)
//
// where z_i = x_i W + b, using L-BFGS. The bias is not penalized.
func fitLogistic(X *mat.Dense, labels []Emotion, settings logisticSettings) (*logisticRegression, fitStats, error) {
	n, d := X.Dims()
	classes, y := labelIndex(labels)
	k := len(classes)
	if k < 2 {
		return nil, fitStats{}, ErrTooFewClasses
	}
	if settings.C <= 0 {
		return nil, fitStats{}, fmt.Errorf("inverse regularization strength must be positive, got %v", settings.C)
	}
	sw := balancedWeights(y, k)
	nf := float64(n)
	penalty := 1 / (settings.C * nf)

	// Scratch space shared by Func and Grad; optimize calls them serially.
	scores := mat.NewDense(n, k, nil)
	dz := mat.NewDense(n, k, nil)
	row := make([]float64, k)

	forward := func(x []float64) (*mat.Dense, []float64) {
		W := mat.NewDense(d, k, x[:d*k])
		b := x[d*k:]
		scores.Mul(X, W)
		for i := 0; i < n; i++ {
			floats.Add(scores.RawRowView(i), b)
		}
		return W, b
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			forward(x)
			loss := 0.0
			for i := 0; i < n; i++ {
				z := scores.RawRowView(i)
				loss += sw[i] * (floats.LogSumExp(z) - z[y[i]])
			}
			w := x[:d*k]
			return loss/nf + 0.5*penalty*floats.Dot(w, w)
		},
		Grad: func(grad, x []float64) {
			W, _ := forward(x)
			for i := 0; i < n; i++ {
				z := scores.RawRowView(i)
				lse := floats.LogSumExp(z)
				for c := range row {
					row[c] = math.Exp(z[c] - lse)
				}
				row[y[i]]--
				floats.Scale(sw[i]/nf, row)
				dz.SetRow(i, row)
			}
			G := mat.NewDense(d, k, grad[:d*k])
			G.Mul(X.T(), dz)
			var reg mat.Dense
			reg.Scale(penalty, W)
			G.Add(G, &reg)

			gb := grad[d*k:]
			for c := range gb {
				gb[c] = 0
			}
			for i := 0; i < n; i++ {
				floats.Add(gb, dz.RawRowView(i))
			}
		},
	}

	x0 := make([]float64, d*k+k)
	opts := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   settings.MaxIterations,
	}
	result, err := optimize.Minimize(problem, x0, opts, &optimize.LBFGS{})
	if result == nil {
		if err == nil {
			err = errors.New("optimizer returned no result")
		}
		return nil, fitStats{}, err
	}
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fitStats{}, fmt.Errorf("optimizer diverged: %v", result.Status)
		}
	}

	stats := fitStats{
		Iterations: result.Stats.MajorIterations,
		Converged:  err == nil && result.Status != optimize.IterationLimit,
		Status:     result.Status.String(),
	}

	x := result.X
	return &logisticRegression{
		labels:  classes,
		weights: mat.NewDense(d, k, append([]float64(nil), x[:d*k]...)),
		bias:    mat.NewVecDense(k, append([]float64(nil), x[d*k:]...)),
	}, stats, nil
}

func (lr *logisticRegression) Labels() []Emotion {
	return append([]Emotion(nil), lr.labels...)
}

func (lr *logisticRegression) scores(x []float64) ([]float64, error) {
	d, k := lr.weights.Dims()
	if len(x) != d {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), d)
	}
	z := mat.NewVecDense(k, nil)
	z.MulVec(lr.weights.T(), mat.NewVecDense(d, x))
	z.AddVec(z, lr.bias)
	return z.RawVector().Data, nil
}

func (lr *logisticRegression) Predict(x []float64) (Emotion, error) {
	z, err := lr.scores(x)
	if err != nil {
		return "", err
	}
	return lr.labels[floats.MaxIdx(z)], nil
}

func (lr *logisticRegression) PredictProba(x []float64) (map[Emotion]float64, error) {
	z, err := lr.scores(x)
	if err != nil {
		return nil, err
	}
	lse := floats.LogSumExp(z)
	proba := make(map[Emotion]float64, len(z))
	for c, s := range z {
		p := math.Exp(s - lse)
		if math.IsNaN(p) {
			return nil, errors.New("probability is NaN")
		}
		proba[lr.labels[c]] = p
	}
	return proba, nil
}

// nearestCentroid labels a vector with the class whose mean training vector
// is most similar by cosine. It offers no probability estimates.
type nearestCentroid struct {
	labels    []Emotion
	centroids *mat.Dense // classes x features, rows L2-normalized
}

func fitCentroid(X *mat.Dense, labels []Emotion) (*nearestCentroid, error) {
	_, d := X.Dims()
	classes, y := labelIndex(labels)
	k := len(classes)
	if k < 2 {
		return nil, ErrTooFewClasses
	}

	centroids := mat.NewDense(k, d, nil)
	counts := make([]float64, k)
	for i, c := range y {
		floats.Add(centroids.RawRowView(c), X.RawRowView(i))
		counts[c]++
	}
	for c := 0; c < k; c++ {
		r := centroids.RawRowView(c)
		floats.Scale(1/counts[c], r)
		if norm := floats.Norm(r, 2); norm > 0 {
			floats.Scale(1/norm, r)
		}
	}
	return &nearestCentroid{labels: classes, centroids: centroids}, nil
}

func (nc *nearestCentroid) Labels() []Emotion {
	return append([]Emotion(nil), nc.labels...)
}

func (nc *nearestCentroid) Predict(x []float64) (Emotion, error) {
	k, d := nc.centroids.Dims()
	if len(x) != d {
		return "", fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), d)
	}
	sim := mat.NewVecDense(k, nil)
	sim.MulVec(nc.centroids, mat.NewVecDense(d, x))
	return nc.labels[floats.MaxIdx(sim.RawVector().Data)], nil
}
