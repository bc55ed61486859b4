package emotext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// toyProblem is a linearly separable set of one-hot vectors.
func toyProblem() (*mat.Dense, []Emotion) {
	X := mat.NewDense(6, 3, []float64{
		1, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 1,
	})
	return X, []Emotion{Sad, Sad, Happy, Happy, Angry, Angry}
}

func TestBalancedWeights(t *testing.T) {
	// Three samples of class 0, one of class 1: n/(k*n_c).
	w := balancedWeights([]int{0, 0, 0, 1}, 2)
	assert.InDeltaSlice(t, []float64{4.0 / 6, 4.0 / 6, 4.0 / 6, 2}, w, 1e-12)

	total := make([]float64, 2)
	for i, c := range []int{0, 0, 0, 1} {
		total[c] += w[i]
	}
	assert.InDelta(t, total[0], total[1], 1e-12)
}

func TestLabelIndex(t *testing.T) {
	classes, y := labelIndex([]Emotion{Sad, Happy, Sad, Angry})
	assert.Equal(t, []Emotion{Angry, Happy, Sad}, classes)
	assert.Equal(t, []int{2, 1, 2, 0}, y)
}

func TestLogisticRegression(t *testing.T) {
	X, labels := toyProblem()
	lr, stats, err := fitLogistic(X, labels, logisticSettings{C: 10, MaxIterations: 500})
	require.NoError(t, err)
	assert.Greater(t, stats.Iterations, 0)
	assert.Equal(t, []Emotion{Angry, Happy, Sad}, lr.Labels())

	for i, want := range labels {
		x := X.RawRowView(i)
		got, err := lr.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		proba, err := lr.PredictProba(x)
		require.NoError(t, err)
		require.Len(t, proba, 3)

		sum, best := 0.0, Emotion("")
		for label, p := range proba {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
			if best == "" || p > proba[best] {
				best = label
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Equal(t, got, best, "predict must agree with the most probable label")
		assert.Greater(t, proba[want], 0.5)
	}
}

func TestLogisticRegressionErrors(t *testing.T) {
	X, labels := toyProblem()

	_, _, err := fitLogistic(X, labels, logisticSettings{C: 0, MaxIterations: 10})
	assert.Error(t, err)

	same := []Emotion{Sad, Sad, Sad, Sad, Sad, Sad}
	_, _, err = fitLogistic(X, same, logisticSettings{C: 1, MaxIterations: 10})
	assert.True(t, errors.Is(err, ErrTooFewClasses))

	lr, _, err := fitLogistic(X, labels, logisticSettings{C: 1, MaxIterations: 100})
	require.NoError(t, err)
	_, err = lr.Predict([]float64{1, 0})
	assert.True(t, errors.Is(err, ErrDimension))
	_, err = lr.PredictProba([]float64{1, 0, 0, 0})
	assert.True(t, errors.Is(err, ErrDimension))
}

func TestNearestCentroid(t *testing.T) {
	X, labels := toyProblem()
	nc, err := fitCentroid(X, labels)
	require.NoError(t, err)

	var c Classifier = nc
	_, probabilistic := c.(ProbabilisticClassifier)
	assert.False(t, probabilistic)

	for i, want := range labels {
		got, err := nc.Predict(X.RawRowView(i))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = nc.Predict([]float64{1})
	assert.True(t, errors.Is(err, ErrDimension))
}
