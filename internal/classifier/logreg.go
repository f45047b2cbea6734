package classifier

import (
	"context"
	"math"

	"github.com/spigell/skillmatch/internal/lexical"
)

// LogRegConfig controls the per-label logistic regression fit.
type LogRegConfig struct {
	// C is the inverse L2 regularization strength.
	C         float64
	MaxIter   int
	Tolerance float64
}

// binaryModel is one logistic regression over the lexical feature space.
type binaryModel struct {
	weights []float64
	bias    float64
	iters   int
}

// Model is a one-vs-rest multi-label classifier: one independent binary
// logistic regression per label column.
type Model struct {
	RunID     string      `json:"run_id"`
	Threshold float64     `json:"threshold"`
	Features  int         `json:"features"`
	Weights   [][]float64 `json:"weights"`
	Bias      []float64   `json:"bias"`
}

// Labels returns the number of label columns.
func (m *Model) Labels() int {
	return len(m.Bias)
}

// Probabilities returns P(label | x) for every column.
func (m *Model) Probabilities(x lexical.SparseVector) []float64 {
	out := make([]float64, len(m.Bias))
	for j := range m.Bias {
		out[j] = sigmoid(sparseDot(m.Weights[j], x) + m.Bias[j])
	}
	return out
}

// Predict applies the decision threshold to every column.
func (m *Model) Predict(x lexical.SparseVector) []bool {
	probs := m.Probabilities(x)
	out := make([]bool, len(probs))
	for j, p := range probs {
		out[j] = p >= m.Threshold
	}
	return out
}

// fitOneVsRest trains one binary model per column of y. Columns are fitted
// sequentially; ctx is checked between columns.
func fitOneVsRest(ctx context.Context, x []lexical.SparseVector, y [][]bool, features, labels int, cfg LogRegConfig) (*Model, []int, error) {
	model := &Model{
		Features: features,
		Weights:  make([][]float64, labels),
		Bias:     make([]float64, labels),
	}
	iters := make([]int, labels)

	target := make([]bool, len(x))
	for j := 0; j < labels; j++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		for i := range y {
			target[i] = y[i][j]
		}
		bm := fitBinary(x, target, features, cfg)
		model.Weights[j] = bm.weights
		model.Bias[j] = bm.bias
		iters[j] = bm.iters
	}
	return model, iters, nil
}

// fitBinary minimizes mean log-loss plus (lambda/2)*|w|^2, lambda = 1/(C*n),
// with full-batch gradient descent. Inputs are L2-normalized, which bounds the
// curvature of the loss and gives a safe fixed step size. Training stops when
// the largest gradient component drops below the tolerance.
func fitBinary(x []lexical.SparseVector, y []bool, features int, cfg LogRegConfig) binaryModel {
	n := float64(len(x))
	w := make([]float64, features)
	var b float64
	if len(x) == 0 {
		return binaryModel{weights: w}
	}

	lambda := 1 / (cfg.C * n)
	step := 1 / (0.25 + lambda)

	grad := make([]float64, features)
	iter := 0
	for iter < cfg.MaxIter {
		iter++
		clear(grad)
		var gradB float64

		for i, row := range x {
			p := sigmoid(sparseDot(w, row) + b)
			residual := p
			if y[i] {
				residual -= 1
			}
			for k, idx := range row.Indices {
				grad[idx] += residual * float64(row.Values[k])
			}
			gradB += residual
		}

		maxGrad := math.Abs(gradB / n)
		for k := range grad {
			grad[k] = grad[k]/n + lambda*w[k]
			maxGrad = math.Max(maxGrad, math.Abs(grad[k]))
		}
		if maxGrad < cfg.Tolerance {
			break
		}

		for k := range w {
			w[k] -= step * grad[k]
		}
		b -= step * gradB / n
	}

	return binaryModel{weights: w, bias: b, iters: iter}
}

func sparseDot(w []float64, x lexical.SparseVector) float64 {
	var sum float64
	for k, idx := range x.Indices {
		sum += w[idx] * float64(x.Values[k])
	}
	return sum
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
