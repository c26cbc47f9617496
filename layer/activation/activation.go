// Package activation implements the elementwise and per-row nonlinearities of the tagger
package activation

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ReLU returns max(0, x) elementwise.
func ReLU(x mat.Matrix) *mat.Dense {
	var o mat.Dense
	o.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, x)
	return &o
}

// ReLUBackward masks grad with the positions where the ReLU output was positive.
func ReLUBackward(out, grad mat.Matrix) *mat.Dense {
	var o mat.Dense
	o.Apply(func(i, j int, g float64) float64 {
		if out.At(i, j) > 0 {
			return g
		}
		return 0
	}, grad)
	return &o
}

// LogSoftmax normalises every row of x into log-probabilities.
func LogSoftmax(x mat.Matrix) *mat.Dense {
	var o mat.Dense
	o.CloneFrom(x)
	r, _ := o.Dims()
	for i := 0; i < r; i++ {
		row := o.RawRowView(i)
		floats.AddConst(-floats.LogSumExp(row), row)
	}
	return &o
}

// LogSoftmaxBackward maps grad, the gradient with respect to the log-probabilities
// logp, onto the gradient with respect to the scores: g - softmax * sum(g) per row.
func LogSoftmaxBackward(logp, grad mat.Matrix) *mat.Dense {
	var o mat.Dense
	o.CloneFrom(grad)
	r, c := o.Dims()
	for i := 0; i < r; i++ {
		row := o.RawRowView(i)
		sum := floats.Sum(row)
		for j := 0; j < c; j++ {
			row[j] -= math.Exp(logp.At(i, j)) * sum
		}
	}
	return &o
}
