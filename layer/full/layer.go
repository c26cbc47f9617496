// Package full implements a fully connected (linear) layer
package full

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/neurlang/tagger/layer"
)

// Full maps every row of an n x in matrix to out scores: y = x W^T + b.
type Full struct {
	in, out int

	weight *layer.Param // out x in
	bias   *layer.Param // out
}

// MustNew creates a new full layer or panics
func MustNew(in, out int, src rand.Source) *Full {
	o, err := New(in, out, src)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with in inputs and out outputs, initialised
// from U(-1/sqrt(in), 1/sqrt(in)).
func New(in, out int, src rand.Source) (*Full, error) {
	if in <= 0 || out <= 0 {
		return nil, errors.Errorf("New Full: in %d and out %d must be positive", in, out)
	}
	o := &Full{
		in:     in,
		out:    out,
		weight: layer.NewParam("full.weight", out, in),
		bias:   layer.NewParam("full.bias", out),
	}
	bound := 1 / math.Sqrt(float64(in))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	for i := range o.weight.Value {
		o.weight.Value[i] = dist.Rand()
	}
	for i := range o.bias.Value {
		o.bias.Value[i] = dist.Rand()
	}
	return o, nil
}

func (f *Full) w() *mat.Dense {
	return mat.NewDense(f.out, f.in, f.weight.Value)
}

// Forward projects x (n x in) to n x out.
func (f *Full) Forward(x mat.Matrix) (*mat.Dense, error) {
	if _, c := x.Dims(); c != f.in {
		return nil, errors.Errorf("full: input width %d, layer expects %d", c, f.in)
	}
	var y mat.Dense
	y.Mul(x, f.w().T())
	r, _ := y.Dims()
	for i := 0; i < r; i++ {
		row := y.RawRowView(i)
		for j := range row {
			row[j] += f.bias.Value[j]
		}
	}
	return &y, nil
}

// Backward accumulates dW += grad^T x and db += column sums of grad, and
// returns the gradient with respect to x.
func (f *Full) Backward(x, grad mat.Matrix) *mat.Dense {
	var dw mat.Dense
	dw.Mul(grad.T(), x)
	acc := mat.NewDense(f.out, f.in, f.weight.Grad)
	acc.Add(acc, &dw)

	r, _ := grad.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < f.out; j++ {
			f.bias.Grad[j] += grad.At(i, j)
		}
	}

	var dx mat.Dense
	dx.Mul(grad, f.w())
	return &dx
}

// Parameters returns the weight then the bias.
func (f *Full) Parameters() []*layer.Param {
	return []*layer.Param{f.weight, f.bias}
}
