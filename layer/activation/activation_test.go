package activation

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestReLU(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{-1, 2, 0, 3})
	out := ReLU(x)
	assert.Equal(t, []float64{0, 2, 0, 3}, out.RawMatrix().Data)

	g := ReLUBackward(out, mat.NewDense(2, 2, []float64{5, 6, 7, 8}))
	assert.Equal(t, []float64{0, 6, 0, 8}, g.RawMatrix().Data)
}

func TestLogSoftmaxRowsNormalise(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		0, 0,
		1000, -1000,
		2, 5,
	})
	out := LogSoftmax(x)
	for i := 0; i < 3; i++ {
		var s float64
		for j := 0; j < 2; j++ {
			assert.LessOrEqual(t, out.At(i, j), 0.0)
			s += math.Exp(out.At(i, j))
		}
		assert.InDelta(t, 1, s, 1e-12)
	}
	assert.InDelta(t, math.Log(0.5), out.At(0, 0), 1e-12)
	assert.InDelta(t, 0, out.At(1, 0), 1e-12)
	assert.False(t, math.IsInf(out.At(1, 1), 0))
}

func TestLogSoftmaxBackwardMatchesFiniteDifferences(t *testing.T) {
	r := rand.New(rand.NewPCG(4, 2))
	x := mat.NewDense(4, 3, nil)
	probe := mat.NewDense(4, 3, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			x.Set(i, j, r.NormFloat64())
			probe.Set(i, j, r.NormFloat64())
		}
	}
	f := func() float64 {
		return mat.Sum(mulElem(LogSoftmax(x), probe))
	}
	grad := LogSoftmaxBackward(LogSoftmax(x), probe)

	const h = 1e-6
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			orig := x.At(i, j)
			x.Set(i, j, orig+h)
			up := f()
			x.Set(i, j, orig-h)
			down := f()
			x.Set(i, j, orig)
			assert.InDelta(t, (up-down)/(2*h), grad.At(i, j), 1e-6)
		}
	}
}

func mulElem(a, b mat.Matrix) *mat.Dense {
	var o mat.Dense
	o.MulElem(a, b)
	return &o
}
