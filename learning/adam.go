package learning

import (
	"math"

	"github.com/neurlang/tagger/layer"
)

// Adam keeps per-parameter moment estimates and applies bias-corrected updates:
//
//	m = b1*m + (1-b1)*g
//	v = b2*v + (1-b2)*g*g
//	p -= lr * (m / (1-b1^t)) / (sqrt(v / (1-b2^t)) + eps)
type Adam struct {
	h      HyperParameters
	params []*layer.Param
	m, v   [][]float64
	t      int
}

// NewAdam creates an optimizer over params.
func NewAdam(params []*layer.Param, h HyperParameters) (*Adam, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	o := &Adam{
		h:      h,
		params: params,
		m:      make([][]float64, len(params)),
		v:      make([][]float64, len(params)),
	}
	for i, p := range params {
		o.m[i] = make([]float64, p.Len())
		o.v[i] = make([]float64, p.Len())
	}
	return o, nil
}

// Steps returns how many updates were applied.
func (o *Adam) Steps() int {
	return o.t
}

// Step updates every parameter from its accumulated gradient.
func (o *Adam) Step() {
	o.t++
	b1, b2 := o.h.Beta1, o.h.Beta2
	bias1 := 1 - math.Pow(b1, float64(o.t))
	bias2 := 1 - math.Pow(b2, float64(o.t))

	for i, p := range o.params {
		m, v := o.m[i], o.v[i]
		for j, g := range p.Grad {
			m[j] = b1*m[j] + (1-b1)*g
			v[j] = b2*v[j] + (1-b2)*g*g
			p.Value[j] -= o.h.LearningRate * (m[j] / bias1) / (math.Sqrt(v[j]/bias2) + o.h.Epsilon)
		}
	}
}

// ZeroGrad clears the gradients of the optimized parameters.
func (o *Adam) ZeroGrad() {
	for _, p := range o.params {
		p.ZeroGrad()
	}
}
