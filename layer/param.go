package layer

import "fmt"

// Param is one trainable tensor, stored row-major, with its accumulated gradient.
type Param struct {
	Name  string
	Shape []int
	Value []float64
	Grad  []float64
}

// NewParam allocates a zeroed parameter of the given shape.
func NewParam(name string, shape ...int) *Param {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			panic(fmt.Sprintf("layer: parameter %s has non-positive dimension %v", name, shape))
		}
		n *= d
	}
	return &Param{
		Name:  name,
		Shape: append([]int(nil), shape...),
		Value: make([]float64, n),
		Grad:  make([]float64, n),
	}
}

// Len returns the number of scalars in the parameter.
func (p *Param) Len() int {
	return len(p.Value)
}

// ZeroGrad clears the gradient.
func (p *Param) ZeroGrad() {
	for i := range p.Grad {
		p.Grad[i] = 0
	}
}

func (p *Param) String() string {
	return fmt.Sprintf("%s%v", p.Name, p.Shape)
}
