package conv2d

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Forward convolves the rows x width input, returning channels x OutputLen(rows).
//
// Because the kernel spans every column, the window feeding output position t is
// the contiguous run of input rows t..t+height-1, so each output is one dot product.
func (c *Conv2D) Forward(x *mat.Dense) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if cols != c.width {
		return nil, errors.Errorf("conv2d: input width %d, kernel width %d", cols, c.width)
	}
	n := c.OutputLen(rows)
	if n <= 0 {
		return nil, errors.Wrapf(ErrTooShort, "%d rows, kernel height %d", rows, c.height)
	}
	in := contiguous(x)
	span := c.height * c.width
	out := mat.NewDense(c.channels, n, nil)
	for ch := 0; ch < c.channels; ch++ {
		w := c.weight.Value[ch*span : (ch+1)*span]
		b := c.bias.Value[ch]
		row := out.RawRowView(ch)
		for t := range row {
			row[t] = b + dot(w, in[t*c.width:t*c.width+span])
		}
	}
	return out, nil
}

// Backward accumulates the weight and bias gradients for the input x given
// grad, the gradient of the loss with respect to the Forward output, and
// returns the gradient with respect to x.
func (c *Conv2D) Backward(x, grad *mat.Dense) *mat.Dense {
	rows, _ := x.Dims()
	in := contiguous(x)
	span := c.height * c.width
	dx := mat.NewDense(rows, c.width, nil)
	dxr := dx.RawMatrix().Data
	for ch := 0; ch < c.channels; ch++ {
		w := c.weight.Value[ch*span : (ch+1)*span]
		dw := c.weight.Grad[ch*span : (ch+1)*span]
		for t, g := range grad.RawRowView(ch) {
			if g == 0 {
				continue
			}
			c.bias.Grad[ch] += g
			axpy(dw, g, in[t*c.width:t*c.width+span])
			axpy(dxr[t*c.width:t*c.width+span], g, w)
		}
	}
	return dx
}

// contiguous returns the row-major backing data of x, copying when x is a strided view.
func contiguous(x *mat.Dense) []float64 {
	raw := x.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	var c mat.Dense
	c.CloneFrom(x)
	return c.RawMatrix().Data
}
