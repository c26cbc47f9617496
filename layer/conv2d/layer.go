// Package conv2d implements a valid-mode 2D convolution whose kernel spans the
// full width of a single-channel input image
package conv2d

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/neurlang/tagger/layer"
)

// ErrTooShort is returned when the input has fewer rows than the kernel height.
var ErrTooShort = errors.New("conv2d: input shorter than kernel")

// Conv2D holds channels filters, each height rows by width columns.
// The input image is rows x width, so the output is channels x (rows - height + 1) x 1.
type Conv2D struct {
	channels, height, width int

	weight *layer.Param // channels x height x width
	bias   *layer.Param // channels
}

// New creates a Conv2D layer with weights and biases drawn from U(-1/sqrt(fan_in), 1/sqrt(fan_in)).
func New(channels, height, width int, src rand.Source) (*Conv2D, error) {
	if channels <= 0 {
		return nil, errors.Errorf("New Conv2D: Channels %d is not positive", channels)
	}
	if height <= 0 {
		return nil, errors.Errorf("New Conv2D: Height %d is not positive", height)
	}
	if width <= 0 {
		return nil, errors.Errorf("New Conv2D: Width %d is not positive", width)
	}
	o := &Conv2D{
		channels: channels,
		height:   height,
		width:    width,
		weight:   layer.NewParam("conv.weight", channels, height, width),
		bias:     layer.NewParam("conv.bias", channels),
	}
	bound := 1 / math.Sqrt(float64(height*width))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: src}
	for i := range o.weight.Value {
		o.weight.Value[i] = dist.Rand()
	}
	for i := range o.bias.Value {
		o.bias.Value[i] = dist.Rand()
	}
	return o, nil
}

// MustNew creates a Conv2D layer or panics
func MustNew(channels, height, width int, src rand.Source) *Conv2D {
	o, err := New(channels, height, width, src)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Channels returns the number of filters.
func (c *Conv2D) Channels() int { return c.channels }

// Height returns the kernel height.
func (c *Conv2D) Height() int { return c.height }

// OutputLen returns the number of valid positions for an input of rows rows.
// It is zero or negative when the kernel does not fit.
func (c *Conv2D) OutputLen(rows int) int {
	return rows - c.height + 1
}

// Parameters returns the weight then the bias.
func (c *Conv2D) Parameters() []*layer.Param {
	return []*layer.Param{c.weight, c.bias}
}
