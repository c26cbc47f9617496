// Package layer defines the trainable parameter type and the layer interface
// shared by the tagger layers.
package layer

// Layer is any layer which owns trainable parameters
type Layer interface {

	// Parameters lists the trainable parameters in a stable order.
	Parameters() []*Param
}

// ZeroGrad clears the accumulated gradients of every parameter of the layers.
func ZeroGrad(layers ...Layer) {
	for _, l := range layers {
		for _, p := range l.Parameters() {
			p.ZeroGrad()
		}
	}
}
