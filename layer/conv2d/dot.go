package conv2d

// Vectorized reports whether the conv kernels run on the assembly dot product.
var Vectorized bool

var dot func(a, b []float64) float64

// axpy computes dst += alpha * s.
var axpy func(dst []float64, alpha float64, s []float64)

func dotNotVectorized(a, b []float64) (o float64) {
	for i, v := range a {
		o += v * b[i]
	}
	return
}

func axpyNotVectorized(dst []float64, alpha float64, s []float64) {
	for i, v := range s {
		dst[i] += alpha * v
	}
}
