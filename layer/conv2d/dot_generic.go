//go:build noasm || !amd64

package conv2d

func init() {
	dot = dotNotVectorized
	axpy = axpyNotVectorized
}
