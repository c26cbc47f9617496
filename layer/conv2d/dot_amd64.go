//go:build !noasm && amd64

package conv2d

import "github.com/klauspost/cpuid/v2"
import "gonum.org/v1/gonum/floats"

func init() {
	// gonum's amd64 kernels pay off once the CPU has AVX2 and FMA
	if cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) {
		dot = floats.Dot
		axpy = floats.AddScaled
		Vectorized = true
	} else {
		dot = dotNotVectorized
		axpy = axpyNotVectorized
	}
}
