package prach

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Synthesize builds the frequency-domain preamble for physical root u and
// cyclic shift cv:
//
//	n[k] = ((k + cv) mod L_RA) + 1
//	x[k] = exp(iπ·u·n[k] / L_RA)
//	y    = DFT_L_RA(x)
//
// The phase is taken from the shifted index n[k], not k.
func Synthesize(lra, u, cv int) []complex64 {
	x := make([]complex128, lra)
	for k := 0; k < lra; k++ {
		n := (k+cv)%lra + 1
		phase := math.Pi * float64(u) * float64(n) / float64(lra)
		x[k] = complex(math.Cos(phase), math.Sin(phase))
	}

	// L_RA is prime (839), so this goes through gonum's generic-radix path.
	// CmplxFFT keeps scratch space, so each call gets its own instance.
	fft := fourier.NewCmplxFFT(lra)
	coeffs := fft.Coefficients(nil, x)

	y := make([]complex64, lra)
	for i, c := range coeffs {
		y[i] = complex64(c)
	}
	return y
}
