package fft

// RealForward computes the DFT of a real-valued input.
func RealForward(x []float64) []complex128 {
	cx := make([]complex128, len(x))
	for i, v := range x {
		cx[i] = complex(v, 0)
	}
	return Forward(cx)
}

// RealInverse computes the inverse DFT and returns only the real part,
// used for final time-domain OFDM symbol synthesis (the encoder always
// builds Hermitian-symmetric or explicitly real-target spectra).
func RealInverse(x []complex128) []float64 {
	result := Inverse(x)
	out := make([]float64, len(result))
	for i, v := range result {
		out[i] = real(v)
	}
	return out
}
