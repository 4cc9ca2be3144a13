package dsp

import "math"

// HilbertTapsFor returns the Kaiser-windowed Hilbert FIR tap count for
// sample rate Fs: (((33*Fs/8000) &^ 3) | 1), always odd and ≡ 1 (mod 4)
// (spec.md §4.5).
func HilbertTapsFor(fs int) int {
	n := (33 * fs) / 8000
	n = n &^ 3
	return n | 1
}

// Hilbert is a Kaiser-windowed FIR Hilbert transformer producing the
// analytic signal for a real input stream: the real branch is a pure
// delay through the center tap, the imaginary branch filters the odd
// taps weighted by 2/((2i+1)*pi), matching spec.md §4.5 exactly so the
// encoder's implicit real-signal assumptions and the decoder's analytic
// front-end agree bit-for-bit with a reference implementation.
type Hilbert struct {
	taps   []float64 // imaginary-branch FIR coefficients, index 0..n-1
	center int
	hist   []float32 // circular history of real input samples
	pos    int
}

const hilbertBeta = 5.0 // Kaiser shape parameter, moderate stopband attenuation

// NewHilbert builds a Hilbert transformer with n taps (n must be odd,
// n%4==1 per spec.md).
func NewHilbert(n int) *Hilbert {
	h := &Hilbert{
		taps:   make([]float64, n),
		center: n / 2,
		hist:   make([]float32, n),
	}
	for i := 0; i < n; i++ {
		k := i - h.center
		if k%2 == 0 {
			h.taps[i] = 0
			continue
		}
		w := Kaiser(i, n, hilbertBeta)
		h.taps[i] = (2 / (float64(k) * math.Pi)) * w
	}
	return h
}

// Step feeds one real sample and returns the analytic (complex) output:
// real part is the delayed input at the center tap, imaginary part is the
// Hilbert-filtered output.
func (h *Hilbert) Step(x float32) (re, im float32) {
	n := len(h.hist)
	h.hist[h.pos] = x
	// oldest-to-newest walk starting one past pos (pos holds newest)
	var acc float64
	idx := h.pos + 1
	if idx >= n {
		idx = 0
	}
	for i := 0; i < n; i++ {
		acc += h.taps[n-1-i] * float64(h.hist[idx])
		idx++
		if idx >= n {
			idx = 0
		}
	}
	centerIdx := h.pos - h.center
	for centerIdx < 0 {
		centerIdx += n
	}
	re = h.hist[centerIdx]
	im = float32(acc)
	h.pos++
	if h.pos >= n {
		h.pos = 0
	}
	return re, im
}

// Reset clears the filter's history.
func (h *Hilbert) Reset() {
	for i := range h.hist {
		h.hist[i] = 0
	}
	h.pos = 0
}
