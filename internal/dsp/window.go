package dsp

import "math"

// Window functions evaluated pointwise (spec.md §4.5) — callers index into
// them per-sample rather than materializing a full coefficient table
// unless the table is reused many times (e.g. the Hilbert FIR below).

// Hann evaluates the Hann window at index i of n.
func Hann(i, n int) float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
}

// Blackman evaluates the Blackman window at index i of n.
func Blackman(i, n int) float64 {
	x := 2 * math.Pi * float64(i) / float64(n-1)
	return 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
}

// besselI0 approximates the zeroth-order modified Bessel function of the
// first kind, used by the Kaiser window.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	halfX := x / 2
	for k := 1; k < 32; k++ {
		term *= (halfX / float64(k))
		term *= (halfX / float64(k))
		sum += term
		if term < sum*1e-15 {
			break
		}
	}
	return sum
}

// Kaiser evaluates the Kaiser window with shape parameter beta at index i
// of n.
func Kaiser(i, n int, beta float64) float64 {
	alpha := float64(n-1) / 2
	t := (float64(i) - alpha) / alpha
	arg := beta * math.Sqrt(1-t*t)
	return besselI0(arg) / besselI0(beta)
}
