// Package fft implements the mixed-radix forward/inverse DFT used for
// every OFDM symbol (spec.md §4.6). Sizes must factor over the small
// primes {2,3,5,7,11,13,17,19,23,29,31} — in particular N=7680 at 48 kHz,
// which factors as 2^9 * 3 * 5 and is not a power of two, so
// playok-audio-modem's radix-2-only Cooley-Tukey (internal/modem/fft.go)
// is generalized here to a recursive mixed-radix decimation-in-time
// transform: at each level the length is split into its smallest prime
// factor p and the remaining size N/p, p DFTs of size N/p are combined
// with twiddle factors into one DFT of size N (the standard
// Cooley-Tukey composite decomposition, applied recursively down to a
// prime-sized base case evaluated by direct summation).
package fft

import "math"

// smallPrimes is the factor set spec.md permits (§4.6); radix-4/8 power
// cases fall out naturally from repeated factor-2 splits in this
// recursive formulation.
var smallPrimes = []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31}

// smallestFactor returns the smallest prime factor of n from the
// permitted set, or n itself if n is already prime (or 1).
func smallestFactor(n int) int {
	for _, p := range smallPrimes {
		if p > n {
			break
		}
		if n%p == 0 {
			return p
		}
	}
	return n
}

// Forward computes the DFT of x (length must factor over the permitted
// primes). Returns a new slice; x is not modified.
func Forward(x []complex128) []complex128 {
	out := make([]complex128, len(x))
	transform(x, out, len(x), false)
	return out
}

// Inverse computes the inverse DFT of x, scaled by 1/N.
func Inverse(x []complex128) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	transform(x, out, n, true)
	scale := 1 / float64(n)
	for i := range out {
		out[i] *= complex(scale, 0)
	}
	return out
}

// transform computes the length-n DFT of x into out, recursively
// splitting n into its smallest permitted prime factor and the
// remaining composite size (Cooley-Tukey decimation in time).
func transform(x []complex128, out []complex128, n int, inverse bool) {
	if n == 1 {
		out[0] = x[0]
		return
	}

	p := smallestFactor(n)
	m := n / p

	if p == n {
		// n is prime (or below the permitted factor table) — direct DFT.
		directDFT(x, out, n, inverse)
		return
	}

	// Split into p interleaved sub-sequences of length m (decimation in
	// time by residue mod p), transform each recursively, then combine
	// with twiddle factors (the standard prime-factor butterfly).
	subIn := make([]complex128, m)
	subOut := make([][]complex128, p)
	for r := 0; r < p; r++ {
		for i := 0; i < m; i++ {
			subIn[i] = x[r+i*p]
		}
		so := make([]complex128, m)
		transform(subIn, so, m, inverse)
		subOut[r] = so
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	for k := 0; k < n; k++ {
		var sum complex128
		// twiddle for residue r at output k: W_n^(k*r) applied to the
		// r-th sub-transform evaluated at k mod m (Cooley-Tukey DIT
		// composite-radix identity).
		wk := cExp(sign * 2 * math.Pi * float64(k) / float64(n))
		tw := complex(1, 0)
		for r := 0; r < p; r++ {
			sum += tw * subOut[r][k%m]
			tw *= wk
		}
		out[k] = sum
	}
}

// directDFT evaluates an O(n^2) DFT, used as the base case for prime
// (or out-of-table) sizes, which are always small per spec.md's factor
// set (<=31).
func directDFT(x []complex128, out []complex128, n int, inverse bool) {
	sign := -1.0
	if inverse {
		sign = 1.0
	}
	for k := 0; k < n; k++ {
		var sum complex128
		for j := 0; j < n; j++ {
			angle := sign * 2 * math.Pi * float64(k) * float64(j) / float64(n)
			sum += x[j] * cExp(angle)
		}
		out[k] = sum
	}
}

func cExp(theta float64) complex128 {
	s, c := math.Sincos(theta)
	return complex(c, s)
}
