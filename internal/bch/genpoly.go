// Package bch implements the systematic BCH(255,71) encoder and an
// order-2 ordered-statistics soft decoder (spec.md §4.8) protecting the
// preamble's 71-bit metadata field. No BCH code exists anywhere in the
// retrieval pack; this is built from spec.md's own minimal-polynomial
// table (§6), with the parity shift register held as a plain one-bit-per-
// byte slice and the OSD reliability order computed with sort.Slice,
// following playok-audio-modem's plain, allocation-conscious function
// style throughout.
package bch

// N, K are the BCH(255,71) code parameters (spec.md §3/§4.8).
const (
	N = 255
	K = 71
	ParityLen = N - K // 184
)

// minimalPolynomials is the 24-polynomial list from spec.md §6, each an
// integer with LSB = the constant term.
var minimalPolynomials = []uint32{
	0x11D, 0x177, 0x1F3, 0x169, 0x17D, 0x1E7, 0x12B, 0x1D7,
	0x013, 0x165, 0x18B, 0x163, 0x11B, 0x13F, 0x18D, 0x12D,
	0x15F, 0x1F9, 0x1C3, 0x139, 0x1A9, 0x01F, 0x187, 0x1B1,
}

// polyToCoeffs expands an integer polynomial into a little-endian
// (LSB-first) coefficient byte slice.
func polyToCoeffs(v uint32) []byte {
	deg := 0
	for p := v; p != 0; p >>= 1 {
		deg++
	}
	if deg == 0 {
		deg = 1
	}
	out := make([]byte, deg)
	for i := range out {
		out[i] = byte((v >> uint(i)) & 1)
	}
	return out
}

// gf2Mul multiplies two GF(2)[x] polynomials (coefficients 0/1,
// LSB-first), via carryless convolution.
func gf2Mul(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			if bj == 1 {
				out[i+j] ^= 1
			}
		}
	}
	return out
}

// GenPoly returns the BCH(255,71) generator polynomial's coefficients,
// LSB-first, as the product of all 24 minimal polynomials in
// minimalPolynomials. Degree must come out to exactly ParityLen (184);
// GenPoly panics otherwise, since a wrong-degree generator cannot
// interoperate with the wire format.
func GenPoly() []byte {
	acc := []byte{1}
	for _, p := range minimalPolynomials {
		acc = gf2Mul(acc, polyToCoeffs(p))
	}
	// trim any accidental trailing zero coefficients above the true degree
	for len(acc) > 1 && acc[len(acc)-1] == 0 {
		acc = acc[:len(acc)-1]
	}
	if len(acc)-1 != ParityLen {
		panic("bch: generator polynomial degree mismatch")
	}
	return acc
}

// genTaps returns the generator's low-order ParityLen coefficients
// (excluding the implicit leading term at degree ParityLen), used as the
// systematic encoder's shift-register feedback taps.
func genTaps() []byte {
	g := GenPoly()
	taps := make([]byte, ParityLen)
	copy(taps, g[:ParityLen])
	return taps
}
