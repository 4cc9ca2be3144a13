// Package qmath provides single-precision complex and saturating int8
// arithmetic. The modem's DSP, FFT and polar-code packages do not import
// it; they use Go's built-in complex types and their own helpers.
package qmath

import "math"

// C is a single-precision complex sample. Internal DSP works in f32 even
// though Go's native complex128 is f64, so the modem's arithmetic stays
// bit-reproducible across platforms without relying on complex128 rounding.
type C struct {
	Re, Im float32
}

// Zero is the additive identity.
var Zero = C{}

// Add returns a + b.
func Add(a, b C) C { return C{a.Re + b.Re, a.Im + b.Im} }

// Sub returns a - b.
func Sub(a, b C) C { return C{a.Re - b.Re, a.Im - b.Im} }

// Mul returns a * b.
func Mul(a, b C) C {
	return C{a.Re*b.Re - a.Im*b.Im, a.Re*b.Im + a.Im*b.Re}
}

// Scale returns a scaled by the real factor s.
func Scale(a C, s float32) C { return C{a.Re * s, a.Im * s} }

// Conj returns the complex conjugate of a.
func Conj(a C) C { return C{a.Re, -a.Im} }

// Norm returns |a|^2.
func Norm(a C) float32 { return a.Re*a.Re + a.Im*a.Im }

// Abs returns |a|.
func Abs(a C) float32 { return float32(math.Sqrt(float64(Norm(a)))) }

// Arg returns the phase angle of a in radians.
func Arg(a C) float32 { return float32(math.Atan2(float64(a.Im), float64(a.Re))) }

// Polar builds a complex sample from magnitude r and angle theta.
func Polar(r, theta float32) C {
	s, c := math.Sincos(float64(theta))
	return C{r * float32(c), r * float32(s)}
}

// Div returns a / b. Division by a zero b returns the zero value.
func Div(a, b C) C {
	d := Norm(b)
	if d == 0 {
		return Zero
	}
	n := Mul(a, Conj(b))
	return Scale(n, 1/d)
}

// FromFloat64 converts a complex128 sample (used at FFT boundaries where
// float64 accumulation reduces twiddle-factor error) down to C.
func FromFloat64(re, im float64) C { return C{float32(re), float32(im)} }
