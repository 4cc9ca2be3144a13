package dsp

import "math"

// NCO is a phasor numerically-controlled oscillator: a unit-modulus
// complex state updated by multiplication with a fixed per-sample step,
// re-normalized each call to avoid magnitude drift from accumulated
// rounding error (spec.md §4.5).
type NCO struct {
	phasor complex64
	step   complex64
}

// NewNCO creates an oscillator starting at phase 0 with a zero step
// (call Omega or Freq to set the rotation rate).
func NewNCO() *NCO {
	return &NCO{phasor: 1, step: 1}
}

// Omega sets the per-sample rotation in radians.
func (o *NCO) Omega(v float64) {
	o.step = complex64(complex(math.Cos(v), math.Sin(v)))
}

// Freq sets the per-sample rotation in cycles (1.0 = full turn per
// sample).
func (o *NCO) Freq(v float64) {
	o.Omega(2 * math.Pi * v)
}

// Next advances the oscillator by one step and returns the new phasor,
// renormalizing to unit modulus.
func (o *NCO) Next() complex64 {
	o.phasor *= o.step
	mag := float32(math.Hypot(float64(real(o.phasor)), float64(imag(o.phasor))))
	if mag > 0 {
		o.phasor /= complex(mag, 0)
	}
	return o.phasor
}

// Phasor returns the current phasor without advancing.
func (o *NCO) Phasor() complex64 { return o.phasor }

// Reset returns the oscillator to phase 0.
func (o *NCO) Reset() { o.phasor = 1 }
