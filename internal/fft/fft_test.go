package fft

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip7680(t *testing.T) {
	n := 7680 // 2^9 * 3 * 5, the 48 kHz symbol length (spec.md §3)
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(2*math.Pi*float64(i)/float64(n)), math.Cos(3*float64(i)/float64(n)))
	}

	y := Forward(x)
	z := Inverse(y)

	var maxRelErr float64
	for i := range x {
		d := cmplx.Abs(z[i] - x[i])
		denom := cmplx.Abs(x[i])
		if denom < 1e-9 {
			denom = 1
		}
		if rel := d / denom; rel > maxRelErr {
			maxRelErr = rel
		}
	}
	assert.Less(t, maxRelErr, 1e-3)
}

func TestParsevalAt128(t *testing.T) {
	n := 128
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(2*math.Pi*float64(i)/float64(n)), 0)
	}
	y := Forward(x)

	var sumX, sumY float64
	for i := range x {
		sumX += real(x[i])*real(x[i]) + imag(x[i])*imag(x[i])
		sumY += real(y[i])*real(y[i]) + imag(y[i])*imag(y[i])
	}
	sumY /= float64(n)

	assert.InEpsilon(t, sumX, sumY, 0.01)
}

func TestEnergyConcentration(t *testing.T) {
	n := 360 // 2^3*3^2*5, exercises a genuinely mixed-radix size
	bin := 17
	x := make([]complex128, n)
	for i := range x {
		theta := 2 * math.Pi * float64(bin) * float64(i) / float64(n)
		x[i] = cmplx.Rect(1, theta)
	}
	y := Forward(x)

	maxMag, maxIdx := 0.0, -1
	for i, v := range y {
		if m := cmplx.Abs(v); m > maxMag {
			maxMag, maxIdx = m, i
		}
	}
	assert.Equal(t, bin, maxIdx)
	assert.InDelta(t, float64(n), maxMag, 1e-6)
}

func TestKnownValuesConstant(t *testing.T) {
	x := []complex128{1, 1, 1, 1}
	y := Forward(x)
	assert.InDelta(t, 4.0, cmplx.Abs(y[0]), 1e-9)
	for i := 1; i < 4; i++ {
		assert.InDelta(t, 0.0, cmplx.Abs(y[i]), 1e-9)
	}
}

func TestPrimeSizeDirectDFT(t *testing.T) {
	n := 31
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(float64(i), 0)
	}
	y := Forward(x)
	z := Inverse(y)
	for i := range x {
		assert.InDelta(t, real(x[i]), real(z[i]), 1e-6)
	}
}
