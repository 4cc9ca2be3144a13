package acquire

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPhaseStaysInRange(t *testing.T) {
	for _, v := range []float64{0, math.Pi, -math.Pi, 3 * math.Pi, -3 * math.Pi, 10} {
		w := wrapPhase(v)
		assert.True(t, w > -math.Pi-1e-9 && w <= math.Pi+1e-9)
	}
}

func TestCAbs2MatchesSquaredMagnitude(t *testing.T) {
	c := complex64(complex(3, 4))
	assert.InDelta(t, 25.0, float64(cAbs2(c)), 1e-6)
}

func TestStepNeverPanicsOnSilence(t *testing.T) {
	l := 64
	kernel := make([]complex128, l)
	corr := New(l, l/8, kernel)
	assert.NotPanics(t, func() {
		for i := 0; i < 4*l; i++ {
			corr.Step(0)
		}
	})
}

func TestStepNeverPanicsOnRepeatedHalves(t *testing.T) {
	l := 64
	kernel := make([]complex128, l)
	for i := range kernel {
		kernel[i] = complex(1, 0)
	}
	corr := New(l, l/8+1, kernel)

	assert.NotPanics(t, func() {
		for sym := 0; sym < 6; sym++ {
			half := make([]complex64, l/2)
			for i := range half {
				half[i] = complex64(cmplx.Rect(1, float64(i)))
			}
			for i := 0; i < l; i++ {
				corr.Step(half[i%(l/2)])
			}
		}
	})
}
