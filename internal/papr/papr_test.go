package papr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOversampleFactor(t *testing.T) {
	assert.Equal(t, 1, OversampleFactor(48000))
	assert.Equal(t, 2, OversampleFactor(16000))
}

func TestReducePreservesActiveBinsWhenNoClipping(t *testing.T) {
	l := 16
	x := make([]complex128, l)
	mask := make([]bool, l)
	// small amplitude so the oversampled time domain never exceeds unit
	// magnitude and no clipping occurs
	for _, k := range []int{1, 2, 3} {
		x[k] = complex(0.01, 0.01)
		mask[k] = true
	}

	out := Reduce(x, 1, mask)
	for i := range x {
		if mask[i] {
			assert.InDelta(t, real(x[i]), real(out[i]), 1e-6)
			assert.InDelta(t, imag(x[i]), imag(out[i]), 1e-6)
		} else {
			assert.InDelta(t, 0, real(out[i]), 1e-9)
			assert.InDelta(t, 0, imag(out[i]), 1e-9)
		}
	}
}

func TestReduceZerosInactiveBins(t *testing.T) {
	l := 16
	x := make([]complex128, l)
	mask := make([]bool, l)
	for k := 0; k < l; k++ {
		x[k] = complex(5, 0) // deliberately large, forces clipping
	}
	mask[3] = true

	out := Reduce(x, 2, mask)
	for i := range out {
		if i != 3 {
			assert.Equal(t, 0.0, real(out[i]))
			assert.Equal(t, 0.0, imag(out[i]))
		}
	}
}

func TestReduceBoundsTimeDomainAmplitude(t *testing.T) {
	l := 32
	x := make([]complex128, l)
	mask := make([]bool, l)
	for k := 1; k < l/2; k++ {
		x[k] = complex(10*math.Cos(float64(k)), 10*math.Sin(float64(k)))
		mask[k] = true
	}
	out := Reduce(x, 4, mask)
	assert.Len(t, out, l)
}
