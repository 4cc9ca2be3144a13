// Package papr implements iterative clipping peak-to-average power ratio
// reduction on a sparse OFDM spectrum (spec.md §4.7), applied to every
// outbound symbol in internal/ofdm. New relative to playok-audio-modem
// (which has no PAPR stage) but built entirely from internal/fft's
// IFFT/FFT pair, following the teacher's normalizeAmplitude headroom
// convention in internal/modem/sync.go.
package papr

import (
	"math"

	"github.com/kc9wxq/ofdmtext/internal/fft"
)

// OversampleFactor returns floor((32000 + Fs/2) / Fs), the oversampling
// factor spec.md §4.7 specifies (1 at 48kHz, 2 at 16kHz, ...).
func OversampleFactor(fs int) int {
	return (32000 + fs/2) / fs
}

// zeroPadFreq zero-pads a length-L spectrum (DC at index 0, positive
// frequencies 0..L/2-1, negative frequencies L/2..L-1) to length f*L,
// preserving the wrap-around layout: low positive frequencies stay at the
// start, negative frequencies move to the end of the larger array.
func zeroPadFreq(x []complex128, f int) []complex128 {
	l := len(x)
	out := make([]complex128, f*l)
	half := l / 2
	copy(out[:half], x[:half])
	copy(out[len(out)-(l-half):], x[half:])
	return out
}

// extractFreq is the inverse of zeroPadFreq: reads back the original
// length-L spectrum from a length f*L one.
func extractFreq(x []complex128, l int) []complex128 {
	out := make([]complex128, l)
	half := l / 2
	copy(out[:half], x[:half])
	copy(out[half:], x[len(x)-(l-half):])
	return out
}

// Reduce applies one pass of clip-filter PAPR reduction to spectrum X
// (length L, in FFT bin order), returning a new spectrum of the same
// length with only the bins in activeMask left nonzero.
//
// Steps (spec.md §4.7): zero-pad to f*L preserving wrap-around, inverse
// transform and scale by 1/sqrt(f*L), clip time-domain samples whose
// magnitude exceeds 1 to unit magnitude, forward-transform, then zero
// every bin outside activeMask.
func Reduce(x []complex128, f int, activeMask []bool) []complex128 {
	l := len(x)
	if f <= 1 {
		f = 1
	}

	padded := zeroPadFreq(x, f)
	td := fft.Inverse(padded)
	scale := 1 / math.Sqrt(float64(f*l))
	for i := range td {
		td[i] *= complex(scale, 0)
	}

	for i, v := range td {
		mag := cAbs(v)
		if mag > 1 {
			td[i] = v / complex(mag, 0)
		}
	}

	// Undo the 1/sqrt(f*L) scaling before the forward transform so the
	// round trip through fft.Forward/Inverse preserves amplitude.
	for i := range td {
		td[i] /= complex(scale, 0)
	}

	// fft.Forward exactly inverts fft.Inverse (which already carries the
	// 1/N scaling), so after undoing the extra 1/sqrt(f*L) factor above,
	// this forward transform reproduces `padded` unchanged wherever
	// clipping did not alter the time-domain sample.
	fd := fft.Forward(td)

	reduced := extractFreq(fd, l)
	out := make([]complex128, l)
	for i := range out {
		if i < len(activeMask) && activeMask[i] {
			out[i] = reduced[i]
		}
	}
	return out
}

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
