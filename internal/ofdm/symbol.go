package ofdm

import (
	"math"

	"github.com/kc9wxq/ofdmtext/internal/fft"
	"github.com/kc9wxq/ofdmtext/internal/papr"
)

// buildSpectrum returns a length-geo.L spectrum with value[i] placed at
// bin(carrierBin+relBin[i]) and its Hermitian mirror at the negated bin,
// so the inverse transform is real-valued (spec.md §6: symbols are built
// on bins [-L/2,L/2) then IFFT'd to baseband-real audio), following
// playok-audio-modem's applyHermitianSymmetry/RealIFFT pairing.
func buildSpectrum(geo Geometry, carrierBin int, relBins []int, values []complex128) ([]complex128, []bool) {
	spectrum := make([]complex128, geo.L)
	active := make([]bool, geo.L)
	for i, rel := range relBins {
		b := geo.Bin(carrierBin + rel)
		spectrum[b] = values[i]
		active[b] = true
		mirror := geo.Bin(-(carrierBin + rel))
		if mirror != b {
			spectrum[mirror] = cmplxConj(values[i])
			active[mirror] = true
		}
	}
	return spectrum, active
}

func cmplxConj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}

// symbolBody renders a spectrum to its real PAPR-reduced, scaled
// time-domain body of length geo.L (spec.md §4.13/§6).
func symbolBody(geo Geometry, spectrum []complex128, active []bool) []float64 {
	f := papr.OversampleFactor(geo.Fs)
	reduced := papr.Reduce(spectrum, f, active)
	td := fft.Inverse(reduced)
	scale := geo.Scale()
	out := make([]float64, geo.L)
	for i, v := range td {
		out[i] = real(v) * scale
	}
	return out
}

// guard builds the G-sample guard interval preceding a symbol body: a
// cyclic-prefix copy of the body's own tail, optionally cosine-faded
// against the previous symbol's trailing samples (spec.md §4.13: "cosine
// cross-fade on the first ratio=0.5 of the interval; no cross-fade for
// data-to-data, full for data-to-silence").
func guard(geo Geometry, body []float64, prevTail []float64, crossFade bool) []float64 {
	out := make([]float64, geo.G)
	cyclicPrefix := body[geo.L-geo.G:]
	if !crossFade || len(prevTail) != geo.G {
		copy(out, cyclicPrefix)
		return out
	}
	ratio := 0.5
	fadeLen := int(float64(geo.G) * ratio)
	for i := 0; i < geo.G; i++ {
		if i >= fadeLen {
			out[i] = cyclicPrefix[i]
			continue
		}
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(fadeLen)))
		out[i] = (1-w)*prevTail[i] + w*cyclicPrefix[i]
	}
	return out
}

// toInt16 converts a float64 symbol into clamped Int16 PCM (spec.md §3:
// "conversion uses nearbyint(32767*x) clamped").
func toInt16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(32767 * s)
		if v > 32767 {
			v = 32767
		}
		if v < -32767 {
			v = -32767
		}
		out[i] = int16(v)
	}
	return out
}
