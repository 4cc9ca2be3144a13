// Package ofdm implements the burst-mode OFDM Encoder (C13) and
// streaming Decoder (C14) that wire together every lower-layer component
// (spec.md §§4.13-4.14). Grounded on playok-audio-modem's
// internal/modem/ofdm.go Modulator/Demodulator and GenerateFrame/
// ReceiveFrame (kept as the shape for Configure/Produce and
// Feed/Process/Fetch) and sync.go's generator/detector pairing.
package ofdm

import "math"

// Geometry holds the sample-rate-dependent symbol dimensions of spec.md
// §3.
type Geometry struct {
	Fs             int
	L              int // symbol_length
	G              int // guard_length
	E              int // extended_length = L+G
	PayCarCnt      int
	PayCarOff      int
	PreambleLen    int
	PreambleOffset int
}

// NewGeometry computes the symbol geometry for a supported sample rate
// (spec.md §3: "symbol_length L = floor(1280*Fs/8000)").
func NewGeometry(fs int) Geometry {
	l := (1280 * fs) / 8000
	g := l / 8
	return Geometry{
		Fs: fs, L: l, G: g, E: l + g,
		PayCarCnt:      256,
		PayCarOff:      -128,
		PreambleLen:    255,
		PreambleOffset: -127,
	}
}

// Bin maps a signed carrier index to its wrapped FFT bin (spec.md §6:
// "bin(c) = (c + L) mod L").
func (geo Geometry) Bin(c int) int {
	b := (c + geo.L) % geo.L
	if b < 0 {
		b += geo.L
	}
	return b
}

// CarrierBin returns round(carrier_hz * L / Fs) (spec.md §4.13).
func (geo Geometry) CarrierBin(carrierHz float64) int {
	return int(math.Round(carrierHz * float64(geo.L) / float64(geo.Fs)))
}

// Scale is the time-domain IFFT output scale factor 1/sqrt(8L) (spec.md
// §6).
func (geo Geometry) Scale() float64 {
	return 1 / math.Sqrt(8*float64(geo.L))
}
