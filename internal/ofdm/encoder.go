package ofdm

import (
	"github.com/kc9wxq/ofdmtext/internal/callsign"
	"github.com/kc9wxq/ofdmtext/internal/crc"
	"github.com/kc9wxq/ofdmtext/internal/polar"
	"github.com/kc9wxq/ofdmtext/internal/prng"
)

// scPreambleRelBins are the 127 even-bin offsets [-126,126] the
// Schmidl-Cox correlation sequence rides on (spec.md §3).
func scPreambleRelBins() []int {
	rel := make([]int, 127)
	for i := range rel {
		rel[i] = -126 + 2*i
	}
	return rel
}

// preambleRelBins are the 255 bin offsets [-127,127] the metadata
// preamble symbol rides on (spec.md §3).
func preambleRelBins() []int {
	rel := make([]int, 255)
	for i := range rel {
		rel[i] = -127 + i
	}
	return rel
}

// payloadRelBins are the 256 bin offsets [-128,127] each payload symbol's
// subcarriers occupy (spec.md §3, pay_car_off=-128, pay_car_cnt=256).
func payloadRelBins() []int {
	rel := make([]int, 256)
	for i := range rel {
		rel[i] = -128 + i
	}
	return rel
}

// Encoder builds the symbol-by-symbol burst described in spec.md §4.13:
// noise padding, Schmidl-Cox pair, preamble, four payload symbols,
// optional fancy header, and a trailing silence symbol. Grounded on
// playok-audio-modem's Modulator.GenerateFrame, but precomputes the
// whole burst at Configure() time (a queue of ready Int16 symbols)
// rather than replicating the source's call-by-call count_down counter
// — the state machine degenerates to "pop the next of a fixed list",
// and a pull-based Produce() realizes that directly (a design
// simplification recorded in DESIGN.md).
type Encoder struct {
	geo   Geometry
	queue [][]int16
	pos   int
}

// NewEncoder builds an Encoder bound to a fixed sample rate.
func NewEncoder(fs int) *Encoder {
	return &Encoder{geo: NewGeometry(fs)}
}

// Configure builds the full symbol queue for one burst (spec.md §6:
// configure(payload[0..170], callsign[0..9], carrier_hz, noise_symbols,
// fancy_header)). payload longer than the chosen mode's byte budget is
// truncated.
func (e *Encoder) Configure(payload []byte, call string, carrierHz float64, noiseSymbols int, fancyHeader bool) {
	geo := e.geo
	carrierBin := geo.CarrierBin(carrierHz)

	e.queue = e.queue[:0]
	var prevTail []float64
	emit := func(relBins []int, values []complex128) {
		spectrum, active := buildSpectrum(geo, carrierBin, relBins, values)
		body := symbolBody(geo, spectrum, active)
		g := guard(geo, body, prevTail, prevTail != nil)
		full := append(append([]float64{}, g...), body...)
		e.queue = append(e.queue, toInt16(full))
		prevTail = body[geo.L-geo.G:]
	}

	emitSilence := func() {
		body := make([]float64, geo.L)
		g := guard(geo, body, prevTail, prevTail != nil)
		full := append(append([]float64{}, g...), body...)
		e.queue = append(e.queue, toInt16(full))
		prevTail = body[geo.L-geo.G:]
	}

	noiseGen := prng.NewMLS(prng.PolyNoise)
	noiseRel := payloadRelBins()
	for s := 0; s < noiseSymbols; s++ {
		vals := make([]complex128, len(noiseRel))
		for i := range vals {
			vals[i] = bpsk(noiseGen.Next())
		}
		emit(noiseRel, vals)
	}

	scRel := scPreambleRelBins()
	scVals := make([]complex128, len(scRel))
	for i, b := range correlationKernelBits() {
		scVals[i] = bpsk(b)
	}
	emit(scRel, scVals)
	emit(scRel, scVals)

	mode, maxBytes := chooseMode(len(payload))
	meta := BuildMeta(mode, call)
	metaCRC := MetaCRC(meta)
	info := preambleInfoBits(meta, metaCRC)
	preCodeword := bchCode.Encode(info)

	preRel := preambleRelBins()
	scramblerSign := signsFromBits(prng.Sequence(prng.PolyPreamble, len(preRel)))
	preVals := make([]complex128, len(preRel))
	ref := complex(1.0, 0.0)
	for i, b := range preCodeword {
		clean := ref
		if b != 0 {
			clean = -ref
		}
		ref = clean
		preVals[i] = clean * scramblerSign[i]
	}
	emit(preRel, preVals)

	if mode != 0 {
		codeword := e.encodePayload(payload, maxBytes, mode)
		payRel := payloadRelBins()

		prev := make([]complex128, 256)
		for i := range prev {
			rel := payRel[i]
			if rel == -128 {
				prev[i] = complex(1, 0)
				continue
			}
			prev[i] = preVals[rel+127]
		}

		for sym := 0; sym < 4; sym++ {
			vals := make([]complex128, 256)
			for i := 0; i < 256; i++ {
				idx := 2 * (sym*256 + i)
				point := qpskMap(nrzToBit01(codeword[idx]), nrzToBit01(codeword[idx+1]))
				vals[i] = prev[i] * point
				prev[i] = vals[i]
			}
			emit(payRel, vals)
		}
	}

	if fancyHeader {
		e.emitFancyHeader(call, emit)
	}

	emitSilence()
	e.pos = 0
}

// Produce pops the next precomputed symbol (spec.md §6: produce(&mut
// samples[E]) -> bool). Returns (nil, false) once the queue is
// exhausted; the caller is expected to treat that as trailing silence.
func (e *Encoder) Produce() ([]int16, bool) {
	if e.pos >= len(e.queue) {
		return nil, false
	}
	s := e.queue[e.pos]
	e.pos++
	return s, true
}

// encodePayload scrambles, CRC-protects and polar-encodes the payload
// bytes for the mode implied by maxBytes (spec.md §6/§4.14: scrambler
// runs on the payload bytes, CRC-32 covers the scrambled bytes, and the
// whole message is polar-encoded systematically so the subcarrier bits
// line up with the original scrambled byte stream).
func (e *Encoder) encodePayload(payload []byte, maxBytes, mode int) []int8 {
	raw := make([]byte, maxBytes)
	n := copy(raw, payload)
	if n < maxBytes {
		raw[n] = 0 // null terminator; remaining bytes already zero
	}
	prng.ScramblePayload(raw, prng.DefaultXorshift32Seed)

	dataBits := maxBytes * 8
	msg := make([]int8, dataBits+32)
	for i := 0; i < dataBits; i++ {
		msg[i] = int8((raw[i/8] >> uint(7-i%8)) & 1)
	}
	sum := crc.Payload32.Compute(raw)
	for i := 0; i < 32; i++ {
		msg[dataBits+i] = int8((sum >> uint(31-i)) & 1)
	}

	table, dataBitsWant, ok := polar.TableForMode(mode)
	if !ok || dataBitsWant != dataBits || table.InfoLen() != len(msg) {
		panic("ofdm: payload/mode size mismatch")
	}
	return polar.SystematicEncode(msg, table)
}

// emitFancyHeader renders the callsign as a coarse bitmap across the 11
// extra symbols (spec.md §4.13/§9: "visual/diagnostic feature ... not
// required for decode"). Symbol s takes the callsign's base-37 value
// shifted right by (10-s)*5 bits and sets each payload-range bin i to +1
// where bit (i mod 5) of that value is set and to -1 otherwise; there is
// no font table or glyph rendering (see DESIGN.md).
func (e *Encoder) emitFancyHeader(call string, emit func([]int, []complex128)) {
	rel := payloadRelBins()
	pattern := callsign.Encode(call)
	for s := 0; s < 11; s++ {
		vals := make([]complex128, len(rel))
		col := pattern >> uint((10-s)*5)
		for i := range vals {
			if col&(1<<uint(i%5)) != 0 {
				vals[i] = complex(1, 0)
			} else {
				vals[i] = complex(-1, 0)
			}
		}
		emit(rel, vals)
	}
}

// signsFromBits maps a 0/1 bit slice to ±1 complex spectral multipliers
// (0 -> +1, 1 -> -1), the BPSK sign convention used throughout the
// preamble's scrambling and differential encoding (spec.md §4.14).
func signsFromBits(bits []byte) []complex128 {
	out := make([]complex128, len(bits))
	for i, b := range bits {
		out[i] = bpsk(b)
	}
	return out
}

func bpsk(bit byte) complex128 {
	if bit != 0 {
		return complex(-1, 0)
	}
	return complex(1, 0)
}

func nrzToBit01(v int8) int8 {
	if v >= 0 {
		return 0
	}
	return 1
}
