package ofdm

import (
	"math"
	"math/cmplx"

	"github.com/kc9wxq/ofdmtext/internal/acquire"
	"github.com/kc9wxq/ofdmtext/internal/callsign"
	"github.com/kc9wxq/ofdmtext/internal/dsp"
	"github.com/kc9wxq/ofdmtext/internal/fft"
	"github.com/kc9wxq/ofdmtext/internal/polar"
	"github.com/kc9wxq/ofdmtext/internal/prng"
	"github.com/kc9wxq/ofdmtext/internal/theilsen"
)

// notSynced marks symbolNumber before a preamble has been accepted
// (spec.md §4.14 describes symbol_number in {-1,0..3,4}; this adds one
// more sentinel value below -1 for "nothing staged yet").
const notSynced = -2

// Decoder streams audio through DC-block + Hilbert analytic front-end,
// a Schmidl-Cox Correlator, and, once synced, the preamble/payload FFT
// and soft-demap pipeline (spec.md §4.14). Grounded on
// playok-audio-modem's Demodulator.ReceiveFrame for the FFT/ApplyDCRemoval
// shape, generalized into the incremental feed/process state machine the
// spec requires.
type Decoder struct {
	geo        Geometry
	carrierBin int
	kernel     []complex128

	dc   *dsp.DCBlocker
	hil  *dsp.Hilbert
	osc  *dsp.NCO
	corr *acquire.Correlator
	buf  *dsp.BipBuffer
	n    int // absolute count of analytic samples fed so far

	samplesSinceProcess int

	storedCheck    bool
	storedPosition int
	storedCFORad   float64

	symbolNumber  int
	operationMode int
	staged        Staged
	laneWidth     int // polar.SIMDLaneWidth() as of the last Fetch, for diagnostics

	prev [256]complex128
	code []int8 // 2048 soft values, filled across the 4 payload symbols
}

// NewDecoder builds a Decoder for sample rate fs tuned to carrierHz
// (spec.md §6: extended_length/geometry are fixed per sample rate; the
// carrier is supplied once since the correlation kernel is built around
// it).
func NewDecoder(fs int, carrierHz float64) *Decoder {
	geo := NewGeometry(fs)
	carrierBin := geo.CarrierBin(carrierHz)

	scRel := scPreambleRelBins()
	scVals := make([]complex128, len(scRel))
	for i, b := range correlationKernelBits() {
		scVals[i] = bpsk(b)
	}
	kernel, _ := buildSpectrum(geo, carrierBin, scRel, scVals)

	return &Decoder{
		geo:           geo,
		carrierBin:    carrierBin,
		kernel:        kernel,
		dc:            dsp.NewDCBlocker(64),
		hil:           dsp.NewHilbert(dsp.HilbertTapsFor(fs)),
		osc:           dsp.NewNCO(),
		corr:          acquire.New(geo.L, geo.G, kernel),
		buf:           dsp.NewBipBuffer(4 * geo.E),
		symbolNumber:  notSynced,
		operationMode: 0,
		code:          make([]int8, 2048),
	}
}

// ExtendedLength exposes E as a read-only constant (spec.md §6).
func (d *Decoder) ExtendedLength() int { return d.geo.E }

// Feed consumes one buffer of real Int16 samples (spec.md §6:
// feed(samples[], count) -> bool), selecting a mono stream per
// channelSelect from a possibly-interleaved multi-channel buffer.
// Returns true if the running count of samples fed crossed a multiple of
// extended_length during this call, signalling the caller to call
// Process() before feeding more. The count is not reset by Process(), and
// a call that crosses several multiples still returns a single true.
func (d *Decoder) Feed(samples []int16, channelSelect ChannelSelect) bool {
	mono := selectChannel(samples, channelSelect)
	ready := false
	for _, x := range mono {
		d.step(x)
		d.samplesSinceProcess++
		if d.samplesSinceProcess >= d.geo.E {
			d.samplesSinceProcess -= d.geo.E
			ready = true
		}
	}
	return ready
}

// selectChannel extracts a mono float32 stream from raw interleaved
// Int16 samples per the requested channel layout (spec.md §6 Status/
// ChannelSelect). IQ treats consecutive samples as (I,Q) pairs and keeps
// only the in-phase rail, since the rest of the front end expects a
// real-valued input to the Hilbert transformer.
func selectChannel(samples []int16, sel ChannelSelect) []float32 {
	switch sel {
	case Left, Right, Sum, IQ:
		out := make([]float32, len(samples)/2)
		off := 0
		if sel == Right {
			off = 1
		}
		for i := range out {
			a := float32(samples[2*i]) / 32768
			b := float32(samples[2*i+1]) / 32768
			switch sel {
			case Sum:
				out[i] = (a + b) / 2
			case IQ:
				out[i] = a
			default:
				out[i] = float32(samples[2*i+off]) / 32768
			}
		}
		return out
	default:
		out := make([]float32, len(samples))
		for i, s := range samples {
			out[i] = float32(s) / 32768
		}
		return out
	}
}

// step runs one real sample through DC removal, the analytic Hilbert
// front end, and the CFO-correcting NCO, then pushes the result into
// both the correlator and the decoder's own symbol buffer.
func (d *Decoder) step(x float32) {
	blocked := d.dc.Step(x)
	re, im := d.hil.Step(blocked)
	s := complex(re, im) * d.osc.Next()

	d.n++
	if hit, ok := d.corr.Step(complex64(s)); ok {
		d.storedCheck = true
		d.storedPosition = hit.SymbolPos
		d.storedCFORad = hit.CFORad
	}
	d.buf.Write(complex64(s))
}

// extractWindow returns the L analytic samples [bodyStart, bodyStart+L)
// from the decoder's bip buffer (capacity 4E, per internal/dsp's
// documented sizing), or ok=false if that window has already scrolled
// out of, or not yet arrived into, the held history.
func (d *Decoder) extractWindow(bodyStart int) ([]complex128, bool) {
	capacity := d.buf.Cap()
	oldest := d.n - capacity + 1
	if oldest < 1 {
		oldest = 1
	}
	end := bodyStart + d.geo.L - 1
	if bodyStart < oldest || end > d.n {
		return nil, false
	}
	n := end - oldest + 1
	view := d.buf.View(n)
	tail := view[n-d.geo.L:]
	out := make([]complex128, d.geo.L)
	for i, v := range tail {
		out[i] = complex128(v)
	}
	return out, true
}

// Process runs the outer/inner state machine once per extended_length
// buffer (spec.md §4.14).
func (d *Decoder) Process() Status {
	if d.storedCheck && d.symbolNumber == notSynced {
		return d.processPreamble()
	}
	if d.symbolNumber >= -1 && d.symbolNumber < 4 {
		return d.processPayloadSymbol()
	}
	return OK
}

func (d *Decoder) processPreamble() Status {
	bodyStart := d.storedPosition + d.geo.E
	window, ok := d.extractWindow(bodyStart)
	if !ok {
		return OK
	}
	d.storedCheck = false

	corrected := make([]complex128, d.geo.L)
	for i, v := range window {
		theta := -d.storedCFORad * float64(i)
		corrected[i] = v * cmplx.Rect(1, theta)
	}
	spectrum := fft.Forward(corrected)

	preRel := preambleRelBins()
	raw := make([]complex128, len(preRel))
	descrambled := make([]complex128, len(preRel))
	scramblerBits := prng.Sequence(prng.PolyPreamble, len(preRel))
	for i, rel := range preRel {
		b := d.geo.Bin(d.carrierBin + rel)
		sign := 1.0
		if scramblerBits[i] != 0 {
			sign = -1.0
		}
		raw[i] = spectrum[b]
		descrambled[i] = spectrum[b] * complex(sign, 0)
	}

	soft := make([]float64, len(preRel))
	ref := complex(1.0, 0.0)
	for i, v := range descrambled {
		ratio := v
		if cmplx.Abs(ref) > 1e-12 {
			ratio = v / ref
		}
		soft[i] = real(ratio)
		ref = v
	}

	codeword, ok := bchCode.Decode(soft)
	if !ok {
		return FAIL
	}
	info := codeword[:71]
	meta, metaCRCLow := parsePreambleInfoBits(info)
	want := MetaCRC(meta)
	if byte(want) != byte(metaCRCLow) {
		return FAIL
	}

	mode := int(meta & 0xFF)
	callVal := meta >> 8
	call := callsign.Decode(callVal, callsign.MaxChars)

	if mode == 0 {
		return PING
	}
	if mode != 14 && mode != 15 && mode != 16 {
		return NOPE
	}
	if !callsign.Valid(callVal) {
		return NOPE
	}

	d.operationMode = mode
	d.staged = Staged{
		CFOHz:    d.storedCFORad * float64(d.geo.Fs) / (2 * math.Pi),
		Mode:     mode,
		Callsign: call,
	}
	d.osc.Omega(-d.storedCFORad)
	d.osc.Reset()
	d.symbolNumber = -1

	payRel := payloadRelBins()
	for i, rel := range payRel {
		if rel == -128 {
			d.prev[i] = complex(1, 0)
			continue
		}
		d.prev[i] = raw[rel+127]
	}

	return SYNC
}

func (d *Decoder) processPayloadSymbol() Status {
	symIdx := d.symbolNumber + 1
	bodyStart := d.storedPosition + d.geo.E*(2+symIdx)
	window, ok := d.extractWindow(bodyStart)
	if !ok {
		return OK
	}

	corrected := make([]complex128, d.geo.L)
	for i, v := range window {
		theta := -d.storedCFORad * float64(i)
		corrected[i] = v * cmplx.Rect(1, theta)
	}
	spectrum := fft.Forward(corrected)

	payRel := payloadRelBins()
	ratios := make([]complex128, 256)
	erased := make([]bool, 256)
	cur := make([]complex128, 256)
	for i, rel := range payRel {
		b := d.geo.Bin(d.carrierBin + rel)
		cur[i] = spectrum[b]
		prevMag2 := cmplx.Abs(d.prev[i]) * cmplx.Abs(d.prev[i])
		curMag2 := cmplx.Abs(cur[i]) * cmplx.Abs(cur[i])
		if prevMag2 == 0 || curMag2 == 0 {
			erased[i] = true
			continue
		}
		ratio := cur[i] / d.prev[i]
		if curMag2/prevMag2 > 4 || prevMag2/curMag2 > 4 {
			erased[i] = true
			continue
		}
		ratios[i] = ratio
	}

	var points []theilsen.Point
	for i, rel := range payRel {
		if erased[i] {
			continue
		}
		hardAngle := expectedQPSKAngle(ratios[i])
		residual := cmplx.Phase(ratios[i]) - hardAngle
		points = append(points, theilsen.Point{X: float64(rel), Y: residual})
	}
	est := theilsen.Fit(points)

	var eHard, eError float64
	corrected2 := make([]complex128, 256)
	for i, rel := range payRel {
		if erased[i] {
			continue
		}
		slope := est.Slope * float64(rel)
		r := ratios[i] * cmplx.Rect(1, -slope)
		corrected2[i] = r
		hardAngle := expectedQPSKAngle(r)
		hardPt := cmplx.Rect(1, hardAngle)
		eHard += real(hardPt)*real(hardPt) + imag(hardPt)*imag(hardPt)
		diff := r - hardPt
		eError += real(diff)*real(diff) + imag(diff)*imag(diff)
	}
	precision := 1.0
	if eError > 1e-12 {
		precision = eHard / eError
	}

	for i := range payRel {
		idx := 2 * (symIdx*256 + i)
		if erased[i] {
			d.code[idx], d.code[idx+1] = 0, 0
			continue
		}
		s0, s1 := qpskSoftDemap(corrected2[i], precision)
		d.code[idx], d.code[idx+1] = s0, s1
	}

	copy(d.prev[:], cur)
	if symIdx == 3 {
		d.symbolNumber = 4
		return DONE
	}
	d.symbolNumber = symIdx
	return OK
}

// expectedQPSKAngle returns the angle of the QPSK constellation point
// nearest v, used as the hard decision for Theil-Sen phase-residual
// estimation (spec.md §4.12/§4.14).
func expectedQPSKAngle(v complex128) float64 {
	best := qpskPoints[0]
	bestD := -1.0
	for _, p := range qpskPoints {
		d := real(v)*real(p) + imag(v)*imag(p)
		if d > bestD {
			bestD = d
			best = p
		}
	}
	return cmplx.Phase(best)
}

// Staged returns the most recently synchronized preamble's metadata
// (spec.md §6).
func (d *Decoder) Staged() Staged { return d.staged }

// SIMDLaneWidth reports the CPU's widest integer SIMD lane count the
// last Fetch's list decoder metric batching was sized against (see
// polar.SIMDLaneWidth); 0 before the first Fetch call.
func (d *Decoder) SIMDLaneWidth() int { return d.laneWidth }

// Fetch runs the CRC-aided polar list decoder over the accumulated
// payload soft bits, descrambles the result, and copies it into
// payloadOut (spec.md §4.14/§6: fetch(&mut payload[170]) -> i32).
// Returns the corrected bit-flip count, or -1 if no candidate's CRC-32
// matched.
func (d *Decoder) Fetch(payloadOut []byte) int {
	for i := range payloadOut {
		payloadOut[i] = 0
	}
	table, _, ok := polar.TableForMode(d.operationMode)
	if !ok {
		return -1
	}
	dataBits := table.InfoLen() - 32
	llr := make([]float64, len(d.code))
	for i, v := range d.code {
		llr[i] = float64(v)
	}
	result := polar.DecodeCRCAided(llr, table, dataBits)
	d.laneWidth = result.LaneWidth
	if !result.OK {
		d.symbolNumber = notSynced
		d.storedCheck = false
		return -1
	}
	raw := packBitsLocal(result.Message)
	prng.ScramblePayload(raw, prng.DefaultXorshift32Seed)
	n := copy(payloadOut, raw)
	for i := n; i < len(payloadOut); i++ {
		payloadOut[i] = 0
	}
	d.symbolNumber = notSynced
	d.storedCheck = false
	return result.BitFlips
}

func packBitsLocal(bits []int8) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
