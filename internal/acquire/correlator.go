// Package acquire implements the Schmidl-Cox streaming timing/CFO
// correlator (spec.md §4.11). Grounded on playok-audio-modem's
// internal/modem/sync.go PreambleGenerator/PreambleDetector (same
// P/R/metric formulation, same fractional-CFO-from-correlation-angle
// idea), generalized from sync.go's one-shot whole-buffer sliding scan
// into the streaming, sample-at-a-time incremental form spec.md
// requires, built from internal/dsp's SMA/Schmitt-trigger/bip-buffer
// primitives and internal/fft for the integer-offset cross-correlation.
package acquire

import (
	"math"
	"math/cmplx"

	"github.com/kc9wxq/ofdmtext/internal/dsp"
	"github.com/kc9wxq/ofdmtext/internal/fft"
)

// Hit is a fine-position-refined correlator detection, reported on a
// Schmitt-trigger falling edge.
type Hit struct {
	SymbolPos int
	CFORad    float64
}

// Correlator is a streaming Schmidl-Cox detector over a complex analytic
// input stream, parameterized by the OFDM symbol length L and the
// matched-filter length G (spec.md §4.11).
type Correlator struct {
	l, g int

	p      *dsp.SMAComplex
	r      *dsp.SMAReal
	mAvg   *dsp.SMAReal
	mDelay *dsp.DelayLine

	trig *dsp.SchmittTrigger
	edge *dsp.FallingEdgeTrigger
	win  *dsp.BipBuffer // holds the last 2L samples for fine extraction
	n    int

	plateauM  float32
	plateauPh float32
	inPlateau bool

	kernel []complex128 // precomputed conjugate correlation kernel spectrum
}

// New builds a correlator for symbol length l (spec.md §3's L) and
// matched-filter length g (forced odd; spec.md §4.11).
func New(l, g int, correlationKernel []complex128) *Correlator {
	if g%2 == 0 {
		g++
	}
	return &Correlator{
		l: l, g: g,
		p:      dsp.NewSMAComplex(l),
		r:      dsp.NewSMAReal(2 * l),
		mAvg:   dsp.NewSMAReal(g),
		mDelay: dsp.NewDelayLine((g - 1) / 2),
		trig:   dsp.NewSchmittTrigger(0.17*float32(g), 0.19*float32(g)),
		edge:   &dsp.FallingEdgeTrigger{},
		win:    dsp.NewBipBuffer(2 * l),
		kernel: correlationKernel,
	}
}

// Step consumes one complex analytic sample, advancing the running
// P(n)/R(n)/M(n) metrics (spec.md §4.11), and returns a Hit on the
// falling edge of the Schmitt-triggered detection plateau.
func (c *Correlator) Step(s complex64) (Hit, bool) {
	c.win.Write(s)
	c.n++

	view := c.win.View(2 * c.l)
	// P(n) = sum conj(s(n+i)) * s(n+i+L/2): with the window holding the
	// last 2L samples (oldest first), the "current" sample sits at
	// index 2L-1 and its L/2-old partner at index 2L-1-L/2.
	cur := view[2*c.l-1]
	half := view[2*c.l-1-c.l/2]
	pSample := complex64(complex128(conj64(half)) * complex128(cur))
	c.p.Push(pSample)

	rSample := float32(real(cur))*float32(real(cur)) + float32(imag(cur))*float32(imag(cur))
	c.r.Push(rSample)

	pMag2 := cAbs2(c.p.Sum())
	rVal := 0.5 * c.r.Sum()
	var m float32
	if rVal > 1e-9 {
		m = pMag2 / (rVal * rVal)
	}
	mFiltered := c.mAvg.Push(m)
	phase := float32(cmplx.Phase(complex128(c.p.Sum())))
	delayedPhase := c.mDelay.Step(phase)

	triggered := c.trig.Step(mFiltered)
	if triggered {
		if !c.inPlateau || mFiltered > c.plateauM {
			c.plateauM = mFiltered
			c.plateauPh = delayedPhase
		}
		c.inPlateau = true
	}

	fallingEdge := c.edge.Step(triggered)
	if !fallingEdge {
		return Hit{}, false
	}
	c.inPlateau = false

	fracCFO := float64(c.plateauPh) / float64(c.l)
	return c.refine(fracCFO, view)
}

func conj64(c complex64) complex64 {
	return complex(real(c), -imag(c))
}

// refine implements spec.md §4.11 steps 2-5: read the winning symbol,
// correct fractional CFO, FFT, cross-correlate against the known
// correlation kernel to find the integer carrier offset, and refine the
// symbol position.
func (c *Correlator) refine(fracCFO float64, view []complex64) (Hit, bool) {
	symbol := make([]complex128, c.l)
	for i := 0; i < c.l; i++ {
		v := view[c.l+i]
		theta := -fracCFO * float64(i)
		rot := cmplx.Rect(1, theta)
		symbol[i] = complex128(v) * rot
	}

	spectrum := fft.Forward(symbol)
	erasePowerThreshold(spectrum)

	if len(c.kernel) != len(spectrum) {
		return Hit{CFORad: wrapPhase(-fracCFO), SymbolPos: c.n - 2*c.l}, true
	}
	prod := make([]complex128, len(spectrum))
	for i := range prod {
		prod[i] = spectrum[i] * cmplx.Conj(c.kernel[i])
	}
	xcorr := fft.Inverse(prod)

	peakIdx, peakVal, runnerUp := findPeak(xcorr)
	if runnerUp > 0 && peakVal < 4*runnerUp {
		return Hit{}, false
	}

	shift := peakIdx
	if shift > c.l/2 {
		shift -= c.l
	}
	refinement := int(math.Round(cmplx.Phase(xcorr[peakIdx]) * float64(c.l) / (2 * math.Pi)))
	if absInt(refinement) > c.g/2 {
		refinement = 0
	}

	cfoRad := wrapPhase(float64(shift)*(2*math.Pi/float64(c.l)) - fracCFO)
	pos := c.n - 2*c.l + refinement
	return Hit{SymbolPos: pos, CFORad: cfoRad}, true
}

func erasePowerThreshold(spectrum []complex128) {
	var total float64
	for _, v := range spectrum {
		total += cmplx.Abs(v) * cmplx.Abs(v)
	}
	mean := total / float64(len(spectrum))
	for i, v := range spectrum {
		if cmplx.Abs(v)*cmplx.Abs(v) < 0.05*mean {
			spectrum[i] = 0
		}
	}
}

func findPeak(x []complex128) (idx int, peak, runnerUp float64) {
	for i, v := range x {
		mag := cmplx.Abs(v)
		if mag > peak {
			runnerUp = peak
			peak = mag
			idx = i
		} else if mag > runnerUp {
			runnerUp = mag
		}
	}
	return
}

func cAbs2(c complex64) float32 {
	return real(c)*real(c) + imag(c)*imag(c)
}

func wrapPhase(theta float64) float64 {
	for theta > math.Pi {
		theta -= 2 * math.Pi
	}
	for theta <= -math.Pi {
		theta += 2 * math.Pi
	}
	return theta
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
