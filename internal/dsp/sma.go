package dsp

// SMAReal is a sliding-window sum over the last N real samples, maintained
// in O(1) per update via a circular buffer and a running total (add the
// incoming sample, subtract the one it evicts) rather than a naive O(N)
// rescan (spec.md §4.5).
type SMAReal struct {
	n      int
	ring   []float32
	pos    int
	sum    float32
	filled int
}

// NewSMAReal creates a real-valued sliding-window sum over the last n
// samples.
func NewSMAReal(n int) *SMAReal {
	return &SMAReal{n: n, ring: make([]float32, n)}
}

// Push adds a new sample and evicts the oldest once the window is full,
// returning the updated window sum.
func (s *SMAReal) Push(x float32) float32 {
	old := s.ring[s.pos]
	s.ring[s.pos] = x
	s.sum += x - old
	s.pos++
	if s.pos >= s.n {
		s.pos = 0
	}
	if s.filled < s.n {
		s.filled++
	}
	return s.sum
}

// Sum returns the current window sum.
func (s *SMAReal) Sum() float32 { return s.sum }

// Mean returns the current window sum divided by the window length (only
// meaningful once the window is full).
func (s *SMAReal) Mean() float32 { return s.sum / float32(s.n) }

// SMAComplex is the complex-valued analogue of SMAReal, used by the
// Schmidl-Cox correlator's P(n) running sum (spec.md §4.11).
type SMAComplex struct {
	n   int
	ring []complex64
	pos int
	sum complex64
}

// NewSMAComplex creates a complex-valued sliding-window sum over the last
// n samples.
func NewSMAComplex(n int) *SMAComplex {
	return &SMAComplex{n: n, ring: make([]complex64, n)}
}

// Push adds a new sample and evicts the oldest, returning the updated sum.
func (s *SMAComplex) Push(x complex64) complex64 {
	old := s.ring[s.pos]
	s.ring[s.pos] = x
	s.sum += x - old
	s.pos++
	if s.pos >= s.n {
		s.pos = 0
	}
	return s.sum
}

// Sum returns the current window sum.
func (s *SMAComplex) Sum() complex64 { return s.sum }
