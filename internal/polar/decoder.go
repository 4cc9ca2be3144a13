package polar

import (
	"sort"

	"github.com/kc9wxq/ofdmtext/internal/crc"
)

// path is one surviving candidate in the successive-cancellation list.
// u holds the fully-decided-so-far bit (0/1) vector; only u[0:decided]
// is meaningful.
type path struct {
	u      []int8
	metric float64
}

func (p *path) clone() *path {
	u := make([]int8, len(p.u))
	copy(u, p.u)
	return &path{u: u, metric: p.metric}
}

// fCombine is the decoder's check-node LLR combine: sign(a)*sign(b) *
// min(|a|,|b|), the same min-sum rule internal/qmath.Prod implements for
// saturating int8 LLRs, expressed here in float64 since list-decoder
// metrics need finer resolution than the int8 wire LLRs.
func fCombine(a, b float64) float64 {
	s := 1.0
	if (a < 0) != (b < 0) {
		s = -1.0
	}
	abs := func(x float64) float64 {
		if x < 0 {
			return -x
		}
		return x
	}
	if abs(a) < abs(b) {
		return s * abs(a)
	}
	return s * abs(b)
}

// gCombine is the decoder's bit-node LLR combine: b + (1-2u1)*a.
func gCombine(a, b float64, u1Sign float64) float64 {
	return b + u1Sign*a
}

// llrFor recursively computes the soft decision for global bit index k,
// given the path's already-decided prefix u[0:k] and this recursion
// node's own channel LLR vector y (length n, covering global indices
// [base, base+n)). Mirrors the encoder's recursive definition derived
// from its butterfly structure: x = (Encode(u_left) ⊙ Encode(u_right),
// Encode(u_right)).
func llrFor(y []float64, u []int8, base, n, k int) float64 {
	if n == 1 {
		return y[0]
	}
	h := n / 2
	if k < base+h {
		y1 := make([]float64, h)
		for i := 0; i < h; i++ {
			y1[i] = fCombine(y[i], y[i+h])
		}
		return llrFor(y1, u, base, h, k)
	}
	x1 := encodeLocal(u[base : base+h])
	y2 := make([]float64, h)
	for i := 0; i < h; i++ {
		s := 1.0
		if x1[i] == -1 {
			s = -1.0
		}
		y2[i] = gCombine(y[i], y[i+h], s)
	}
	return llrFor(y2, u, base+h, h, k)
}

// encodeLocal runs the butterfly transform over a decided 0/1 segment,
// returning its NRZ (±1) codeword without touching the package-level
// frozen table (the segment is already fully decided, there are no
// frozen positions left to insert).
func encodeLocal(uBits []int8) []int8 {
	x := make([]int8, len(uBits))
	for i, b := range uBits {
		x[i] = bitToNRZ(b)
	}
	encodeCore(x)
	return x
}

func penalty(llr float64, bit int8) float64 {
	hard := int8(0)
	if llr < 0 {
		hard = 1
	}
	if hard == bit {
		return 0
	}
	return absF(llr)
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// ListDecode runs the W=16 successive-cancellation list decoder over N
// channel LLRs (spec.md §4.9): at each information-bit position the list
// forks into 2W candidates, sorted ascending by path metric (only the
// disagreeing half of each fork adds |LLR|), and the best W survive.
// Returns up to W candidate full-length u vectors in NRZ form (+1 for
// bit 0, -1 for bit 1), sorted best (lowest metric) first.
func ListDecode(llr []float64, t *Table) [][]int8 {
	paths := []*path{{u: make([]int8, N), metric: 0}}

	for i := 0; i < N; i++ {
		frozen := t.Frozen(i)
		type cand struct {
			p *path
			u int8
		}
		if frozen {
			for _, p := range paths {
				l := llrFor(llr, p.u, 0, N, i)
				p.metric += penalty(l, 0)
				p.u[i] = 0
			}
			continue
		}
		cands := make([]cand, 0, 2*len(paths))
		for _, p := range paths {
			l := llrFor(llr, p.u, 0, N, i)
			c0 := p.clone()
			c0.metric += penalty(l, 0)
			c0.u[i] = 0
			c1 := p.clone()
			c1.metric += penalty(l, 1)
			c1.u[i] = 1
			cands = append(cands, cand{c0, 0}, cand{c1, 1})
		}
		sort.Slice(cands, func(a, b int) bool { return cands[a].p.metric < cands[b].p.metric })
		keep := W
		if keep > len(cands) {
			keep = len(cands)
		}
		paths = paths[:0]
		for _, c := range cands[:keep] {
			paths = append(paths, c.p)
		}
	}

	sort.Slice(paths, func(a, b int) bool { return paths[a].metric < paths[b].metric })
	out := make([][]int8, len(paths))
	for i, p := range paths {
		x := make([]int8, N)
		for j, b := range p.u {
			x[j] = bitToNRZ(b)
		}
		out[i] = x
	}
	return out
}

// DecodeResult is the outcome of a CRC-aided list decode.
type DecodeResult struct {
	Message   []int8 // dataBits, CRC stripped
	BitFlips  int
	OK        bool
	LaneWidth int // SIMDLaneWidth() at decode time, for caller diagnostics
}

// DecodeCRCAided runs ListDecode, re-encodes every surviving path
// non-systematically, and accepts the first path (in ascending-metric
// order) whose trailing 32 bits match the CRC-32 of the leading
// dataBits bits (spec.md §4.9/§4.14). BitFlips counts positions where
// the received hard decision (sign of llr) disagrees with the surviving
// path's re-encoded codeword. Returns OK=false if no path's CRC matches.
func DecodeCRCAided(llr []float64, t *Table, dataBits int) DecodeResult {
	laneWidth := SIMDLaneWidth()
	candidates := ListDecode(llr, t)
	for _, u := range candidates {
		codeword := make([]int8, N)
		copy(codeword, u)
		encodeCore(codeword)

		msg := ExtractMessage(codeword, t)
		if len(msg) != dataBits+32 {
			continue
		}
		data := msg[:dataBits]
		gotCRC := bitsToUint32(msg[dataBits:])
		wantCRC := crc.Payload32.Compute(packBits(data))
		if gotCRC != wantCRC {
			continue
		}

		flips := 0
		for i := 0; i < N; i++ {
			hard := int8(0)
			if llr[i] < 0 {
				hard = 1
			}
			if hard != nrzToBit(codeword[i]) {
				flips++
			}
		}
		return DecodeResult{Message: data, BitFlips: flips, OK: true, LaneWidth: laneWidth}
	}
	return DecodeResult{OK: false, LaneWidth: laneWidth}
}

// packBits packs a slice of 0/1 bits, MSB-first within each byte, into
// bytes (padding the final byte's low bits with zero), matching how the
// CRC-32 is computed over whole payload bytes on the wire.
func packBits(bits []int8) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func bitsToUint32(bits []int8) uint32 {
	var v uint32
	for _, b := range bits {
		v = v<<1 | uint32(b)
	}
	return v
}
