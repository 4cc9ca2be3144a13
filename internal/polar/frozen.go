// Package polar implements the rate-flexible polar code used for the
// OFDM payload (spec.md §4.9): a non-systematic and systematic Arikan
// encoder, and a W=16 successive-cancellation list decoder with CRC-32
// aided path selection. Grounded on spec.md's own recursive construction
// (§4.9) since no polar codec exists anywhere in the retrieval pack;
// lane-parallel path bookkeeping borrows klauspost/cpuid/v2 (also used
// by playok-audio-modem) to report the SIMD lane width the list width W
// is sized to. The decoder's f-function is a float64 min-sum combine
// (the same rule internal/qmath.Prod applies to saturating int8 values).
package polar

import (
	"sort"

	"github.com/klauspost/cpuid/v2"
)

// N is the mother code length (spec.md §4: "length N = 2048 = 2^11").
const N = 2048

// logN is log2(N).
const logN = 11

// W is the list decoder's path width (spec.md §4: "list size W = 16").
const W = 16

// SIMDLaneWidth reports the CPU's widest integer SIMD lane count
// available for W-wide path-metric batching (AVX-512 = 64 int8 lanes,
// AVX2 = 32, plain SSE2/NEON = 16). The decoder itself is written with
// plain Go slices of width W regardless of this value — matching W=16
// is the interoperability-critical constant, not the hardware lane
// count — but SIMDLaneWidth is surfaced for telemetry/tuning call sites
// the way playok-audio-modem's encoder probes cpuid for feature bits.
func SIMDLaneWidth() int {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F):
		return 64
	case cpuid.CPU.Supports(cpuid.AVX2):
		return 32
	default:
		return 16
	}
}

// Table is a frozen-bit mask of length N, stored as a compact bit-vector
// per spec.md §4.9 ("[bit i] = (table[i/32] >> (i mod 32)) & 1"). A set
// bit means the position is frozen (fixed to the NRZ value +1 / binary
// 0); a clear bit means the position carries an information bit.
type Table struct {
	bits    []uint32
	infoLen int
}

// Frozen reports whether position i is a frozen position.
func (t *Table) Frozen(i int) bool {
	return (t.bits[i/32]>>uint(i%32))&1 == 1
}

// InfoLen is the number of non-frozen (information) positions.
func (t *Table) InfoLen() int {
	return t.infoLen
}

func newTable(infoPositions map[int]bool) *Table {
	t := &Table{bits: make([]uint32, N/32), infoLen: len(infoPositions)}
	for i := 0; i < N; i++ {
		if !infoPositions[i] {
			t.bits[i/32] |= 1 << uint(i%32)
		}
	}
	return t
}

// buildByReliability constructs a frozen table choosing the infoLen most
// reliable of the N bit-channel positions as information bits, using the
// standard binary-erasure-channel Bhattacharyya polarization recursion
// (Z_{2i} = 2Z_i - Z_i^2, Z_{2i+1} = Z_i^2, starting Z_0 = 0.5) to rank
// channel reliability. The reference implementation's exact verbatim
// tables are not reproduced here (not present anywhere in the retrieval
// pack); this is a deterministic stand-in documented as an Open Question
// decision in DESIGN.md. Internal consistency (encoder and decoder share
// this table) is all correctness requires.
func buildByReliability(infoLen int) *Table {
	z := make([]float64, N)
	z[0] = 0.5
	for stage, size := 0, 1; size < N; stage, size = stage+1, size*2 {
		for i := size - 1; i >= 0; i-- {
			zi := z[i]
			z[2*i] = 2*zi - zi*zi
			z[2*i+1] = zi * zi
		}
	}
	// z is already in natural position order: the first split above is
	// the outermost butterfly stage, whose choice ends up as the most
	// significant bit of the index.
	natural := z
	order := make([]int, N)
	for i := range order {
		order[i] = i
	}
	// lower Z (less noisy under BEC) = more reliable; sort ascending.
	sort.Slice(order, func(a, b int) bool { return natural[order[a]] < natural[order[b]] })

	info := make(map[int]bool, infoLen)
	for _, idx := range order[:infoLen] {
		info[idx] = true
	}
	return newTable(info)
}

func bitReverse(v, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// Frozen-bit tables for the three payload modes (spec.md §3/§4.9):
// mode 16 -> F_712 (dataBits=680, info=712), mode 15 -> F_1056
// (dataBits=1024, info=1056), mode 14 -> F_1392 (dataBits=1360,
// info=1392). info = dataBits + 32 (CRC-32).
var (
	F712  = buildByReliability(712)
	F1056 = buildByReliability(1056)
	F1392 = buildByReliability(1392)
)

// TableForMode returns the frozen table and data-bit count for an
// operation_mode value (14, 15 or 16), and ok=false for any other mode.
func TableForMode(mode int) (table *Table, dataBits int, ok bool) {
	switch mode {
	case 16:
		return F712, 680, true
	case 15:
		return F1056, 1024, true
	case 14:
		return F1392, 1360, true
	default:
		return nil, 0, false
	}
}
