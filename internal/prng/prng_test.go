package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestXorshift32NoDuplicatesFirst1000(t *testing.T) {
	g := NewXorshift32(DefaultXorshift32Seed)
	seen := make(map[uint32]bool, 1000)
	for i := 0; i < 1000; i++ {
		v := g.Next()
		assert.False(t, seen[v], "duplicate output at iteration %d", i)
		seen[v] = true
	}
}

func TestXorshift32HighBitDistribution(t *testing.T) {
	g := NewXorshift32(DefaultXorshift32Seed)
	count := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if g.Next()&0x80000000 != 0 {
			count++
		}
	}
	assert.GreaterOrEqual(t, count, 4000)
	assert.LessOrEqual(t, count, 6000)
}

func TestScramblePayloadIsInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 170).Draw(t, "data")
		seed := rapid.Uint32().Draw(t, "seed")

		orig := append([]byte(nil), data...)
		ScramblePayload(data, seed)
		ScramblePayload(data, seed)
		assert.Equal(t, orig, data)
	})
}

func TestMLSPeriods(t *testing.T) {
	for _, poly := range []uint32{PolyCorrelation, PolyPreamble, PolyNoise} {
		m := NewMLS(poly)
		period := m.Period()
		start := m.state
		for i := 0; i < period-1; i++ {
			m.Next()
			assert.NotEqual(t, start, m.state, "sequence repeated early for poly %#o at step %d", poly, i)
		}
		m.Next()
		assert.Equal(t, start, m.state, "sequence did not repeat after exactly 2^deg-1 steps for poly %#o", poly)
	}
}

func TestBadPolyAcceptsKnownGoodPolynomials(t *testing.T) {
	assert.False(t, BadPoly(PolyCorrelation))
	assert.False(t, BadPoly(PolyPreamble))
	assert.False(t, BadPoly(PolyNoise))
}

func TestBadPolyRejectsDegenerate(t *testing.T) {
	// A polynomial with only the top bit set has trivial all-zero feedback
	// parity and collapses quickly, well short of its full period.
	assert.True(t, BadPoly(0b10000000))
}
