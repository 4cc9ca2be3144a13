package polar

import (
	"testing"

	"github.com/kc9wxq/ofdmtext/internal/crc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrozenTableCounts(t *testing.T) {
	assert.Equal(t, 712, F712.InfoLen())
	assert.Equal(t, 1056, F1056.InfoLen())
	assert.Equal(t, 1392, F1392.InfoLen())
}

func TestTableForMode(t *testing.T) {
	tbl, db, ok := TableForMode(16)
	require.True(t, ok)
	assert.Equal(t, 680, db)
	assert.Same(t, F712, tbl)

	_, _, ok = TableForMode(3)
	assert.False(t, ok)
}

func smallTestTable(infoLen int) *Table {
	return buildByReliability(infoLen)
}

func TestNonSystematicEncodeAllFrozenIsAllOnes(t *testing.T) {
	tbl := smallTestTable(0)
	cw := NonSystematicEncode(nil, tbl)
	for _, v := range cw {
		assert.Equal(t, int8(1), v)
	}
}

func TestSystematicEncodePreservesMessageBits(t *testing.T) {
	tbl := smallTestTable(64)
	msg := make([]int8, 64)
	for i := range msg {
		msg[i] = int8(i % 2)
	}
	cw := SystematicEncode(msg, tbl)
	got := ExtractMessage(cw, tbl)
	assert.Equal(t, msg, got)
}

func TestNonSystematicEncodeLinearOverXor(t *testing.T) {
	tbl := smallTestTable(32)
	a := make([]int8, 32)
	b := make([]int8, 32)
	a[1], a[4] = 1, 1
	b[4], b[7] = 1, 1
	ab := make([]int8, 32)
	for i := range ab {
		ab[i] = a[i] ^ b[i]
	}
	ca := NonSystematicEncode(a, tbl)
	cb := NonSystematicEncode(b, tbl)
	cab := NonSystematicEncode(ab, tbl)
	for i := range cab {
		want := ca[i] * cb[i]
		assert.Equal(t, want, cab[i], "index %d", i)
	}
}

func toLLR(codeword []int8) []float64 {
	llr := make([]float64, len(codeword))
	for i, v := range codeword {
		llr[i] = float64(v) * 8 // confident soft value
	}
	return llr
}

func TestListDecodeRecoversCleanCodeword(t *testing.T) {
	tbl := smallTestTable(16)
	msg := make([]int8, 16)
	msg[0], msg[5], msg[15] = 1, 1, 1
	cw := SystematicEncode(msg, tbl)

	candidates := ListDecode(toLLR(cw), tbl)
	require.NotEmpty(t, candidates)
	best := candidates[0]
	got := ExtractMessage(func() []int8 {
		enc := make([]int8, len(best))
		copy(enc, best)
		encodeCore(enc)
		return enc
	}(), tbl)
	assert.Equal(t, msg, got)
}

func TestDecodeCRCAidedAcceptsCleanCodeword(t *testing.T) {
	tbl := smallTestTable(32 + 32) // 32 data bits + 32 CRC
	data := make([]int8, 32)
	for i := range data {
		data[i] = int8((i * 3) % 2)
	}
	crcBits := func(data []int8) []int8 {
		v := crc.Payload32.Compute(packBits(data))
		out := make([]int8, 32)
		for i := 0; i < 32; i++ {
			out[i] = int8((v >> uint(31-i)) & 1)
		}
		return out
	}(data)
	msg := append(append([]int8(nil), data...), crcBits...)
	cw := SystematicEncode(msg, tbl)

	result := DecodeCRCAided(toLLR(cw), tbl, 32)
	require.True(t, result.OK)
	assert.Equal(t, data, result.Message)
	assert.Equal(t, 0, result.BitFlips)
}
