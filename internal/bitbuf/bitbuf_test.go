package bitbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBEBitRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	SetBEBit(buf, 0, 1)
	SetBEBit(buf, 15, 1)
	assert.Equal(t, byte(1), GetBEBit(buf, 0))
	assert.Equal(t, byte(1), GetBEBit(buf, 15))
	assert.Equal(t, byte(0), GetBEBit(buf, 1))
	assert.Equal(t, []byte{0x80, 0x01}, buf)

	XorBEBit(buf, 0, 1)
	assert.Equal(t, byte(0), GetBEBit(buf, 0))
}

func TestLEBitRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	SetLEBit(buf, 0, 1)
	SetLEBit(buf, 8, 1)
	assert.Equal(t, byte(1), GetLEBit(buf, 0))
	assert.Equal(t, byte(1), GetLEBit(buf, 8))
	assert.Equal(t, []byte{0x01, 0x01}, buf)

	XorLEBit(buf, 8, 1)
	assert.Equal(t, byte(0), GetLEBit(buf, 8))
}

func TestByteLen(t *testing.T) {
	assert.Equal(t, 0, ByteLen(0))
	assert.Equal(t, 1, ByteLen(1))
	assert.Equal(t, 1, ByteLen(8))
	assert.Equal(t, 2, ByteLen(9))
}
