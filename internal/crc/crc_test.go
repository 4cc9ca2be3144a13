package crc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministic(t *testing.T) {
	data := []byte("HELLO WORLD")
	assert.Equal(t, Preamble16.Compute(data), Preamble16.Compute(data))
	assert.Equal(t, Payload32.Compute(data), Payload32.Compute(data))
}

func TestDistinctInputsDiffer(t *testing.T) {
	a := Payload32.Compute([]byte("AAAA"))
	b := Payload32.Compute([]byte("AAAB"))
	assert.NotEqual(t, a, b)
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, uint16(0), Preamble16.Compute(nil))
	assert.Equal(t, uint32(0), Payload32.Compute(nil))
}
