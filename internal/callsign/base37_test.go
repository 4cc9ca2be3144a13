package callsign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"TEST", "W1AW", "N0CALL", "K1ABC", ""} {
		v := Encode(s)
		got := Decode(v, MaxChars)
		want := s
		if len(want) > MaxChars {
			want = want[:MaxChars]
		}
		want = want + strings.Repeat(" ", MaxChars-len(want))
		assert.Equal(t, want, got)
	}
}

func TestRoundTripProperty(t *testing.T) {
	alphabet := "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, MaxChars).Draw(t, "n")
		var sb strings.Builder
		for i := 0; i < n; i++ {
			idx := rapid.IntRange(0, len(alphabet)-1).Draw(t, "c")
			sb.WriteByte(alphabet[idx])
		}
		s := sb.String()
		v := Encode(s)
		got := Decode(v, MaxChars)
		want := s + strings.Repeat(" ", MaxChars-len(s))
		assert.Equal(t, want, got)
	})
}

func TestMaxValid(t *testing.T) {
	assert.True(t, Valid(0))
	assert.True(t, Valid(MaxValid-1))
	assert.False(t, Valid(MaxValid))
}

func TestLowercaseFoldsToUppercase(t *testing.T) {
	assert.Equal(t, Encode("w1aw"), Encode("W1AW"))
}

func TestUnknownCharMapsToSpace(t *testing.T) {
	assert.Equal(t, Encode(" "), Encode("#"))
}
