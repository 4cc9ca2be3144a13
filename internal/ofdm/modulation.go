package ofdm

import "math"

// qpskPoints is the Gray-coded unit-energy QPSK constellation indexed by
// the 2-bit dibit (b0 is the MSB of the pair).
var qpskPoints = [4]complex128{
	complex(1/math.Sqrt2, 1/math.Sqrt2),   // 00
	complex(-1/math.Sqrt2, 1/math.Sqrt2),  // 01
	complex(-1/math.Sqrt2, -1/math.Sqrt2), // 11
	complex(1/math.Sqrt2, -1/math.Sqrt2),  // 10
}

func qpskMap(b0, b1 int8) complex128 {
	idx := 0
	switch {
	case b0 == 0 && b1 == 0:
		idx = 0
	case b0 == 0 && b1 == 1:
		idx = 1
	case b0 == 1 && b1 == 1:
		idx = 2
	default:
		idx = 3
	}
	return qpskPoints[idx]
}

// qpskSoftDemap converts a received constellation point (already
// divided by the differential reference) into two int8 soft values,
// clamped to ±127 (spec.md §3: "LLRs on decode input are ±127 clamped"),
// scaled by precision (the QPSK soft gain, spec.md §4.14).
func qpskSoftDemap(v complex128, precision float64) (s0, s1 int8) {
	s0 = clampLLR(imag(v) * precision)
	s1 = clampLLR(real(v) * precision)
	return
}

func clampLLR(x float64) int8 {
	v := int(math.Round(x))
	if v > 127 {
		v = 127
	}
	if v < -127 {
		v = -127
	}
	return int8(v)
}

// Per-mode data byte budgets: spec.md §3's dataBits (680/1024/1360)
// already excludes the trailing 32-bit CRC (the F_712/F_1056/F_1392
// tables carry dataBits+32 info bits), packed into whole bytes (spec.md
// §3 modes 14/15/16).
const (
	mode16Bytes = 680 / 8  // 85
	mode15Bytes = 1024 / 8 // 128
	mode14Bytes = 1360 / 8 // 170
)

// chooseMode picks the smallest-capacity operation_mode whose data
// budget fits n payload bytes (spec.md §3 modes 14/15/16), including one
// byte for the null terminator. Returns mode=0 (ping) for n==0.
func chooseMode(n int) (mode, maxBytes int) {
	if n == 0 {
		return 0, 0
	}
	switch {
	case n <= mode16Bytes-1:
		return 16, mode16Bytes
	case n <= mode15Bytes-1:
		return 15, mode15Bytes
	default:
		return 14, mode14Bytes
	}
}
