package qmath

// Saturating int8 arithmetic for min-sum check-node updates (spec.md
// §4.1). Every result stays in [-127,127]. The polar list decoder in this
// module does not call these; it applies the same min-sum rule in
// float64 (polar.fCombine).

const (
	int8Min = -127
	int8Max = 127
)

// clamp saturates v to [-127, 127].
func clamp(v int32) int8 {
	if v > int8Max {
		return int8Max
	}
	if v < int8Min {
		return int8Min
	}
	return int8(v)
}

// Qadd returns a + b saturated to [-127, 127].
func Qadd(a, b int8) int8 {
	return clamp(int32(a) + int32(b))
}

// Qabs returns |a| saturated to [-127, 127] (handles a == -128 safely,
// though inputs are expected to already be in [-127,127]).
func Qabs(a int8) int8 {
	if a < 0 {
		return clamp(-int32(a))
	}
	return a
}

// Qmin returns the smaller of a, b.
func Qmin(a, b int8) int8 {
	if a < b {
		return a
	}
	return b
}

// sign returns -1, 0, or 1.
func sign(a int8) int32 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	default:
		return 0
	}
}

// Prod implements the min-sum check-node combine:
//
//	prod(a,b) = sgn(a)*sgn(b)*min(|a|,|b|)
//
// clamped to [-127,127].
func Prod(a, b int8) int8 {
	s := sign(a) * sign(b)
	m := int32(Qmin(Qabs(a), Qabs(b)))
	return clamp(s * m)
}

// Madd returns clamp(a*b + c) saturated to [-127,127].
func Madd(a, b, c int8) int8 {
	return clamp(int32(a)*int32(b) + int32(c))
}
