package bch

import "sort"

// Decode runs an order-2 ordered-statistics decode of a soft-valued
// received vector (length N, positive = bit 0 more likely, negative =
// bit 1 more likely, magnitude = reliability), per spec.md §4.8:
//
//  1. sort columns by descending reliability
//  2. reduce the permuted generator to systematic form via row
//     elimination with column pivoting
//  3. hard-decide the K most-reliable (pivot) coordinates, encode a
//     trial codeword
//  4. compute a linear-correlation metric against the received soft
//     vector
//  5. flip every single pivot bit and every pivot-bit pair, keep the
//     best two candidates
//
// Decode returns the full N-bit decoded codeword and true iff the best
// candidate's metric strictly exceeds the second-best.
func (c *Code) Decode(soft []float64) ([]byte, bool) {
	perm := make([]int, N)
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool {
		return abs64(soft[perm[a]]) > abs64(soft[perm[b]])
	})

	permuted := make([][]byte, K)
	for r := 0; r < K; r++ {
		row := make([]byte, N)
		for j, col := range perm {
			row[j] = c.gen[r][col]
		}
		permuted[r] = row
	}

	pivotCols, reduced := systematize(permuted)
	if len(pivotCols) < K {
		return nil, false
	}

	hard := make([]byte, K)
	for r, col := range pivotCols {
		if soft[perm[col]] < 0 {
			hard[r] = 1
		}
	}

	type candidate struct {
		msg    []byte
		metric float64
	}
	best := candidate{metric: negInf}
	second := candidate{metric: negInf}
	consider := func(msg []byte) {
		permutedWord := matVec(reduced, msg)
		m := correlate(permutedWord, soft, perm)
		if m > best.metric {
			second = best
			best = candidate{msg: msg, metric: m}
		} else if m > second.metric {
			second = candidate{msg: msg, metric: m}
		}
	}

	consider(append([]byte(nil), hard...))
	for i := 0; i < K; i++ {
		flipped := append([]byte(nil), hard...)
		flipped[i] ^= 1
		consider(flipped)
	}
	for i := 0; i < K; i++ {
		for j := i + 1; j < K; j++ {
			flipped := append([]byte(nil), hard...)
			flipped[i] ^= 1
			flipped[j] ^= 1
			consider(flipped)
		}
	}

	if best.metric <= second.metric {
		return nil, false
	}

	permutedWord := matVec(reduced, best.msg)
	decoded := make([]byte, N)
	for j, col := range perm {
		decoded[col] = permutedWord[j]
	}
	return decoded, true
}

const negInf = -1e300

func abs64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// systematize row-reduces an R x N binary matrix (R independent rows,
// columns already ordered most-reliable-first) by Gauss-Jordan
// elimination with column pivoting: scanning columns left to right, each
// column that admits a pivot row becomes an identity column in the
// result. Returns the R pivot column indices (in row order) and the
// fully reduced matrix (same shape as the input).
func systematize(rows [][]byte) ([]int, [][]byte) {
	r := len(rows)
	n := len(rows[0])
	m := make([][]byte, r)
	for i, row := range rows {
		m[i] = append([]byte(nil), row...)
	}
	pivotCols := make([]int, 0, r)
	pivotRow := 0
	for col := 0; col < n && pivotRow < r; col++ {
		sel := -1
		for i := pivotRow; i < r; i++ {
			if m[i][col] == 1 {
				sel = i
				break
			}
		}
		if sel == -1 {
			continue
		}
		m[pivotRow], m[sel] = m[sel], m[pivotRow]
		for i := 0; i < r; i++ {
			if i != pivotRow && m[i][col] == 1 {
				xorRow(m[i], m[pivotRow])
			}
		}
		pivotCols = append(pivotCols, col)
		pivotRow++
	}
	return pivotCols, m
}

func xorRow(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// matVec returns msg * mat over GF(2): the linear combination of mat's
// rows selected by msg's set bits.
func matVec(mat [][]byte, msg []byte) []byte {
	n := len(mat[0])
	out := make([]byte, n)
	for r, bit := range msg {
		if bit == 1 {
			xorRow(out, mat[r])
		}
	}
	return out
}

// correlate computes sum(soft[perm[j]] * bpsk(word[j])) across a
// permuted-order binary word against the original-order soft vector.
func correlate(word []byte, soft []float64, perm []int) float64 {
	var total float64
	for j, bit := range word {
		v := soft[perm[j]]
		if bit == 1 {
			total -= v
		} else {
			total += v
		}
	}
	return total
}
