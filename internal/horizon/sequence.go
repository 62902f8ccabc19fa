package horizon

import (
	"fmt"
	"math"
)

// maxIndex is the largest n whose modulus 2n-1 fits in an int64.
const maxIndex = math.MaxInt64/2 + 1

// Level is one term of A003558: index N, modulus M = 2N-1, and L = ord_M(2).
type Level struct {
	N int64 `json:"n"`
	M int64 `json:"m"`
	L int64 `json:"l"`
}

// Staircase returns the staircase level of the index.
func (lv Level) Staircase() int {
	return staircase(lv.N)
}

// Bound reports whether the level satisfies the horizon bound. Levels come
// from Compute, so N is always positive.
func (lv Level) Bound() bool {
	return lv.N > 0 && lv.L >= int64(staircase(lv.N))
}

// Compute returns the level for index n.
//
// For n = 1 the modulus is 1, where every power of 2 is congruent to 1; the
// level takes L = 1, the smallest positive exponent, instead of failing the
// modulus > 1 precondition of MultiplicativeOrder.
func Compute(n int64) (Level, error) {
	if n <= 0 || n > maxIndex {
		return Level{}, newInvalidArgument("compute level",
			fmt.Sprintf("n must be in [1, %d]", int64(maxIndex)),
			map[string]string{"n": fmt.Sprint(n)})
	}
	m := 2*n - 1
	if m == 1 {
		return Level{N: n, M: m, L: 1}, nil
	}
	l, err := MultiplicativeOrder(2, m)
	if err != nil {
		return Level{}, fmt.Errorf("compute level %d: %w", n, err)
	}
	return Level{N: n, M: m, L: l}, nil
}

// Sequence computes the levels for every index in [from, to].
func Sequence(from, to int64) ([]Level, error) {
	if from <= 0 || to < from {
		return nil, newInvalidArgument("sequence", "range must satisfy 1 <= from <= to",
			map[string]string{"from": fmt.Sprint(from), "to": fmt.Sprint(to)})
	}
	levels := make([]Level, 0, to-from+1)
	for n := from; n <= to; n++ {
		lv, err := Compute(n)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lv)
	}
	return levels, nil
}

// Violations returns the levels that break the horizon bound. For levels
// produced by Compute the result is always empty.
func Violations(levels []Level) []Level {
	var bad []Level
	for _, lv := range levels {
		if !lv.Bound() {
			bad = append(bad, lv)
		}
	}
	return bad
}
