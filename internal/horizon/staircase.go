package horizon

import (
	"fmt"
	"math/bits"
)

// StaircaseLevel returns 1 + ceil(log2 n), the step of the dyadic staircase
// containing n: the k with 2^(k-2) < n <= 2^(k-1).
func StaircaseLevel(n int64) (int, error) {
	if n <= 0 {
		return 0, newInvalidArgument("staircase level", "n must be positive",
			map[string]string{"n": fmt.Sprint(n)})
	}
	return staircase(n), nil
}

// HorizonBound reports whether L >= 1 + ceil(log2 n), i.e. n <= 2^(L-1).
// A non-positive n has no staircase level and fails with an invalid
// argument error.
func HorizonBound(n, L int64) (bool, error) {
	if n <= 0 {
		return false, newInvalidArgument("horizon bound", "n must be positive",
			map[string]string{"n": fmt.Sprint(n), "l": fmt.Sprint(L)})
	}
	return L >= int64(staircase(n)), nil
}

// staircase computes 1 + ceil(log2 n) for n >= 1. ceil(log2 n) is the bit
// length of n-1.
func staircase(n int64) int {
	return 1 + bits.Len64(uint64(n-1))
}
