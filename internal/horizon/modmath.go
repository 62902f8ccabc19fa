package horizon

import "math/bits"

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0.
// The magnitudes are taken as uint64, so math.MinInt64 is handled. A result
// of 2^63, as in GCD(math.MinInt64, 0), does not fit and wraps to
// math.MinInt64.
func GCD(a, b int64) int64 {
	x, y := magnitude(a), magnitude(b)
	for y != 0 {
		x, y = y, x%y
	}
	return int64(x)
}

// magnitude returns |a| without overflowing for math.MinInt64.
func magnitude(a int64) uint64 {
	if a < 0 {
		return -uint64(a)
	}
	return uint64(a)
}

// MulMod returns a*b mod m without overflow. m must be non-zero.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// PowMod returns base^exp mod m by square-and-multiply. m must be non-zero.
func PowMod(base, exp, m uint64) uint64 {
	result := uint64(1) % m
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		base = MulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// reduce maps base into [0, m).
func reduce(base, m int64) uint64 {
	r := base % m
	if r < 0 {
		r += m
	}
	return uint64(r)
}
