package octonion

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse reads an octonion from a comma- or space-separated list of eight
// numbers, optionally wrapped in brackets: "1,0,0,0,0,0,0,0" or
// "[0 1 0 0 0 0 0 0]". A basis name "e0".."e7" is also accepted.
// Components must be finite.
func Parse(s string) (Octonion, error) {
	s = strings.TrimSpace(s)
	if len(s) == 2 && (s[0] == 'e' || s[0] == 'E') && s[1] >= '0' && s[1] <= '9' {
		return Basis(int(s[1] - '0'))
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	v := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil && !isRangeError(err) {
			return Octonion{}, NewInvalidArgument("parse", fmt.Sprintf("component %d: %q is not a number", i, f))
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Octonion{}, NewInvalidArgument("parse", fmt.Sprintf("component %d: %q is not finite", i, f))
		}
		v[i] = x
	}
	return FromSlice(v)
}

// isRangeError reports whether ParseFloat failed only because the value
// overflowed; it then returns ±Inf, which the finiteness check rejects.
func isRangeError(err error) bool {
	var ne *strconv.NumError
	return errors.As(err, &ne) && ne.Err == strconv.ErrRange
}
