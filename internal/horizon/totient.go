package horizon

import "fmt"

// PrimePower is one factor p^k of an integer factorization.
type PrimePower struct {
	Prime    int64
	Exponent int
}

// Factorize returns the prime factorization of m in increasing prime order,
// found by trial division. Factorize(1) is empty.
func Factorize(m int64) ([]PrimePower, error) {
	if m < 1 {
		return nil, newInvalidArgument("factorize", "m must be positive",
			map[string]string{"m": fmt.Sprint(m)})
	}
	var factors []PrimePower
	for d := int64(2); d <= m/d; {
		if m%d == 0 {
			k := 0
			for m%d == 0 {
				m /= d
				k++
			}
			factors = append(factors, PrimePower{Prime: d, Exponent: k})
		}
		if d == 2 {
			d = 3
		} else {
			d += 2
		}
	}
	if m > 1 {
		factors = append(factors, PrimePower{Prime: m, Exponent: 1})
	}
	return factors, nil
}

// Phi returns Euler's totient of m, the count of 1 <= k <= m coprime to m.
func Phi(m int64) (int64, error) {
	factors, err := Factorize(m)
	if err != nil {
		return 0, fmt.Errorf("phi: %w", err)
	}
	phi := m
	for _, f := range factors {
		phi = phi / f.Prime * (f.Prime - 1)
	}
	return phi, nil
}

// PrimePowerBase reports whether m = p^k for a prime p and k >= 1, and
// returns p. These moduli are where ord_m(2) can reach φ(m), producing the
// spikes above the staircase.
func PrimePowerBase(m int64) (int64, bool) {
	if m < 2 {
		return 0, false
	}
	factors, err := Factorize(m)
	if err != nil || len(factors) != 1 {
		return 0, false
	}
	return factors[0].Prime, true
}
