package horizon

import "fmt"

// MultiplicativeOrder returns the smallest L > 0 with base^L ≡ 1 (mod modulus).
//
// The order exists only when modulus > 1 and gcd(base, modulus) = 1; any
// other input fails with an invalid argument error. Negative bases are
// reduced into [0, modulus) first.
//
// The order divides φ(modulus), so the search starts at φ and strips prime
// factors of φ for as long as the reduced exponent still maps base to 1.
//
// φ and its factors are found by trial division, which costs up to
// sqrt(modulus) divisions twice over. Moduli of a few billion answer at once;
// a prime modulus near 2^63 takes billions of divisions.
func MultiplicativeOrder(base, modulus int64) (int64, error) {
	if err := checkOrderArgs(base, modulus); err != nil {
		return 0, err
	}
	m := uint64(modulus)
	b := reduce(base, modulus)

	phi, err := Phi(modulus)
	if err != nil {
		return 0, fmt.Errorf("multiplicative order: %w", err)
	}
	factors, err := Factorize(phi)
	if err != nil {
		return 0, fmt.Errorf("multiplicative order: %w", err)
	}

	order := phi
	for _, f := range factors {
		p := f.Prime
		for order%p == 0 && PowMod(b, uint64(order/p), m) == 1 {
			order /= p
		}
	}
	return order, nil
}

// orderByScan finds the order by repeated multiplication. It is linear in
// the order and only suited to small moduli; MultiplicativeOrder is checked
// against it.
func orderByScan(base, modulus int64) (int64, error) {
	if err := checkOrderArgs(base, modulus); err != nil {
		return 0, err
	}
	m := uint64(modulus)
	b := reduce(base, modulus)
	r := b
	for l := int64(1); ; l++ {
		if r == 1 {
			return l, nil
		}
		r = MulMod(r, b, m)
	}
}

func checkOrderArgs(base, modulus int64) error {
	if modulus <= 1 {
		return newInvalidArgument("multiplicative order", "modulus must be greater than 1",
			map[string]string{"base": fmt.Sprint(base), "modulus": fmt.Sprint(modulus)})
	}
	if g := GCD(int64(reduce(base, modulus)), modulus); g != 1 {
		return newInvalidArgument("multiplicative order",
			fmt.Sprintf("base and modulus share factor %d, no finite order exists", g),
			map[string]string{"base": fmt.Sprint(base), "modulus": fmt.Sprint(modulus)})
	}
	return nil
}
