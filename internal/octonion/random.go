package octonion

import "math/rand/v2"

// RandomUnit draws a point uniformly from the unit 7-sphere: eight
// independent standard normals divided by their Euclidean norm.
//
// A nil src uses a fresh unseeded source.
func RandomUnit(src rand.Source) Octonion {
	var r *rand.Rand
	if src == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		r = rand.New(src)
	}
	for {
		var x Octonion
		for i := range x {
			x[i] = r.NormFloat64()
		}
		n := Norm(x)
		if n == 0 {
			continue
		}
		return Scale(x, 1/n)
	}
}

// SeededUnit is RandomUnit with a PCG source seeded from seed. The same seed
// always yields the same bits.
func SeededUnit(seed uint64) Octonion {
	return RandomUnit(rand.NewPCG(seed, seed))
}
