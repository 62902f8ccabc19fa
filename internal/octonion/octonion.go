package octonion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Octonion is a real octonion. Component 0 is the real part, components
// 1..7 are the coefficients of e1..e7.
type Octonion [Dim]float64

// One returns the real unit e0.
func One() Octonion {
	return Octonion{0: 1}
}

// Basis returns the basis unit ei for i in 0..7.
func Basis(i int) (Octonion, error) {
	if i < 0 || i >= Dim {
		return Octonion{}, NewInvalidArgument("basis", fmt.Sprintf("basis index %d out of range [0, %d]", i, Dim-1))
	}
	var x Octonion
	x[i] = 1
	return x, nil
}

// MustBasis is like Basis but panics on error.
// Use only in tests or with constant indices.
func MustBasis(i int) Octonion {
	x, err := Basis(i)
	if err != nil {
		panic(err)
	}
	return x
}

// FromSlice copies exactly eight components into an Octonion.
// Any other length is a dimension mismatch.
func FromSlice(v []float64) (Octonion, error) {
	if len(v) != Dim {
		return Octonion{}, NewDimensionMismatch(len(v))
	}
	var x Octonion
	copy(x[:], v)
	return x, nil
}

// Mul returns xy using the shared structure table.
func Mul(x, y Octonion) Octonion {
	return Structure().Mul(x, y)
}

// SquaredNorm returns the Euclidean inner product of x with itself.
func SquaredNorm(x Octonion) float64 {
	var s float64
	for _, v := range x {
		s += v * v
	}
	return s
}

// Norm returns the Euclidean length of x.
func Norm(x Octonion) float64 {
	return math.Sqrt(SquaredNorm(x))
}

// Conj returns the conjugate of x: the real part is kept, the imaginary
// part negated.
func Conj(x Octonion) Octonion {
	z := x
	for i := 1; i < Dim; i++ {
		z[i] = -z[i]
	}
	return z
}

func Add(x, y Octonion) Octonion {
	var z Octonion
	for i := range z {
		z[i] = x[i] + y[i]
	}
	return z
}

func Sub(x, y Octonion) Octonion {
	var z Octonion
	for i := range z {
		z[i] = x[i] - y[i]
	}
	return z
}

func Scale(x Octonion, a float64) Octonion {
	var z Octonion
	for i := range z {
		z[i] = a * x[i]
	}
	return z
}

// Commutator returns xy - yx.
func Commutator(x, y Octonion) Octonion {
	t := Structure()
	return Sub(t.Mul(x, y), t.Mul(y, x))
}

// Associator returns (xy)z - x(yz).
func Associator(x, y, z Octonion) Octonion {
	t := Structure()
	return Sub(t.Mul(t.Mul(x, y), z), t.Mul(x, t.Mul(y, z)))
}

// Equal reports whether every component of x and y differs by at most tol.
func Equal(x, y Octonion, tol float64) bool {
	for i := range x {
		if math.Abs(x[i]-y[i]) > tol {
			return false
		}
	}
	return true
}

// String formats x as a bracketed list of its components.
func (x Octonion) String() string {
	parts := make([]string, Dim)
	for i, v := range x {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
