package octonion

import "sync"

// Dim is the number of components of an octonion.
const Dim = 8

// Triple is an oriented line of the Fano plane: ea·eb = ec.
type Triple [3]int

// Triples are the seven Fano-plane lines that define the multiplication.
//
// The lines are {1,2,3}, {1,4,5}, {1,6,7}, {2,4,6}, {3,4,7}, {2,5,7} and
// {3,5,6}. Orientation matters: with {1,6,7} and {3,5,6} read in ascending
// order the product is not a composition algebra and (e1e2)e4 = e1(e2e4),
// so those two lines run the other way, as (1,7,6) and (3,6,5).
var Triples = [7]Triple{
	{1, 2, 3},
	{1, 4, 5},
	{1, 7, 6},
	{2, 4, 6},
	{3, 4, 7},
	{2, 5, 7},
	{3, 6, 5},
}

// Product is the result of multiplying two basis units: Sign·e_Unit.
// Unit 0 is the real unit.
type Product struct {
	Sign int8
	Unit uint8
}

// Table holds the product of every ordered pair of basis units.
type Table [Dim][Dim]Product

// BuildTable computes the structure-constant table.
//
// e0 is the two-sided identity, ei·ei = -e0 for i >= 1, and each triple
// (a, b, c) contributes ab = c, bc = a, ca = b with the reversed products
// negated.
func BuildTable() *Table {
	var t Table
	for i := 0; i < Dim; i++ {
		t[0][i] = Product{Sign: 1, Unit: uint8(i)}
		t[i][0] = Product{Sign: 1, Unit: uint8(i)}
	}
	for i := 1; i < Dim; i++ {
		t[i][i] = Product{Sign: -1, Unit: 0}
	}
	for _, tr := range Triples {
		a, b, c := tr[0], tr[1], tr[2]
		t[a][b] = Product{Sign: 1, Unit: uint8(c)}
		t[b][c] = Product{Sign: 1, Unit: uint8(a)}
		t[c][a] = Product{Sign: 1, Unit: uint8(b)}
		t[b][a] = Product{Sign: -1, Unit: uint8(c)}
		t[c][b] = Product{Sign: -1, Unit: uint8(a)}
		t[a][c] = Product{Sign: -1, Unit: uint8(b)}
	}
	return &t
}

var (
	structure     *Table
	structureOnce sync.Once
)

// Structure returns the process-wide table, building it on first use.
// The returned table must not be modified.
func Structure() *Table {
	structureOnce.Do(func() {
		structure = BuildTable()
	})
	return structure
}

// Mul returns the product xy under t.
func (t *Table) Mul(x, y Octonion) Octonion {
	var z Octonion
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			p := t[i][j]
			z[p.Unit] += float64(p.Sign) * x[i] * y[j]
		}
	}
	return z
}

// Signed returns the table in signed-index form: entry (i, j) is k when
// ei·ej = ek and -k when ei·ej = -ek.
//
// The real unit has index 0, which has no sign, so the diagonal entries for
// i >= 1 are 0 just like the identity column. Consumers of this encoding must
// special-case i == j >= 1 as -1. Mul never reads this form.
func (t *Table) Signed() [Dim][Dim]int {
	var s [Dim][Dim]int
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			p := t[i][j]
			s[i][j] = int(p.Sign) * int(p.Unit)
		}
	}
	return s
}
