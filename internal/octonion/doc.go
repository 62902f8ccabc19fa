// Package octonion implements the real octonion algebra over the basis
// {1, e1, ..., e7}.
//
// Multiplication is resolved through a structure-constant table built once
// from the seven Fano-plane triples. Every entry of the table is a tagged
// product (sign, unit), so the self-product ei·ei = -1 is stored explicitly
// instead of being inferred from a zero entry.
//
// The algebra is neither commutative nor associative. It is a normed
// division algebra: |xy|² = |x|²|y|² for all x, y.
//
// Octonion values are fixed-size arrays and are passed by value, so no
// operation in this package mutates its inputs. The shared table returned by
// Structure is read-only and safe for concurrent use.
package octonion
