// Package experiment runs compiled experiments against the octonion and
// horizon packages and produces ir.Report values.
//
// # Kinds
//
//   - staircase: computes L(n) = ord_{2n-1}(2) for every n in [from, to],
//     records the staircase level and flags horizon-bound violations
//   - spikes: the same scan, keeping only n whose modulus 2n-1 is an odd
//     prime power and reporting φ(2n-1) next to the order
//   - norm: draws seeded triples of random unit octonions and measures the
//     norm law, commutativity and associativity on each
//
// # Concurrency
//
// Work is split across a bounded errgroup. Each index or sample owns one
// slot of a pre-sized slice, so reports are identical for any worker count.
// Workers share the read-only octonion structure table without locking.
//
// # Determinism
//
// Everything except RunID is a pure function of the experiment definition.
// Tests pass a FixedGenerator (or testutil.FixedRunIDGenerator) to make the
// whole report reproducible.
package experiment
