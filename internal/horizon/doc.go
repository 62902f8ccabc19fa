// Package horizon implements the dyadic staircase arithmetic behind OEIS
// A003558: L(n) = ord_{2n-1}(2), the multiplicative order of 2 modulo 2n-1.
//
// The staircase level of n is 1 + ceil(log2 n). Every order L(n) meets it:
// 2^L ≡ 1 (mod 2n-1) forces 2^L > 2n-2, hence n <= 2^(L-1). HorizonBound
// checks that inequality, and a violation always means a computation defect.
//
// All functions are pure and safe for concurrent use. Arithmetic is done on
// int64 inputs with 128-bit intermediate products, so no modulus that fits in
// an int64 overflows.
package horizon
