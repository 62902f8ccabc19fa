// Package harness provides conformance testing for the octonion and horizon
// packages.
//
// The harness loads YAML scenarios, executes each step against the real
// implementation, compares the outcome with the step's expect clause and
// evaluates trace assertions.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	steps:
//	  - op: order
//	    args: { base: 2, modulus: 7 }
//	    expect: { value: 3 }
//	  - op: order
//	    args: { base: 2, modulus: 1 }
//	    expect: { error: INVALID_ARGUMENT }
//	  - op: mul
//	    args: { x: e1, y: e2 }
//	    expect: { vector: [0, 0, 0, 1, 0, 0, 0, 0] }
//	assertions:
//	  - type: trace_contains
//	    op: order
//	    args: { modulus: 7 }
//	  - type: trace_count
//	    op: mul
//	    count: 1
//
// Octonion arguments are either a list of eight numbers or a string accepted
// by octonion.Parse ("e3", "1,0,0,0,0,0,0,0").
//
// # Operations
//
//   - order {base, modulus}: multiplicative order, integer result
//   - staircase {n}: staircase level, integer result
//   - bound {n, l}: horizon bound, boolean result
//   - level {n}: A003558 term L(n), integer result
//   - phi {m}: Euler's totient, integer result
//   - mul {x, y}, conj {x}, commutator {x, y}, associator {x, y, z}: vector result
//   - squared_norm {x}: number result
//   - random_unit {seed}: vector result
//
// # Expect Clause
//
// value, bool, number, vector and norm compare the result; error names the
// expected error code and requires the step to fail. tolerance (default
// 1e-12) applies to number, vector and norm.
//
// # Assertion Types
//
//   - trace_contains: an op appears in the trace with matching args
//   - trace_order: ops appear in the given order
//   - trace_count: an op appears exactly N times
//
// # Deterministic Traces
//
// Steps run in order and every result is rendered with canonical JSON, so a
// scenario always produces the same trace bytes. Golden files under
// testdata/golden hold the expected traces.
package harness
