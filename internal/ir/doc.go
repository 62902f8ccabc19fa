// Package ir provides the record types shared by the experiment compiler,
// the runner and the CLI, together with their canonical encoding.
//
// This package imports nothing internal. Key constraints:
//   - Canonical records are integer-only; floats never enter a digest
//   - All JSON tags use snake_case
//   - Digests are SHA-256 over canonical JSON with a versioned domain prefix
package ir
