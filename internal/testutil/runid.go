// Package testutil holds helpers shared by tests and golden output.
package testutil

// FixedRunIDGenerator returns the same run ID every time.
//
// Reports produced with it are byte-identical across runs, so they can be
// compared against golden files. Unlike experiment.FixedGenerator, which
// hands out a sequence, every report shares the one ID.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator that always returns id.
// If id is empty, Generate returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements experiment.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
