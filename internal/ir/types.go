package ir

// Kind selects what an experiment computes.
type Kind string

const (
	// KindStaircase scans A003558 over an index range and checks every term
	// against the horizon bound.
	KindStaircase Kind = "staircase"

	// KindSpikes scans an index range and keeps the terms whose modulus
	// 2n-1 is an odd prime power, reporting φ(2n-1) next to the order.
	KindSpikes Kind = "spikes"

	// KindNorm samples pairs of random unit octonions and measures how far
	// |xy|² drifts from |x|²|y|².
	KindNorm Kind = "norm"
)

// ValidKinds lists the accepted experiment kinds.
var ValidKinds = map[Kind]bool{
	KindStaircase: true,
	KindSpikes:    true,
	KindNorm:      true,
}

// Experiment is a compiled experiment definition.
type Experiment struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	From    int64  `json:"from,omitempty"`    // staircase, spikes
	To      int64  `json:"to,omitempty"`      // staircase, spikes
	Samples int64  `json:"samples,omitempty"` // norm
	Seed    int64  `json:"seed"`              // norm
	Workers int64  `json:"workers"`
}

// Level is one reported term of A003558.
type Level struct {
	N         int64 `json:"n"`
	M         int64 `json:"m"`
	L         int64 `json:"l"`
	Staircase int64 `json:"staircase"`
	Bound     bool  `json:"bound"`

	// PrimeBase is p when M = p^k, and 0 otherwise.
	PrimeBase int64 `json:"prime_base,omitempty"`

	// Phi is φ(M); only filled for spike reports.
	Phi int64 `json:"phi,omitempty"`
}

// NormSummary aggregates a norm-law sampling run.
type NormSummary struct {
	Samples           int64   `json:"samples"`
	MaxRelativeError  float64 `json:"max_relative_error"`
	MeanRelativeError float64 `json:"mean_relative_error"`
	NonCommutative    int64   `json:"non_commutative"`
	NonAssociative    int64   `json:"non_associative"`
	RelativeTolerance float64 `json:"relative_tolerance"`
	WithinTolerance   bool    `json:"within_tolerance"`
}

// Report is the result of running one experiment.
type Report struct {
	RunID        string       `json:"run_id"`
	ExperimentID string       `json:"experiment_id"`
	Experiment   Experiment   `json:"experiment"`
	Levels       []Level      `json:"levels,omitempty"`
	Violations   []Level      `json:"violations,omitempty"`
	Norm         *NormSummary `json:"norm,omitempty"`

	// Digest identifies the integer content of Levels. Two runs over the
	// same range produce the same digest.
	Digest      string `json:"digest,omitempty"`
	IRVersion   string `json:"ir_version"`
	ToolVersion string `json:"tool_version"`
}

// Pass reports whether the experiment found nothing wrong.
func (r *Report) Pass() bool {
	if len(r.Violations) > 0 {
		return false
	}
	if r.Norm != nil && !r.Norm.WithinTolerance {
		return false
	}
	return true
}
