package compiler

import (
	"fmt"

	"github.com/a003558/dyadic/internal/ir"
)

// MaxRange bounds the number of indices a single scan may cover.
const MaxRange = 1 << 20

// MaxSamples bounds the number of pairs a norm experiment may draw.
const MaxSamples = 1 << 22

// Validation error codes (E100-E199)
const (
	ErrUnknownKind    = "E101" // kind is not staircase, spikes or norm
	ErrInvalidRange   = "E102" // from/to missing or from > to
	ErrRangeTooLarge  = "E103" // to - from + 1 exceeds MaxRange
	ErrInvalidSamples = "E104" // norm experiment without a positive sample count
	ErrInvalidWorkers = "E105" // workers outside [1, 256]
	ErrUnusedField    = "E106" // field has no meaning for the kind
	ErrDuplicateName  = "E107" // two experiments share a name
	ErrInvalidSeed    = "E108" // negative seed
)

// ValidationError represents a semantic error in a compiled experiment.
type ValidationError struct {
	Experiment string `json:"experiment"`
	Field      string `json:"field"`
	Message    string `json:"message"`
	Code       string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Experiment, e.Field, e.Message)
}

// Validate checks a compiled experiment. It returns every problem found
// rather than stopping at the first.
func Validate(e *ir.Experiment) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Experiment: e.Name,
			Field:      field,
			Message:    fmt.Sprintf(format, args...),
			Code:       code,
		})
	}

	if !ir.ValidKinds[e.Kind] {
		add("kind", ErrUnknownKind, "unknown kind %q", e.Kind)
	}

	switch e.Kind {
	case ir.KindStaircase, ir.KindSpikes:
		switch {
		case e.From < 1:
			add("from", ErrInvalidRange, "from must be >= 1, got %d", e.From)
		case e.To < e.From:
			add("to", ErrInvalidRange, "to (%d) must be >= from (%d)", e.To, e.From)
		case e.To-e.From+1 > MaxRange:
			add("to", ErrRangeTooLarge, "range covers %d indices, limit is %d", e.To-e.From+1, MaxRange)
		}
		if e.Samples != 0 {
			add("samples", ErrUnusedField, "samples is only used by norm experiments")
		}
	case ir.KindNorm:
		if e.Samples < 1 || e.Samples > MaxSamples {
			add("samples", ErrInvalidSamples, "samples must be in [1, %d], got %d", MaxSamples, e.Samples)
		}
		if e.From != 0 || e.To != 0 {
			add("from", ErrUnusedField, "from/to are only used by staircase and spikes experiments")
		}
	}

	if e.Workers < 1 || e.Workers > 256 {
		add("workers", ErrInvalidWorkers, "workers must be in [1, 256], got %d", e.Workers)
	}
	if e.Seed < 0 {
		add("seed", ErrInvalidSeed, "seed must be >= 0, got %d", e.Seed)
	}

	return errs
}

// ValidateAll validates each experiment and checks names are unique.
func ValidateAll(exps []ir.Experiment) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(exps))
	for i := range exps {
		e := &exps[i]
		if seen[e.Name] {
			errs = append(errs, ValidationError{
				Experiment: e.Name,
				Field:      "name",
				Message:    "duplicate experiment name",
				Code:       ErrDuplicateName,
			})
		}
		seen[e.Name] = true
		errs = append(errs, Validate(e)...)
	}
	return errs
}
