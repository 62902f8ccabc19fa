// Package compiler turns CUE experiment definitions into ir.Experiment values
// and checks them.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/a003558/dyadic/internal/ir"
)

// schemaSource constrains experiment definitions and supplies defaults.
// #Experiment is closed, so a misspelled field is rejected by CUE itself.
const schemaSource = `
#Experiment: {
	kind:         "staircase" | "spikes" | "norm"
	description?: string
	from?:        int & >=1
	to?:          int & >=1
	samples?:     int & >=1
	seed:         *0 | int & >=0
	workers:      *1 | int & >=1 & <=256
}
`

// CompileExperiment parses a CUE value into an Experiment.
// Uses the CUE Go API directly.
//
// The value should be the experiment struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`experiment: horizon: { kind: "staircase", to: 2048 }`)
//	exp, err := CompileExperiment(v.LookupPath(cue.ParsePath("experiment.horizon")))
func CompileExperiment(v cue.Value) (*ir.Experiment, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	exp := &ir.Experiment{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		exp.Name = labels[len(labels)-1].String()
	}

	schema := v.Context().CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("experiment schema: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Experiment")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	kind, err := unified.LookupPath(cue.ParsePath("kind")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	exp.Kind = ir.Kind(kind)

	fields := []struct {
		name string
		dst  *int64
	}{
		{"from", &exp.From},
		{"to", &exp.To},
		{"samples", &exp.Samples},
		{"seed", &exp.Seed},
		{"workers", &exp.Workers},
	}
	for _, f := range fields {
		if err := lookupInt(unified, f.name, f.dst); err != nil {
			return nil, err
		}
	}

	return exp, nil
}

// lookupInt reads an integer field, resolving defaults. Optional fields
// that were not set are left at zero.
func lookupInt(v cue.Value, field string, dst *int64) error {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil
	}
	if d, ok := fv.Default(); ok {
		fv = d
	}
	if !fv.IsConcrete() {
		return nil
	}
	n, err := fv.Int64()
	if err != nil {
		return &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be an integer: %v", err),
			Pos:     fv.Pos(),
		}
	}
	*dst = n
	return nil
}

// CompileError reports a problem in an experiment definition.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return &CompileError{Field: "cue", Message: firstErr.Error()}
}
