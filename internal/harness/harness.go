package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/a003558/dyadic/internal/octonion"
)

// Harness is the scenario execution engine.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness that logs step execution to logger.
// A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Steps run in order against the real implementation. A step whose outcome
// differs from its expect clause, or a failed assertion, adds an error to the
// result. A malformed argument aborts the run with an error.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.executeStep(int64(i), step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"steps", len(scenario.Steps),
		"pass", result.Pass,
	)
	return result, nil
}

func (h *Harness) executeStep(index int64, step Step, result *Result) error {
	op, ok := operations[step.Op]
	if !ok {
		return fmt.Errorf("unknown op %q", step.Op)
	}

	args, err := canonicalArgs(step.Args)
	if err != nil {
		return fmt.Errorf("failed to convert args: %w", err)
	}

	got, opErr := op(step.Args)
	var argErr *ArgError
	if errors.As(opErr, &argErr) {
		return argErr
	}

	event := TraceEvent{Step: index, Op: step.Op, Args: args, Outcome: OutcomeOK}
	if opErr != nil {
		event.Outcome = OutcomeError
		event.ErrorCode = ErrorCode(opErr)
	} else {
		event.Result = got.render()
	}
	result.AddTrace(event)

	for _, msg := range checkExpect(step.Expect, got, opErr) {
		result.AddError(fmt.Sprintf("step %d (%s): %s", index, step.Op, msg))
	}

	h.logger.Debug("step executed",
		"step", index,
		"op", step.Op,
		"outcome", event.Outcome,
		"error_code", event.ErrorCode,
	)
	return nil
}

// checkExpect compares an outcome with an expect clause and returns the
// mismatches.
func checkExpect(e *Expect, got value, opErr error) []string {
	if e == nil {
		if opErr != nil {
			return []string{fmt.Sprintf("unexpected error: %v", opErr)}
		}
		return nil
	}

	if e.Error != "" {
		if opErr == nil {
			return []string{fmt.Sprintf("expected error %s, got result %v", e.Error, got.render())}
		}
		if code := ErrorCode(opErr); code != e.Error {
			return []string{fmt.Sprintf("expected error %s, got %s: %v", e.Error, code, opErr)}
		}
		return nil
	}
	if opErr != nil {
		return []string{fmt.Sprintf("unexpected error: %v", opErr)}
	}

	tol := e.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}

	var errs []string
	if e.Value != nil {
		switch {
		case got.Int == nil:
			errs = append(errs, fmt.Sprintf("expected integer %d, got %v", *e.Value, got.render()))
		case *got.Int != *e.Value:
			errs = append(errs, fmt.Sprintf("expected value %d, got %d", *e.Value, *got.Int))
		}
	}
	if e.Bool != nil {
		switch {
		case got.Bool == nil:
			errs = append(errs, fmt.Sprintf("expected bool %t, got %v", *e.Bool, got.render()))
		case *got.Bool != *e.Bool:
			errs = append(errs, fmt.Sprintf("expected bool %t, got %t", *e.Bool, *got.Bool))
		}
	}
	if e.Number != nil {
		switch {
		case got.Number == nil:
			errs = append(errs, fmt.Sprintf("expected number %v, got %v", *e.Number, got.render()))
		case !within(*got.Number, *e.Number, tol):
			errs = append(errs, fmt.Sprintf("expected number %v ± %v, got %v", *e.Number, tol, *got.Number))
		}
	}
	if e.Vector != nil {
		want, err := octonion.FromSlice(e.Vector)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("expected vector: %v", err))
		case got.Vector == nil:
			errs = append(errs, fmt.Sprintf("expected vector %v, got %v", want, got.render()))
		case !octonion.Equal(*got.Vector, want, tol):
			errs = append(errs, fmt.Sprintf("expected vector %v, got %v", want, *got.Vector))
		}
	}
	if e.Norm != nil {
		switch {
		case got.Vector == nil:
			errs = append(errs, fmt.Sprintf("expected norm %v of a vector, got %v", *e.Norm, got.render()))
		case !within(octonion.Norm(*got.Vector), *e.Norm, tol):
			errs = append(errs, fmt.Sprintf("expected norm %v ± %v, got %v", *e.Norm, tol, octonion.Norm(*got.Vector)))
		}
	}
	return errs
}

// within reports whether got is within tol of want, scaled by |want| when
// it exceeds one.
func within(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol*math.Max(1, math.Abs(want))
}
