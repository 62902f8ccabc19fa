package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a003558/dyadic/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Experiments int                        `json:"experiments"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <experiments-dir>",
		Short: "Validate experiment definitions without running them",
		Long: `Compile the CUE experiment definitions in a directory against the
experiment schema and check ranges, sample counts, worker limits and name
uniqueness.

Exit codes:
  0 - All experiments valid
  1 - One or more experiments invalid
  2 - Command error (directory not found, CUE does not load)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := LoadExperiments(dir, LoadModeCollectAll)
	if loadResult == nil {
		return failLoad(formatter, loadErrors)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	validationErrors := loadValidationErrors(loadErrors)
	for _, exp := range loadResult.Experiments {
		formatter.VerboseLog("Validating experiment: %s (%s)", exp.Name, exp.Kind)
	}
	validationErrors = append(validationErrors, compiler.ValidateAll(loadResult.Experiments)...)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, len(loadResult.Experiments), validationErrors)
	}
	return outputValidateSuccess(formatter, len(loadResult.Experiments))
}

// failLoad reports an error that kept the directory from loading at all.
func failLoad(formatter *OutputFormatter, loadErrors []error) error {
	if len(loadErrors) == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "nothing loaded", nil)
	}
	var loadErr *LoadError
	if errors.As(loadErrors[0], &loadErr) {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, loadErrors[0].Error(), nil)
}

// loadValidationErrors turns per-experiment load errors into validation
// errors so they are listed next to the semantic ones.
func loadValidationErrors(loadErrors []error) []compiler.ValidationError {
	var out []compiler.ValidationError
	for _, err := range loadErrors {
		ve := compiler.ValidationError{Field: "load", Message: err.Error(), Code: ErrCodeGeneric}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			ve.Message = loadErr.Message
			ve.Code = loadErr.Code
			if loadErr.Pos.IsValid() {
				ve.Message = fmt.Sprintf("line %d: %s", loadErr.Pos.Line(), loadErr.Message)
			}
		}
		out = append(out, ve)
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, count int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Experiments: count})
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d experiment(s) valid\n", count)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, count int, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:       false,
				Experiments: count,
				Errors:      errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Experiment != "" {
			fmt.Fprintf(formatter.Writer, "experiment %s, field %s\n", err.Experiment, err.Field)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
