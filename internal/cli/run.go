package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a003558/dyadic/internal/compiler"
	"github.com/a003558/dyadic/internal/experiment"
	"github.com/a003558/dyadic/internal/ir"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter string // experiment name filter (glob pattern)
	CSVDir string // write each report's levels to <dir>/<name>.csv

	// RunIDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator experiment.RunIDGenerator
}

// RunResult holds the reports of one run command.
type RunResult struct {
	Reports []*ir.Report `json:"reports"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <experiments-dir>",
		Short: "Run every experiment in a directory",
		Long: `Load, validate and run the CUE experiment definitions in a directory.

Experiments run one after another in name order; each one fans its work out
over its own worker count. Ctrl-C cancels the experiment in progress.

Exit codes:
  0 - Every report passed
  1 - A report found violations or exceeded its tolerance
  2 - Command error (load or validation failure)

Examples:
  dyadic run ./experiments
  dyadic run ./experiments --filter "spikes-*" --csv-dir ./out
  dyadic run ./experiments --format json --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiments(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only experiments whose name matches this glob")
	cmd.Flags().StringVar(&opts.CSVDir, "csv-dir", "", "write each report's levels as CSV into this directory")

	return cmd
}

func runExperiments(opts *RunOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	logger.Info("loading experiments", "dir", dir)
	exps, err := compileExperiments(dir)
	if err != nil {
		return failLoad(f, []error{err})
	}
	if errs := compiler.ValidateAll(exps); len(errs) > 0 {
		first := errs[0]
		return f.Fail(ExitCommandError, first.Code, fmt.Sprintf("%s.%s: %s", first.Experiment, first.Field, first.Message), errs)
	}

	exps, err = filterExperiments(exps, opts.Filter)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadArgument, err.Error(), nil)
	}
	logger.Info("experiments loaded", "count", len(exps))

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := experiment.New(opts.RunIDGenerator, experiment.WithLogger(logger))
	reports, err := runner.RunAll(ctx, exps)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRunFailed, err.Error(), nil)
	}

	if opts.CSVDir != "" {
		if err := writeReportCSVs(opts.CSVDir, reports); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
		logger.Info("csv written", "dir", opts.CSVDir)
	}

	result := RunResult{Reports: reports}
	for _, r := range reports {
		if r.Pass() {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if f.Format == "json" {
		if err := f.Success(result); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			fmt.Fprintln(f.Writer, reportSummary{r})
		}
		fmt.Fprintln(f.Writer)
		fmt.Fprintf(f.Writer, "Run Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, len(reports))
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d experiment(s) failed", ErrCodeRunFailed, result.Failed))
	}
	return nil
}

// compileExperiments loads and compiles all experiments from a directory.
func compileExperiments(dir string) ([]ir.Experiment, error) {
	loadResult, loadErrors := LoadExperiments(dir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return nil, loadErrors[0]
	}
	return loadResult.Experiments, nil
}

func filterExperiments(exps []ir.Experiment, pattern string) ([]ir.Experiment, error) {
	if pattern == "" {
		return exps, nil
	}
	var out []ir.Experiment
	for _, e := range exps {
		ok, err := filepath.Match(pattern, e.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// writeReportCSVs writes one CSV per report that has levels.
func writeReportCSVs(dir string, reports []*ir.Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create csv directory: %w", err)
	}
	for _, r := range reports {
		if len(r.Levels) == 0 {
			continue
		}
		if err := writeCSVFile(filepath.Join(dir, r.Experiment.Name+".csv"), r.Levels); err != nil {
			return err
		}
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
