package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a003558/dyadic/internal/compiler"
	"github.com/a003558/dyadic/internal/experiment"
	"github.com/a003558/dyadic/internal/ir"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	From    int64
	To      int64
	Workers int64
	Spikes  bool
	CSV     string // path, or "-" for stdout

	// RunIDGenerator overrides the report run ID (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator experiment.RunIDGenerator
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Tabulate A003558 with staircase levels",
		Long: `Compute L = ord_{2n-1}(2) for every n in [from, to] and check each term
against the horizon bound L >= 1 + ceil(log2 n).

With --spikes only the terms whose modulus 2n-1 is an odd prime power are
kept, reported with φ(2n-1). With --csv the table is written as CSV to the
given file ("-" for stdout).

Exit codes:
  0 - The bound holds for every term
  1 - At least one term violates the bound
  2 - Command error

Examples:
  dyadic scan --to 1024
  dyadic scan --from 1 --to 5000 --spikes --workers 8
  dyadic scan --to 2048 --csv levels.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.From, "from", 1, "first index n")
	cmd.Flags().Int64Var(&opts.To, "to", 0, "last index n (required)")
	cmd.Flags().Int64Var(&opts.Workers, "workers", 1, "concurrent workers")
	cmd.Flags().BoolVar(&opts.Spikes, "spikes", false, "keep only prime-power moduli")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "write the table as CSV to this file (\"-\" for stdout)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runScan(opts *ScanOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	exp := ir.Experiment{
		Name:    "scan",
		Kind:    ir.KindStaircase,
		From:    opts.From,
		To:      opts.To,
		Workers: opts.Workers,
	}
	if opts.Spikes {
		exp.Kind = ir.KindSpikes
	}
	if errs := compiler.Validate(&exp); len(errs) > 0 {
		return f.Fail(ExitCommandError, ErrCodeBadArgument, errs[0].Message, errs)
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	runner := experiment.New(opts.RunIDGenerator, experiment.WithLogger(logger))
	report, err := runner.Run(commandContext(cmd), exp)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRunFailed, err.Error(), nil)
	}

	switch opts.CSV {
	case "":
		if err := outputLevels(f, report); err != nil {
			return err
		}
	case "-":
		if err := experiment.NewCSVWriter(f.Writer, nil).WriteAll(report.Levels); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
	default:
		if err := writeCSVFile(opts.CSV, report.Levels); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
		f.VerboseLog("Wrote %d row(s) to %s", len(report.Levels), opts.CSV)
		if err := f.Success(reportSummary{report}); err != nil {
			return err
		}
	}

	if !report.Pass() {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d term(s) violate the horizon bound", ErrCodeBoundViolated, len(report.Violations)))
	}
	return nil
}

func writeCSVFile(path string, levels []ir.Level) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := experiment.NewCSVWriter(file, nil).WriteAll(levels); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// outputLevels prints the report. Text mode renders a table.
func outputLevels(f *OutputFormatter, report *ir.Report) error {
	if f.Format == "json" {
		return f.Success(report)
	}
	writeLevelTable(f.Writer, report.Levels, report.Experiment.Kind == ir.KindSpikes)
	fmt.Fprintln(f.Writer)
	fmt.Fprintln(f.Writer, reportSummary{report})
	return nil
}

func writeLevelTable(w io.Writer, levels []ir.Level, withPhi bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if withPhi {
		fmt.Fprintln(tw, "n\tm\tL\tstair\tbound\tp\tφ(m)\t")
	} else {
		fmt.Fprintln(tw, "n\tm\tL\tstair\tbound\tp\t")
	}
	for _, lv := range levels {
		p := "-"
		if lv.PrimeBase != 0 {
			p = fmt.Sprint(lv.PrimeBase)
		}
		bound := "✓"
		if !lv.Bound {
			bound = "✗"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\t", lv.N, lv.M, lv.L, lv.Staircase, bound, p)
		if withPhi {
			fmt.Fprintf(tw, "%d\t", lv.Phi)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// reportSummary renders the one-line outcome of a report. JSON encoding
// sees the embedded report's fields.
type reportSummary struct {
	*ir.Report
}

func (s reportSummary) String() string {
	r := s.Report
	mark := "✓"
	if !r.Pass() {
		mark = "✗"
	}
	switch r.Experiment.Kind {
	case ir.KindNorm:
		n := r.Norm
		return fmt.Sprintf("%s %s: %d samples, max relative error %.3g (tolerance %.3g), non-commutative %d, non-associative %d",
			mark, r.Experiment.Name, n.Samples, n.MaxRelativeError, n.RelativeTolerance, n.NonCommutative, n.NonAssociative)
	case ir.KindSpikes:
		return fmt.Sprintf("%s %s: %d prime-power spike(s) in [%d, %d], %d violation(s), digest %s",
			mark, r.Experiment.Name, len(r.Levels), r.Experiment.From, r.Experiment.To, len(r.Violations), shortDigest(r.Digest))
	default:
		return fmt.Sprintf("%s %s: %d level(s) in [%d, %d], %d violation(s), digest %s",
			mark, r.Experiment.Name, len(r.Levels), r.Experiment.From, r.Experiment.To, len(r.Violations), shortDigest(r.Digest))
	}
}

func shortDigest(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}
