package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/a003558/dyadic/internal/compiler"
	"github.com/a003558/dyadic/internal/experiment"
	"github.com/a003558/dyadic/internal/ir"
	"github.com/a003558/dyadic/internal/octonion"
)

// VectorResult is the output of commands that produce one octonion.
type VectorResult struct {
	Op     string            `json:"op"`
	Vector octonion.Octonion `json:"vector"`
	Norm   float64           `json:"norm"`
}

func (r VectorResult) String() string {
	return fmt.Sprintf("%s = %s  |·| = %s", r.Op, r.Vector, formatNumber(r.Norm))
}

// NormResult is the output of the octonion norm command.
type NormResult struct {
	Vector      octonion.Octonion `json:"vector"`
	SquaredNorm float64           `json:"squared_norm"`
	Norm        float64           `json:"norm"`
}

func (r NormResult) String() string {
	return fmt.Sprintf("|x|² = %s  |x| = %s", formatNumber(r.SquaredNorm), formatNumber(r.Norm))
}

// TableResult is the output of the octonion table command. Entry (i, j)
// names the product ei·ej, for example "-e3" or "1".
type TableResult struct {
	Triples [7]octonion.Triple `json:"triples"`
	Rows    [][]string         `json:"rows"`
}

func (r TableResult) String() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "·\t")
	for j := 0; j < octonion.Dim; j++ {
		fmt.Fprintf(tw, "%s\t", unitName(1, uint8(j)))
	}
	fmt.Fprintln(tw)
	for i, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t", unitName(1, uint8(i)))
		for _, cell := range row {
			fmt.Fprintf(tw, "%s\t", cell)
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// CheckResult is the output of the octonion check command.
type CheckResult struct {
	Report *ir.Report `json:"report"`

	// e1e2 and e2e1, which differ in sign.
	Commutator [2]octonion.Octonion `json:"commutator_witness"`

	// (e1e2)e4 and e1(e2e4), which differ in sign.
	Associator [2]octonion.Octonion `json:"associator_witness"`
}

func (r CheckResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "e1e2 = %s, e2e1 = %s\n", r.Commutator[0], r.Commutator[1])
	fmt.Fprintf(&b, "(e1e2)e4 = %s, e1(e2e4) = %s\n", r.Associator[0], r.Associator[1])
	fmt.Fprint(&b, reportSummary{r.Report})
	return b.String()
}

// CheckOptions holds flags for the octonion check command.
type CheckOptions struct {
	*RootOptions
	Samples int64
	Seed    int64
	Workers int64

	// RunIDGenerator overrides the report run ID (for testing).
	RunIDGenerator experiment.RunIDGenerator
}

// NewOctonionCommand creates the octonion command group.
func NewOctonionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "octonion",
		Short: "Octonion algebra on the Fano-plane basis",
		Long: `Multiply, measure and sample octonions.

An octonion argument is eight numbers separated by commas or spaces,
optionally in brackets, or a basis name e0..e7:

  dyadic octonion mul e1 e2
  dyadic octonion mul "1,2,0,0,0,0,0,0" "[0 0 1 0 0 0 0 0]"`,
	}

	cmd.AddCommand(newOctonionMulCommand(rootOpts))
	cmd.AddCommand(newOctonionNormCommand(rootOpts))
	cmd.AddCommand(newOctonionRandomCommand(rootOpts))
	cmd.AddCommand(newOctonionTableCommand(rootOpts))
	cmd.AddCommand(newOctonionCheckCommand(rootOpts))

	return cmd
}

func newOctonionMulCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "mul <x> <y>",
		Short:         "Multiply two octonions",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			xs, err := parseOctonions(f, args)
			if err != nil {
				return err
			}
			z := octonion.Mul(xs[0], xs[1])
			return f.Success(VectorResult{Op: "xy", Vector: z, Norm: octonion.Norm(z)})
		},
	}
}

func newOctonionNormCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "norm <x>",
		Short:         "Compute the squared and Euclidean norm",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			xs, err := parseOctonions(f, args)
			if err != nil {
				return err
			}
			x := xs[0]
			return f.Success(NormResult{Vector: x, SquaredNorm: octonion.SquaredNorm(x), Norm: octonion.Norm(x)})
		},
	}
}

func newOctonionRandomCommand(rootOpts *RootOptions) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Draw a random unit octonion",
		Long: `Draw a point uniformly from the unit 7-sphere.

With --seed the draw is reproducible: the same seed prints the same bits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			var x octonion.Octonion
			if cmd.Flags().Changed("seed") {
				if seed < 0 {
					return f.Fail(ExitCommandError, ErrCodeBadArgument, fmt.Sprintf("seed must be >= 0, got %d", seed), nil)
				}
				x = octonion.SeededUnit(uint64(seed))
			} else {
				x = octonion.RandomUnit(nil)
			}
			return f.Success(VectorResult{Op: "u", Vector: x, Norm: octonion.Norm(x)})
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible draw")
	return cmd
}

func newOctonionTableCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "table",
		Short:         "Print the multiplication table of the basis units",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return f.Success(buildTableResult(octonion.Structure()))
		},
	}
}

func newOctonionCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sample the norm law and print non-commutativity witnesses",
		Long: `Draw seeded triples of random unit octonions and check |xy|² = |x|²|y|²
to a relative tolerance of 1e-9. Also counts the pairs that fail to commute
and the triples that fail to associate.

Exit codes:
  0 - The norm law held for every sample
  1 - At least one sample exceeded the tolerance
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd)
		},
	}
	cmd.Flags().Int64Var(&opts.Samples, "samples", 10000, "number of sampled triples")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "sampling seed")
	cmd.Flags().Int64Var(&opts.Workers, "workers", 1, "concurrent workers")
	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	exp := ir.Experiment{
		Name:    "check",
		Kind:    ir.KindNorm,
		Samples: opts.Samples,
		Seed:    opts.Seed,
		Workers: opts.Workers,
	}
	if errs := compiler.Validate(&exp); len(errs) > 0 {
		return f.Fail(ExitCommandError, ErrCodeBadArgument, errs[0].Message, errs)
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	report, err := experiment.New(opts.RunIDGenerator, experiment.WithLogger(logger)).Run(commandContext(cmd), exp)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRunFailed, err.Error(), nil)
	}

	e1, e2, e4 := octonion.MustBasis(1), octonion.MustBasis(2), octonion.MustBasis(4)
	result := CheckResult{
		Report:     report,
		Commutator: [2]octonion.Octonion{octonion.Mul(e1, e2), octonion.Mul(e2, e1)},
		Associator: [2]octonion.Octonion{
			octonion.Mul(octonion.Mul(e1, e2), e4),
			octonion.Mul(e1, octonion.Mul(e2, e4)),
		},
	}
	if err := f.Success(result); err != nil {
		return err
	}
	if !report.Pass() {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: norm law exceeded tolerance (max relative error %g)", ErrCodeRunFailed, report.Norm.MaxRelativeError))
	}
	return nil
}

func buildTableResult(t *octonion.Table) TableResult {
	r := TableResult{Triples: octonion.Triples, Rows: make([][]string, octonion.Dim)}
	for i := 0; i < octonion.Dim; i++ {
		r.Rows[i] = make([]string, octonion.Dim)
		for j := 0; j < octonion.Dim; j++ {
			p := t[i][j]
			r.Rows[i][j] = unitName(p.Sign, p.Unit)
		}
	}
	return r
}

// unitName renders sign·e_unit, writing the real unit as 1.
func unitName(sign int8, unit uint8) string {
	name := fmt.Sprintf("e%d", unit)
	if unit == 0 {
		name = "1"
	}
	if sign < 0 {
		return "-" + name
	}
	return name
}

// parseOctonions parses positional octonion arguments.
func parseOctonions(f *OutputFormatter, args []string) ([]octonion.Octonion, error) {
	out := make([]octonion.Octonion, len(args))
	for i, arg := range args {
		x, err := octonion.Parse(arg)
		if err != nil {
			return nil, f.FailErr(err)
		}
		out[i] = x
	}
	return out, nil
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.15g", v)
}
