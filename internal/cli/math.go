package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/a003558/dyadic/internal/horizon"
)

// OrderResult is the output of the order command.
type OrderResult struct {
	Base    int64 `json:"base"`
	Modulus int64 `json:"modulus"`
	Order   int64 `json:"order"`
}

func (r OrderResult) String() string {
	return fmt.Sprintf("ord_%d(%d) = %d", r.Modulus, r.Base, r.Order)
}

// StaircaseResult is the output of the staircase command.
type StaircaseResult struct {
	N     int64 `json:"n"`
	Level int   `json:"level"`
}

func (r StaircaseResult) String() string {
	return fmt.Sprintf("staircase(%d) = %d", r.N, r.Level)
}

// BoundResult is the output of the bound command.
type BoundResult struct {
	N         int64 `json:"n"`
	L         int64 `json:"l"`
	Staircase int   `json:"staircase"`
	Holds     bool  `json:"holds"`
}

func (r BoundResult) String() string {
	if r.Holds {
		return fmt.Sprintf("✓ L=%d >= staircase(%d)=%d", r.L, r.N, r.Staircase)
	}
	return fmt.Sprintf("✗ L=%d < staircase(%d)=%d", r.L, r.N, r.Staircase)
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <base> <modulus>",
		Short: "Compute a multiplicative order",
		Long: `Compute the smallest L > 0 with base^L ≡ 1 (mod modulus).

The modulus must be greater than 1 and coprime to the base. The modulus
and its totient are factored by trial division, so a modulus near 2^63 with
large prime factors can take minutes.

Examples:
  dyadic order 2 7
  dyadic order 2 2047 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ints, err := parseInts(f, args, "base", "modulus")
			if err != nil {
				return err
			}
			l, err := horizon.MultiplicativeOrder(ints[0], ints[1])
			if err != nil {
				return f.FailErr(err)
			}
			return f.Success(OrderResult{Base: ints[0], Modulus: ints[1], Order: l})
		},
	}
}

// NewStaircaseCommand creates the staircase command.
func NewStaircaseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "staircase <n>",
		Short: "Compute the staircase level 1 + ceil(log2 n)",
		Long: `Compute the staircase level 1 + ceil(log2 n) for a positive n.

Examples:
  dyadic staircase 5
  dyadic staircase 1024`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ints, err := parseInts(f, args, "n")
			if err != nil {
				return err
			}
			level, err := horizon.StaircaseLevel(ints[0])
			if err != nil {
				return f.FailErr(err)
			}
			return f.Success(StaircaseResult{N: ints[0], Level: level})
		},
	}
}

// NewBoundCommand creates the bound command.
func NewBoundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bound <n> <L>",
		Short: "Check the horizon bound L >= 1 + ceil(log2 n)",
		Long: `Check whether an order L reaches the staircase level of n.

Exit codes:
  0 - The bound holds
  1 - The bound does not hold
  2 - Command error (including a non-positive n)

Examples:
  dyadic bound 5 4
  dyadic bound 5 3`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ints, err := parseInts(f, args, "n", "L")
			if err != nil {
				return err
			}
			n, l := ints[0], ints[1]

			holds, err := horizon.HorizonBound(n, l)
			if err != nil {
				return f.FailErr(err)
			}
			level, err := horizon.StaircaseLevel(n)
			if err != nil {
				return f.FailErr(err)
			}
			result := BoundResult{N: n, L: l, Staircase: level, Holds: holds}
			if err := f.Success(result); err != nil {
				return err
			}
			if !result.Holds {
				return NewExitError(ExitFailure, fmt.Sprintf("%s: horizon bound does not hold for n=%d, L=%d", ErrCodeBoundViolated, n, l))
			}
			return nil
		},
	}
}

// parseInts parses positional integer arguments, reporting the first bad one
// as a command error.
func parseInts(f *OutputFormatter, args []string, names ...string) ([]int64, error) {
	out := make([]int64, len(names))
	for i, name := range names {
		v, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return nil, f.Fail(ExitCommandError, ErrCodeBadArgument,
				fmt.Sprintf("%s must be an integer, got %q", name, args[i]), nil)
		}
		out[i] = v
	}
	return out, nil
}
