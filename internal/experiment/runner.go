package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/a003558/dyadic/internal/horizon"
	"github.com/a003558/dyadic/internal/ir"
	"github.com/a003558/dyadic/internal/octonion"
)

// DefaultRelativeTolerance is the largest relative norm-law error a norm
// experiment accepts.
const DefaultRelativeTolerance = 1e-9

// witnessTolerance is the norm above which a commutator or associator counts
// as non-zero.
const witnessTolerance = 1e-12

// chunkSize is the number of indices or samples one worker task handles.
const chunkSize = 256

// Runner executes experiments.
type Runner struct {
	gen       RunIDGenerator
	logger    *slog.Logger
	tolerance float64
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTolerance sets the relative tolerance of the norm law.
// Default: DefaultRelativeTolerance.
func WithTolerance(tol float64) Option {
	return func(r *Runner) {
		r.tolerance = tol
	}
}

// New creates a Runner. A nil gen defaults to UUIDv7Generator.
func New(gen RunIDGenerator, opts ...Option) *Runner {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	r := &Runner{
		gen:       gen,
		logger:    slog.Default(),
		tolerance: DefaultRelativeTolerance,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one experiment and returns its report. A report with
// violations is still a successful run; callers inspect Report.Pass.
func (r *Runner) Run(ctx context.Context, exp ir.Experiment) (*ir.Report, error) {
	expID, err := ir.ExperimentID(exp)
	if err != nil {
		return nil, fmt.Errorf("experiment %q: %w", exp.Name, err)
	}

	report := &ir.Report{
		RunID:        r.gen.Generate(),
		ExperimentID: expID,
		Experiment:   exp,
		IRVersion:    ir.IRVersion,
		ToolVersion:  ir.ToolVersion,
	}
	logger := r.logger.With("experiment", exp.Name, "kind", string(exp.Kind), "run_id", report.RunID)
	logger.Info("experiment starting")

	switch exp.Kind {
	case ir.KindStaircase:
		err = r.runStaircase(ctx, exp, report)
	case ir.KindSpikes:
		err = r.runSpikes(ctx, exp, report)
	case ir.KindNorm:
		err = r.runNorm(ctx, exp, report)
	default:
		err = fmt.Errorf("unknown kind %q", exp.Kind)
	}
	if err != nil {
		logger.Error("experiment failed", "error", err)
		return nil, fmt.Errorf("experiment %q: %w", exp.Name, err)
	}

	logger.Info("experiment finished",
		"levels", len(report.Levels),
		"violations", len(report.Violations),
		"pass", report.Pass())
	return report, nil
}

// RunAll runs experiments in order and stops at the first error.
func (r *Runner) RunAll(ctx context.Context, exps []ir.Experiment) ([]*ir.Report, error) {
	reports := make([]*ir.Report, 0, len(exps))
	for _, exp := range exps {
		report, err := r.Run(ctx, exp)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *Runner) runStaircase(ctx context.Context, exp ir.Experiment, report *ir.Report) error {
	levels, err := ScanLevels(ctx, exp.From, exp.To, int(exp.Workers))
	if err != nil {
		return err
	}

	report.Levels = make([]ir.Level, len(levels))
	for i, lv := range levels {
		report.Levels[i] = Record(lv)
	}
	report.Violations = violations(report.Levels)
	return r.digest(report)
}

func (r *Runner) runSpikes(ctx context.Context, exp ir.Experiment, report *ir.Report) error {
	levels, err := ScanLevels(ctx, exp.From, exp.To, int(exp.Workers))
	if err != nil {
		return err
	}

	var all []ir.Level
	for _, lv := range levels {
		rec := Record(lv)
		all = append(all, rec)
		if rec.PrimeBase == 0 {
			continue
		}
		phi, err := horizon.Phi(lv.M)
		if err != nil {
			return err
		}
		rec.Phi = phi
		report.Levels = append(report.Levels, rec)
	}
	report.Violations = violations(all)
	r.logger.Debug("prime-power spikes found", "experiment", exp.Name, "spikes", len(report.Levels), "scanned", len(all))
	return r.digest(report)
}

func (r *Runner) digest(report *ir.Report) error {
	d, err := ir.LevelsDigest(report.Levels)
	if err != nil {
		return err
	}
	report.Digest = d
	return nil
}

// ScanLevels computes horizon levels for every n in [from, to] using at most
// workers goroutines. The result is in index order.
func ScanLevels(ctx context.Context, from, to int64, workers int) ([]horizon.Level, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("invalid range [%d, %d]: need 1 <= from <= to", from, to)
	}
	n := to - from + 1
	levels := make([]horizon.Level, n)

	err := forEachChunk(ctx, n, workers, func(ctx context.Context, start, end int64) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			lv, err := horizon.Compute(from + i)
			if err != nil {
				return err
			}
			levels[i] = lv
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// Record converts a computed level into its report form.
func Record(lv horizon.Level) ir.Level {
	rec := ir.Level{
		N:         lv.N,
		M:         lv.M,
		L:         lv.L,
		Staircase: int64(lv.Staircase()),
		Bound:     lv.Bound(),
	}
	if p, ok := horizon.PrimePowerBase(lv.M); ok {
		rec.PrimeBase = p
	}
	return rec
}

func violations(levels []ir.Level) []ir.Level {
	var bad []ir.Level
	for _, lv := range levels {
		if !lv.Bound {
			bad = append(bad, lv)
		}
	}
	return bad
}

type normSample struct {
	relErr         float64
	nonCommutative bool
	nonAssociative bool
}

func (r *Runner) runNorm(ctx context.Context, exp ir.Experiment, report *ir.Report) error {
	if exp.Samples < 1 {
		return fmt.Errorf("samples must be positive, got %d", exp.Samples)
	}
	samples := make([]normSample, exp.Samples)
	seed := uint64(exp.Seed)

	err := forEachChunk(ctx, exp.Samples, int(exp.Workers), func(ctx context.Context, start, end int64) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			samples[i] = drawSample(seed, uint64(i))
		}
		return nil
	})
	if err != nil {
		return err
	}

	summary := &ir.NormSummary{
		Samples:           exp.Samples,
		RelativeTolerance: r.tolerance,
	}
	var sum float64
	for _, s := range samples {
		sum += s.relErr
		summary.MaxRelativeError = math.Max(summary.MaxRelativeError, s.relErr)
		if s.nonCommutative {
			summary.NonCommutative++
		}
		if s.nonAssociative {
			summary.NonAssociative++
		}
	}
	summary.MeanRelativeError = sum / float64(len(samples))
	summary.WithinTolerance = summary.MaxRelativeError <= r.tolerance
	report.Norm = summary
	return nil
}

// drawSample evaluates the algebra laws on the i-th seeded triple.
func drawSample(seed, i uint64) normSample {
	x := octonion.RandomUnit(rand.NewPCG(seed, 3*i))
	y := octonion.RandomUnit(rand.NewPCG(seed, 3*i+1))
	z := octonion.RandomUnit(rand.NewPCG(seed, 3*i+2))

	want := octonion.SquaredNorm(x) * octonion.SquaredNorm(y)
	got := octonion.SquaredNorm(octonion.Mul(x, y))
	return normSample{
		relErr:         math.Abs(got-want) / want,
		nonCommutative: octonion.Norm(octonion.Commutator(x, y)) > witnessTolerance,
		nonAssociative: octonion.Norm(octonion.Associator(x, y, z)) > witnessTolerance,
	}
}

// forEachChunk splits [0, n) into chunks and runs fn on them with at most
// workers concurrent calls. The first error cancels the rest.
func forEachChunk(ctx context.Context, n int64, workers int, fn func(ctx context.Context, start, end int64) error) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := int64(0); start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			return fn(gctx, start, end)
		})
	}
	return g.Wait()
}
