package experiment

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a003558/dyadic/internal/horizon"
	"github.com/a003558/dyadic/internal/ir"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRun_Staircase(t *testing.T) {
	r := New(NewFixedGenerator("run-1"), WithLogger(quietLogger()))
	exp := ir.Experiment{Name: "small", Kind: ir.KindStaircase, From: 1, To: 8, Workers: 1}

	report, err := r.Run(context.Background(), exp)
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, ir.MustExperimentID(exp), report.ExperimentID)
	assert.Equal(t, ir.IRVersion, report.IRVersion)
	assert.Equal(t, ir.ToolVersion, report.ToolVersion)
	require.Len(t, report.Levels, 8)
	assert.Equal(t, ir.Level{N: 5, M: 9, L: 6, Staircase: 4, Bound: true, PrimeBase: 3}, report.Levels[4])
	assert.Equal(t, ir.Level{N: 8, M: 15, L: 4, Staircase: 4, Bound: true}, report.Levels[7])
	assert.Empty(t, report.Violations)
	assert.Nil(t, report.Norm)
	assert.True(t, report.Pass())

	want, err := ir.LevelsDigest(report.Levels)
	require.NoError(t, err)
	assert.Equal(t, want, report.Digest)
}

func TestRun_StaircaseIndependentOfWorkers(t *testing.T) {
	exp := ir.Experiment{Name: "wide", Kind: ir.KindStaircase, From: 1, To: 2048, Workers: 1}
	serial, err := New(NewFixedGenerator("a"), WithLogger(quietLogger())).Run(context.Background(), exp)
	require.NoError(t, err)

	exp.Workers = 8
	parallel, err := New(NewFixedGenerator("b"), WithLogger(quietLogger())).Run(context.Background(), exp)
	require.NoError(t, err)

	assert.Equal(t, serial.Levels, parallel.Levels)
	assert.Equal(t, serial.Digest, parallel.Digest)
	assert.Equal(t, serial.ExperimentID, parallel.ExperimentID, "workers do not change the definition identity")
	assert.Empty(t, parallel.Violations)
}

func TestRun_Spikes(t *testing.T) {
	r := New(NewFixedGenerator("run-1"), WithLogger(quietLogger()))
	report, err := r.Run(context.Background(), ir.Experiment{
		Name: "spikes", Kind: ir.KindSpikes, From: 1, To: 20, Workers: 2,
	})
	require.NoError(t, err)

	// 2n-1 for n in 1..20 is a prime power except for 1, 15, 21, 33, 35, 39.
	require.Len(t, report.Levels, 14)
	assert.Equal(t, ir.Level{N: 2, M: 3, L: 2, Staircase: 2, Bound: true, PrimeBase: 3, Phi: 2}, report.Levels[0])
	assert.Equal(t, ir.Level{N: 3, M: 5, L: 4, Staircase: 3, Bound: true, PrimeBase: 5, Phi: 4}, report.Levels[1])
	for _, lv := range report.Levels {
		assert.NotZero(t, lv.PrimeBase, "n=%d", lv.N)
		assert.Zero(t, lv.Phi%lv.L, "ord must divide φ for n=%d", lv.N)
	}
	assert.Empty(t, report.Violations)
	assert.NotEmpty(t, report.Digest)
}

func TestRun_Norm(t *testing.T) {
	exp := ir.Experiment{Name: "norm", Kind: ir.KindNorm, Samples: 300, Seed: 7, Workers: 1}
	serial, err := New(NewFixedGenerator("a"), WithLogger(quietLogger())).Run(context.Background(), exp)
	require.NoError(t, err)

	require.NotNil(t, serial.Norm)
	assert.Equal(t, int64(300), serial.Norm.Samples)
	assert.Less(t, serial.Norm.MaxRelativeError, DefaultRelativeTolerance)
	assert.LessOrEqual(t, serial.Norm.MeanRelativeError, serial.Norm.MaxRelativeError)
	assert.Equal(t, int64(300), serial.Norm.NonCommutative)
	assert.Equal(t, int64(300), serial.Norm.NonAssociative)
	assert.True(t, serial.Norm.WithinTolerance)
	assert.True(t, serial.Pass())
	assert.Empty(t, serial.Levels)
	assert.Empty(t, serial.Digest)

	exp.Workers = 4
	parallel, err := New(NewFixedGenerator("b"), WithLogger(quietLogger())).Run(context.Background(), exp)
	require.NoError(t, err)
	assert.Equal(t, *serial.Norm, *parallel.Norm, "seeded sampling is reproducible across worker counts")
}

func TestRun_NormOutsideTolerance(t *testing.T) {
	r := New(NewFixedGenerator("a"), WithLogger(quietLogger()), WithTolerance(-1))
	report, err := r.Run(context.Background(), ir.Experiment{Name: "strict", Kind: ir.KindNorm, Samples: 10, Workers: 1})
	require.NoError(t, err)
	assert.False(t, report.Norm.WithinTolerance)
	assert.False(t, report.Pass())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		exp  ir.Experiment
		want string
	}{
		{"empty range", ir.Experiment{Name: "x", Kind: ir.KindStaircase, From: 10, To: 9}, "invalid range"},
		{"zero from", ir.Experiment{Name: "x", Kind: ir.KindSpikes, From: 0, To: 9}, "invalid range"},
		{"no samples", ir.Experiment{Name: "x", Kind: ir.KindNorm}, "samples must be positive"},
		{"unknown kind", ir.Experiment{Name: "x", Kind: "coupling"}, "unknown kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(NewFixedGenerator("a"), WithLogger(quietLogger()))
			_, err := r.Run(context.Background(), tt.exp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), `experiment "x"`)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(NewFixedGenerator("a"), WithLogger(quietLogger()))
	_, err := r.Run(ctx, ir.Experiment{Name: "x", Kind: ir.KindStaircase, From: 1, To: 5000, Workers: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := New(NewFixedGenerator("run-9"), WithLogger(logger))
	_, err := r.Run(context.Background(), ir.Experiment{Name: "logged", Kind: ir.KindSpikes, From: 1, To: 4, Workers: 1})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "experiment starting")
	assert.Contains(t, out, "experiment finished")
	assert.Contains(t, out, "prime-power spikes found")
	assert.Contains(t, out, "run_id=run-9")
	assert.Contains(t, out, "experiment=logged")
}

func TestRunAll_StopsAtFirstError(t *testing.T) {
	r := New(NewFixedGenerator("a", "b", "c"), WithLogger(quietLogger()))
	reports, err := r.RunAll(context.Background(), []ir.Experiment{
		{Name: "ok", Kind: ir.KindStaircase, From: 1, To: 4, Workers: 1},
		{Name: "bad", Kind: ir.KindStaircase, From: 4, To: 1, Workers: 1},
		{Name: "never", Kind: ir.KindStaircase, From: 1, To: 4, Workers: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `experiment "bad"`)
	require.Len(t, reports, 1)
	assert.Equal(t, "ok", reports[0].Experiment.Name)
}

func TestNew_DefaultGenerator(t *testing.T) {
	r := New(nil, WithLogger(quietLogger()))
	report, err := r.Run(context.Background(), ir.Experiment{Name: "x", Kind: ir.KindStaircase, From: 1, To: 1, Workers: 1})
	require.NoError(t, err)
	assert.Len(t, report.RunID, 36)
}

func TestScanLevels_MatchesSequence(t *testing.T) {
	want, err := horizon.Sequence(100, 1100)
	require.NoError(t, err)
	got, err := ScanLevels(context.Background(), 100, 1100, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestScanLevels_ZeroWorkersRunsSerially(t *testing.T) {
	got, err := ScanLevels(context.Background(), 1, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []horizon.Level{{1, 1, 1}, {2, 3, 2}, {3, 5, 4}}, got)
}

func TestRecord(t *testing.T) {
	assert.Equal(t,
		ir.Level{N: 5, M: 9, L: 6, Staircase: 4, Bound: true, PrimeBase: 3},
		Record(horizon.Level{N: 5, M: 9, L: 6}))
	assert.Equal(t,
		ir.Level{N: 5, M: 9, L: 3, Staircase: 4, Bound: false, PrimeBase: 3},
		Record(horizon.Level{N: 5, M: 9, L: 3}))
	assert.Equal(t,
		ir.Level{N: 1, M: 1, L: 1, Staircase: 1, Bound: true},
		Record(horizon.Level{N: 1, M: 1, L: 1}))
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("x", "y")
	assert.Equal(t, "x", gen.Generate())
	assert.Equal(t, "y", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator_Sortable(t *testing.T) {
	var gen UUIDv7Generator
	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a, b)
}
