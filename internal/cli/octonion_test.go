package cli

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a003558/dyadic/internal/octonion"
)

func TestOctonionMul(t *testing.T) {
	out, _, err := execute(t, "octonion", "mul", "e1", "e2")
	require.NoError(t, err)
	assert.Equal(t, "xy = [0 0 0 1 0 0 0 0]  |·| = 1\n", out)
}

func TestOctonionMulAnticommutes(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "mul", "e2", "e1")
	require.NoError(t, err)

	var got VectorResult
	decodeResponse(t, out, &got)
	assert.Equal(t, octonion.Scale(octonion.MustBasis(3), -1), got.Vector)
}

func TestOctonionMulComponentLists(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "mul", "1,2,0,0,0,0,0,0", "[0 0 1 0 0 0 0 0]")
	require.NoError(t, err)

	// (1 + 2e1)e2 = e2 + 2e3
	var got VectorResult
	decodeResponse(t, out, &got)
	assert.Equal(t, octonion.Octonion{0, 0, 1, 2, 0, 0, 0, 0}, got.Vector)
	assert.InDelta(t, math.Sqrt(5), got.Norm, 1e-12)
}

func TestOctonionMulDimensionMismatch(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "mul", "1,2,3,4,5,6,7", "e1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDimensionMismatch, resp.Error.Code)
}

func TestOctonionMulNotANumber(t *testing.T) {
	out, _, err := execute(t, "octonion", "mul", "1,x,0,0,0,0,0,0", "e1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
}

func TestOctonionMulNonFiniteJSON(t *testing.T) {
	for _, x := range []string{"NaN,0,0,0,0,0,0,0", "0,Inf,0,0,0,0,0,0", "1e999,0,0,0,0,0,0,0"} {
		out, _, err := execute(t, "--format", "json", "octonion", "mul", x, "e1")
		require.Error(t, err, x)
		assert.Equal(t, ExitCommandError, GetExitCode(err))

		resp := decodeResponse(t, out, nil)
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeMathInvalidArgument, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "is not finite")
	}
}

func TestOctonionMulOverflowJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "mul", "1e200,0,0,0,0,0,0,0", "1e200,0,0,0,0,0,0,0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeGeneric, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "cannot be encoded as JSON")
}

func TestOctonionNormRejectsNaN(t *testing.T) {
	out, _, err := execute(t, "octonion", "norm", "nan 0 0 0 0 0 0 0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
}

func TestOctonionNorm(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "norm", "1,1,1,1,1,1,1,1")
	require.NoError(t, err)

	var got NormResult
	decodeResponse(t, out, &got)
	assert.Equal(t, 8.0, got.SquaredNorm)
	assert.InDelta(t, math.Sqrt(8), got.Norm, 1e-12)
}

func TestOctonionNormText(t *testing.T) {
	out, _, err := execute(t, "octonion", "norm", "[3 4 0 0 0 0 0 0]")
	require.NoError(t, err)
	assert.Equal(t, "|x|² = 25  |x| = 5\n", out)
}

func TestOctonionRandomSeeded(t *testing.T) {
	first, _, err := execute(t, "--format", "json", "octonion", "random", "--seed", "42")
	require.NoError(t, err)
	second, _, err := execute(t, "--format", "json", "octonion", "random", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var got VectorResult
	decodeResponse(t, first, &got)
	assert.Equal(t, octonion.SeededUnit(42), got.Vector)
	assert.InDelta(t, 1.0, got.Norm, 1e-12)
}

func TestOctonionRandomUnseeded(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "random")
	require.NoError(t, err)

	var got VectorResult
	decodeResponse(t, out, &got)
	assert.InDelta(t, 1.0, octonion.Norm(got.Vector), 1e-12)
}

func TestOctonionRandomNegativeSeed(t *testing.T) {
	_, _, err := execute(t, "octonion", "random", "--seed=-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOctonionTable(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "table")
	require.NoError(t, err)

	var got TableResult
	decodeResponse(t, out, &got)
	require.Len(t, got.Rows, 8)
	assert.Equal(t, octonion.Triples, got.Triples)

	assert.Equal(t, "e5", got.Rows[0][5])
	assert.Equal(t, "e5", got.Rows[5][0])
	assert.Equal(t, "e3", got.Rows[1][2])
	assert.Equal(t, "-e3", got.Rows[2][1])
	assert.Equal(t, "e6", got.Rows[1][7])
	assert.Equal(t, "-e6", got.Rows[7][1])
	for i := 1; i < 8; i++ {
		assert.Equal(t, "-1", got.Rows[i][i], "e%d·e%d", i, i)
	}
}

func TestOctonionTableText(t *testing.T) {
	out, _, err := execute(t, "octonion", "table")
	require.NoError(t, err)
	// header row plus eight unit rows
	assert.Len(t, splitLines(out), 9)
	assert.Contains(t, out, "-e3")
}

func TestOctonionCheck(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "octonion", "check", "--samples", "200", "--seed", "1", "--workers", "2")
	require.NoError(t, err)

	var got CheckResult
	decodeResponse(t, out, &got)
	require.NotNil(t, got.Report)
	require.NotNil(t, got.Report.Norm)
	assert.True(t, got.Report.Norm.WithinTolerance)
	assert.Equal(t, int64(200), got.Report.Norm.Samples)
	assert.Equal(t, octonion.MustBasis(3), got.Commutator[0])
	assert.Equal(t, octonion.Scale(octonion.MustBasis(3), -1), got.Commutator[1])
	assert.Equal(t, octonion.Scale(got.Associator[1], -1), got.Associator[0])
}

func TestOctonionCheckText(t *testing.T) {
	out, _, err := execute(t, "octonion", "check", "--samples", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "e1e2 = [0 0 0 1 0 0 0 0]")
	assert.Contains(t, out, "✓ check: 50 samples")
}

func TestOctonionCheckRejectsZeroSamples(t *testing.T) {
	out, _, err := execute(t, "octonion", "check", "--samples", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "samples must be in")
}
