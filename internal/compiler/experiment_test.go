package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a003558/dyadic/internal/ir"
)

func compileNamed(t *testing.T, src, path string) (*ir.Experiment, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileExperiment(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileExperimentStaircase(t *testing.T) {
	exp, err := compileNamed(t, `
		experiment: horizon: {
			kind: "staircase"
			description: "A003558 against the dyadic horizon"
			from: 1
			to: 2048
			workers: 4
		}
	`, "experiment.horizon")
	require.NoError(t, err)

	assert.Equal(t, ir.Experiment{
		Name:    "horizon",
		Kind:    ir.KindStaircase,
		From:    1,
		To:      2048,
		Workers: 4,
	}, *exp)
}

func TestCompileExperimentDefaults(t *testing.T) {
	exp, err := compileNamed(t, `
		experiment: law: {
			kind: "norm"
			samples: 100
		}
	`, "experiment.law")
	require.NoError(t, err)

	assert.Equal(t, "law", exp.Name)
	assert.Equal(t, ir.KindNorm, exp.Kind)
	assert.Equal(t, int64(100), exp.Samples)
	assert.Equal(t, int64(0), exp.Seed)
	assert.Equal(t, int64(1), exp.Workers)
	assert.Zero(t, exp.From)
	assert.Zero(t, exp.To)
}

func TestCompileExperimentSeedOverride(t *testing.T) {
	exp, err := compileNamed(t, `
		experiment: law: {
			kind: "norm"
			samples: 10
			seed: 42
		}
	`, "experiment.law")
	require.NoError(t, err)
	assert.Equal(t, int64(42), exp.Seed)
}

func TestCompileExperimentUnknownKind(t *testing.T) {
	_, err := compileNamed(t, `
		experiment: bad: {
			kind: "coupling"
		}
	`, "experiment.bad")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "cue", compileErr.Field)
}

func TestCompileExperimentMissingKind(t *testing.T) {
	_, err := compileNamed(t, `
		experiment: bad: {
			from: 1
			to: 10
		}
	`, "experiment.bad")
	require.Error(t, err)
}

func TestCompileExperimentUnknownField(t *testing.T) {
	_, err := compileNamed(t, `
		experiment: bad: {
			kind: "staircase"
			from: 1
			too: 10
		}
	`, "experiment.bad")
	require.Error(t, err)
}

func TestCompileExperimentOutOfBounds(t *testing.T) {
	_, err := compileNamed(t, `
		experiment: bad: {
			kind: "staircase"
			from: 0
			to: 10
		}
	`, "experiment.bad")
	require.Error(t, err)

	_, err = compileNamed(t, `
		experiment: bad: {
			kind: "norm"
			samples: 5
			workers: 1000
		}
	`, "experiment.bad")
	require.Error(t, err)
}

func TestCompileExperimentNonInteger(t *testing.T) {
	_, err := compileNamed(t, `
		experiment: bad: {
			kind: "staircase"
			from: 1
			to: 2.5
		}
	`, "experiment.bad")
	require.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "to", Message: "must be an integer"}
	assert.Equal(t, "to: must be an integer", err.Error())
}
